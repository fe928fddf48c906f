package service

import (
	"testing"

	"agenda/internal/database"
	"agenda/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(store *mockStore) *CatalogService {
	logger := zerolog.Nop()
	return NewCatalogService(store, &logger)
}

func TestCatalogListActiveOnly(t *testing.T) {
	store := &mockStore{}
	svc := newTestCatalogService(store)

	store.On("ListServices", ctxAny).Return([]models.Service{
		{ID: "s1", Name: "Manicure", Active: true},
		{ID: "s2", Name: "Antiga", Active: false},
	}, nil)

	active, err := svc.List(ctxAny, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "s1", active[0].ID)

	all, err := svc.List(ctxAny, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogSaveValidation(t *testing.T) {
	store := &mockStore{}
	svc := newTestCatalogService(store)

	cases := []models.Service{
		{Name: "", Price: 80, DurationMinutes: 60},
		{Name: "Manicure", Price: 0, DurationMinutes: 60},
		{Name: "Manicure", Price: 80, DurationMinutes: 0},
	}
	for i := range cases {
		err := svc.Save(ctxAny, &cases[i])
		assert.ErrorIs(t, err, database.ErrValidation, "case %d", i)
	}
}

func TestCatalogSaveNewServiceIsActive(t *testing.T) {
	store := &mockStore{}
	svc := newTestCatalogService(store)

	fresh := &models.Service{Name: "Manicure", Price: 80, DurationMinutes: 60}
	store.On("InsertService", ctxAny, fresh).Return(nil)

	require.NoError(t, svc.Save(ctxAny, fresh))
	assert.True(t, fresh.Active)
}

func TestCatalogToggle(t *testing.T) {
	store := &mockStore{}
	svc := newTestCatalogService(store)

	current := &models.Service{ID: "s1", Name: "Manicure", Active: true}
	store.On("GetService", ctxAny, "s1").Return(current, nil)
	store.On("SetServiceActive", ctxAny, "s1", false).Return(nil)

	got, err := svc.Toggle(ctxAny, "s1")
	require.NoError(t, err)
	assert.False(t, got.Active)
	store.AssertExpectations(t)
}
