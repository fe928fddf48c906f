package service

import (
	"context"
	"time"

	"agenda/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListClients(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Client), args.Error(1)
}
func (m *mockStore) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}
func (m *mockStore) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}
func (m *mockStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
func (m *mockStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *mockStore) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}
func (m *mockStore) InsertClient(ctx context.Context, client *models.Client) error {
	return m.Called(ctx, client).Error(0)
}
func (m *mockStore) InsertService(ctx context.Context, svc *models.Service) error {
	return m.Called(ctx, svc).Error(0)
}
func (m *mockStore) InsertAppointment(ctx context.Context, appt *models.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}
func (m *mockStore) UpdateClient(ctx context.Context, client *models.Client) error {
	return m.Called(ctx, client).Error(0)
}
func (m *mockStore) UpdateService(ctx context.Context, svc *models.Service) error {
	return m.Called(ctx, svc).Error(0)
}
func (m *mockStore) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	return m.Called(ctx, appt).Error(0)
}
func (m *mockStore) UpdateAppointmentTime(ctx context.Context, id string, startAt, endAt time.Time) error {
	return m.Called(ctx, id, startAt, endAt).Error(0)
}
func (m *mockStore) UpdateAppointmentStatus(ctx context.Context, id string, status string) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockStore) SetServiceActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *mockStore) DeleteClient(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockStore) DeleteAppointment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
