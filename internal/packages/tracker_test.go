package packages

import (
	"testing"

	"agenda/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSizeExplicitFieldWins(t *testing.T) {
	svc := models.Service{Name: "2 maos 2 pes", PackageTotal: 6}
	assert.Equal(t, 6, Size(svc))
}

func TestSizeNameHeuristic(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"2 maos 2 pes", 4},
		{"2 Mãos 2 Pés", 4}, // diacritics and case are normalized away
		{"4 maos", 4},
		{"3maos", 3},
		{"1 mao", 0}, // a single session is not a package
		{"Manicure simples", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Size(models.Service{Name: tc.name}), "name=%q", tc.name)
	}
}

func TestSizePackageTotalOfOneIsNotAPackage(t *testing.T) {
	assert.Equal(t, 0, Size(models.Service{Name: "Manicure", PackageTotal: 1}))
}

func TestCompletedCountExactPair(t *testing.T) {
	appointments := []models.Appointment{
		{ClientID: "c1", ServiceID: "s1", Status: models.StatusCompleted},
		{ClientID: "c1", ServiceID: "s1", Status: models.StatusCompleted},
		{ClientID: "c1", ServiceID: "s1", Status: models.StatusPending},
		{ClientID: "c1", ServiceID: "s2", Status: models.StatusCompleted},
		{ClientID: "c2", ServiceID: "s1", Status: models.StatusCompleted},
	}

	assert.Equal(t, 2, CompletedCount("c1", "s1", appointments))
	assert.Equal(t, 1, CompletedCount("c2", "s1", appointments))
	assert.Equal(t, 0, CompletedCount("c3", "s1", appointments))
}

func TestCycleProgressWrapsAcrossCycles(t *testing.T) {
	cases := []struct {
		completed int
		size      int
		want      int
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 4},
		{5, 4, 1}, // second cycle starts over
		{8, 4, 4},
		{3, 0, 0},
	}
	for _, tc := range cases {
		got := CycleProgress(tc.completed, tc.size)
		assert.Equal(t, tc.want, got, "completed=%d size=%d", tc.completed, tc.size)
	}
}

func TestCycleComplete(t *testing.T) {
	assert.False(t, CycleComplete(0, 4))
	assert.False(t, CycleComplete(5, 4))
	assert.True(t, CycleComplete(4, 4))
	assert.True(t, CycleComplete(8, 4))
	assert.False(t, CycleComplete(4, 0))
}
