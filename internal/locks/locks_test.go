package locks

import (
	"context"
	"errors"
	"testing"

	"agenda/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine() *Machine {
	logger := zerolog.Nop()
	return NewMachine(NewMemoryRepository(), &logger)
}

func TestMachineFreshAppointmentIsUnlocked(t *testing.T) {
	m := newTestMachine()
	appt := models.Appointment{ID: "a1", Status: models.StatusPending}

	assert.True(t, m.CanReschedule(context.Background(), appt))
	assert.True(t, m.CanEdit(context.Background(), appt))
}

func TestMachineRescheduleLockBlocksOnlyReschedule(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	appt := models.Appointment{ID: "a1", Status: models.StatusConfirmed}

	require.NoError(t, m.NoteReschedule(ctx, appt.ID))

	assert.False(t, m.CanReschedule(ctx, appt))
	assert.True(t, m.CanEdit(ctx, appt))
}

func TestMachineEditLockBlocksOnlyEdit(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	appt := models.Appointment{ID: "a1", Status: models.StatusConfirmed}

	require.NoError(t, m.NoteEdit(ctx, appt.ID))

	assert.True(t, m.CanReschedule(ctx, appt))
	assert.False(t, m.CanEdit(ctx, appt))
}

func TestMachineLockedStatesAreMutuallyExclusive(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	appt := models.Appointment{ID: "a1", Status: models.StatusConfirmed}

	require.NoError(t, m.NoteReschedule(ctx, appt.ID))
	require.NoError(t, m.NoteEdit(ctx, appt.ID))

	// The later edit lock replaced the reschedule lock.
	assert.True(t, m.CanReschedule(ctx, appt))
	assert.False(t, m.CanEdit(ctx, appt))

	require.NoError(t, m.NoteReschedule(ctx, appt.ID))
	assert.False(t, m.CanReschedule(ctx, appt))
	assert.True(t, m.CanEdit(ctx, appt))
}

func TestMachineCanceledAppointmentIsFullyLocked(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	appt := models.Appointment{ID: "a1", Status: models.StatusCanceled}

	assert.False(t, m.CanReschedule(ctx, appt))
	assert.False(t, m.CanEdit(ctx, appt))
}

func TestMachineResetDropsAllState(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	a1 := models.Appointment{ID: "a1", Status: models.StatusPending}
	a2 := models.Appointment{ID: "a2", Status: models.StatusPending}

	require.NoError(t, m.NoteReschedule(ctx, a1.ID))
	require.NoError(t, m.NoteEdit(ctx, a2.ID))

	require.NoError(t, m.Reset(ctx))

	assert.True(t, m.CanReschedule(ctx, a1))
	assert.True(t, m.CanEdit(ctx, a2))
}

type failingRepository struct{}

func (failingRepository) Get(ctx context.Context, id string) (State, error) {
	return Unlocked, errors.New("backend down")
}
func (failingRepository) Set(ctx context.Context, id string, state State) error { return nil }
func (failingRepository) Clear(ctx context.Context, id string) error            { return nil }
func (failingRepository) Reset(ctx context.Context) error                       { return nil }

func TestMachineRepositoryErrorDegradesToUnlocked(t *testing.T) {
	logger := zerolog.Nop()
	m := NewMachine(failingRepository{}, &logger)
	appt := models.Appointment{ID: "a1", Status: models.StatusPending}

	assert.True(t, m.CanReschedule(context.Background(), appt))
	assert.True(t, m.CanEdit(context.Background(), appt))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unlocked", Unlocked.String())
	assert.Equal(t, "reschedule_locked", RescheduleLocked.String())
	assert.Equal(t, "edit_locked", EditLocked.String())
}
