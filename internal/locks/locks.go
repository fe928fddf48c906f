// Package locks holds the ephemeral per-appointment action guard. The state
// is keyed by appointment id only, lives outside the persisted Appointment
// entity, and is discarded when the full data set is reloaded — it is a
// session guard-rail, not domain state.
package locks

import (
	"context"
	"errors"

	"agenda/internal/models"

	"github.com/rs/zerolog"
)

// State is the three-value lock for one appointment.
type State int

const (
	Unlocked State = iota
	// RescheduleLocked is set after a successful quick reschedule and
	// disables further quick reschedules.
	RescheduleLocked
	// EditLocked is set after a successful full edit that changed the date or
	// time, and disables further full edits.
	EditLocked
)

func (s State) String() string {
	switch s {
	case RescheduleLocked:
		return "reschedule_locked"
	case EditLocked:
		return "edit_locked"
	default:
		return "unlocked"
	}
}

// ErrLocked is returned when the requested action is currently gated.
var ErrLocked = errors.New("action is locked for this appointment")

// Repository stores lock state per appointment id.
type Repository interface {
	Get(ctx context.Context, appointmentID string) (State, error)
	Set(ctx context.Context, appointmentID string, state State) error
	Clear(ctx context.Context, appointmentID string) error
	// Reset drops all lock state; called on a full data reload.
	Reset(ctx context.Context) error
}

// Machine applies the reschedule/edit transitions. The two locked states are
// mutually exclusive: setting one always clears the other.
type Machine struct {
	repo   Repository
	logger *zerolog.Logger
}

func NewMachine(repo Repository, logger *zerolog.Logger) *Machine {
	return &Machine{repo: repo, logger: logger}
}

// NoteReschedule records a successful quick reschedule.
func (m *Machine) NoteReschedule(ctx context.Context, appointmentID string) error {
	return m.repo.Set(ctx, appointmentID, RescheduleLocked)
}

// NoteEdit records a successful full edit that changed the date or time.
func (m *Machine) NoteEdit(ctx context.Context, appointmentID string) error {
	return m.repo.Set(ctx, appointmentID, EditLocked)
}

// CanReschedule reports whether a quick reschedule is currently permitted.
// A canceled appointment is always fully locked.
func (m *Machine) CanReschedule(ctx context.Context, appt models.Appointment) bool {
	if appt.Status == models.StatusCanceled {
		return false
	}
	return m.state(ctx, appt.ID) != RescheduleLocked
}

// CanEdit reports whether a full edit is currently permitted.
func (m *Machine) CanEdit(ctx context.Context, appt models.Appointment) bool {
	if appt.Status == models.StatusCanceled {
		return false
	}
	return m.state(ctx, appt.ID) != EditLocked
}

// Reset discards all lock state.
func (m *Machine) Reset(ctx context.Context) error {
	return m.repo.Reset(ctx)
}

func (m *Machine) state(ctx context.Context, appointmentID string) State {
	state, err := m.repo.Get(ctx, appointmentID)
	if err != nil {
		// A failed lookup must not wedge the UI; treat as unlocked.
		if m.logger != nil {
			m.logger.Error().Err(err).Str("appointment_id", appointmentID).Msg("failed to get lock state")
		}
		return Unlocked
	}
	return state
}
