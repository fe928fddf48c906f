package locks

import (
	"context"
	"sync"
)

// MemoryRepository keeps lock state in process memory. State naturally dies
// with the session, matching the ephemeral contract.
type MemoryRepository struct {
	states sync.Map
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Get(ctx context.Context, appointmentID string) (State, error) {
	val, ok := r.states.Load(appointmentID)
	if !ok {
		return Unlocked, nil
	}
	return val.(State), nil
}

func (r *MemoryRepository) Set(ctx context.Context, appointmentID string, state State) error {
	r.states.Store(appointmentID, state)
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context, appointmentID string) error {
	r.states.Delete(appointmentID)
	return nil
}

func (r *MemoryRepository) Reset(ctx context.Context) error {
	r.states.Range(func(key, _ any) bool {
		r.states.Delete(key)
		return true
	})
	return nil
}
