package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// ValidStatus reports whether s is one of the appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

const (
	// WorkStartMinutes и WorkEndMinutes bound the daily work window [08:00, 20:00).
	WorkStartMinutes = 8 * 60
	WorkEndMinutes   = 20 * 60

	// SlotMinutes is the booking grid granularity.
	SlotMinutes = 30

	// DefaultDurationMinutes is assumed when an appointment references an
	// unknown service.
	DefaultDurationMinutes = 60
)

const (
	// DefaultLockTTL время жизни ephemeral lock state in Redis (seconds).
	DefaultLockTTL = 24 * 60 * 60

	// WorkerQueueSize размер очереди воркера синхронизации.
	WorkerQueueSize = 256

	// DefaultBillingRangeDays default lookback for the billing summary.
	DefaultBillingRangeDays = 30
)
