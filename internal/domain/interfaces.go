package domain

import (
	"context"
	"time"

	"agenda/internal/models"
)

// Store is the external data-access collaborator. Appointments come back
// joined with their client and service records where available. Every
// successful mutation is followed by a full re-read before any derived view
// is treated as authoritative.
type Store interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	ListAppointments(ctx context.Context) ([]models.Appointment, error)

	GetClient(ctx context.Context, id string) (*models.Client, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)

	InsertClient(ctx context.Context, client *models.Client) error
	InsertService(ctx context.Context, svc *models.Service) error
	InsertAppointment(ctx context.Context, appt *models.Appointment) error

	UpdateClient(ctx context.Context, client *models.Client) error
	UpdateService(ctx context.Context, svc *models.Service) error
	UpdateAppointment(ctx context.Context, appt *models.Appointment) error
	UpdateAppointmentTime(ctx context.Context, id string, startAt, endAt time.Time) error
	UpdateAppointmentStatus(ctx context.Context, id string, status string) error
	SetServiceActive(ctx context.Context, id string, active bool) error

	DeleteClient(ctx context.Context, id string) error
	DeleteAppointment(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsWriter mirrors the agenda into an external spreadsheet.
type SheetsWriter interface {
	ReplaceAgendaSheet(ctx context.Context, rows [][]interface{}) error
}

// SyncWorker schedules an asynchronous agenda mirror refresh.
type SyncWorker interface {
	EnqueueSync(ctx context.Context) error
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}
