package models

import "time"

type Appointment struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	ServiceID string    `json:"service_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Status    string    `json:"status"` // pending, confirmed, completed, canceled
	Address   string    `json:"address"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined records, populated on list reads when the referenced rows exist.
	Client  *Client  `json:"client,omitempty"`
	Service *Service `json:"service,omitempty"`
}

// DurationMinutes resolves the appointment's service duration against the
// catalog, falling back to the default when the service is unknown.
func (a *Appointment) DurationMinutes(services map[string]Service) int {
	if a.Service != nil && a.Service.DurationMinutes > 0 {
		return a.Service.DurationMinutes
	}
	if svc, ok := services[a.ServiceID]; ok && svc.DurationMinutes > 0 {
		return svc.DurationMinutes
	}
	return DefaultDurationMinutes
}

// AppointmentInput carries the fields accepted on create and full edit.
type AppointmentInput struct {
	ClientID  string `json:"client_id"`
	ServiceID string `json:"service_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	Status    string `json:"status"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}
