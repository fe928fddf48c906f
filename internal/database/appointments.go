package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agenda/internal/models"

	"github.com/google/uuid"
)

// ListAppointments returns every appointment joined with its client and
// service records where they still exist, ordered by start time.
func (d *DB) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	query := `SELECT a.id, a.client_id, a.service_id, a.start_at, a.end_at, a.status,
                     a.address, COALESCE(a.notes, ''), a.created_at, a.updated_at,
                     c.id, c.full_name, c.phone, COALESCE(c.address, ''), COALESCE(c.notes, ''),
                     s.id, s.name, s.price, s.duration_minutes, s.active, s.package_total
              FROM appointments a
              LEFT JOIN clients c ON c.id = a.client_id
              LEFT JOIN services s ON s.id = a.service_id
              ORDER BY a.start_at ASC`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		appt, err := scanJoinedAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}

func (d *DB) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	query := `SELECT id, client_id, service_id, start_at, end_at, status, address,
                     COALESCE(notes, ''), created_at, updated_at
              FROM appointments WHERE id = ?`
	row := d.db.QueryRowContext(ctx, query, id)

	var appt models.Appointment
	var startAt, endAt, createdAt, updatedAt string
	err := row.Scan(&appt.ID, &appt.ClientID, &appt.ServiceID, &startAt, &endAt,
		&appt.Status, &appt.Address, &appt.Notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if err := fillAppointmentTimes(&appt, startAt, endAt, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (d *DB) InsertAppointment(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = models.StatusPending
	}
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	query := `INSERT INTO appointments (id, client_id, service_id, start_at, end_at, status, address, notes, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		appt.ID, appt.ClientID, appt.ServiceID,
		formatTimestamp(appt.StartAt), formatTimestamp(appt.EndAt),
		appt.Status, appt.Address, appt.Notes,
		formatTimestamp(now), formatTimestamp(now))
	if err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (d *DB) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	now := time.Now()
	query := `UPDATE appointments SET client_id = ?, service_id = ?, start_at = ?, end_at = ?,
                     status = ?, address = ?, notes = ?, updated_at = ?
              WHERE id = ?`
	result, err := d.db.ExecContext(ctx, query,
		appt.ClientID, appt.ServiceID,
		formatTimestamp(appt.StartAt), formatTimestamp(appt.EndAt),
		appt.Status, appt.Address, appt.Notes,
		formatTimestamp(now), appt.ID)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	appt.UpdatedAt = now
	return nil
}

// UpdateAppointmentTime moves an appointment without touching any other field.
func (d *DB) UpdateAppointmentTime(ctx context.Context, id string, startAt, endAt time.Time) error {
	now := time.Now()
	result, err := d.db.ExecContext(ctx,
		`UPDATE appointments SET start_at = ?, end_at = ?, updated_at = ? WHERE id = ?`,
		formatTimestamp(startAt), formatTimestamp(endAt), formatTimestamp(now), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment time: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) UpdateAppointmentStatus(ctx context.Context, id string, status string) error {
	now := time.Now()
	result, err := d.db.ExecContext(ctx,
		`UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`,
		status, formatTimestamp(now), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteAppointment(ctx context.Context, id string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJoinedAppointment(rows *sql.Rows) (models.Appointment, error) {
	var appt models.Appointment
	var startAt, endAt, createdAt, updatedAt string
	var clientID, clientName, clientPhone, clientAddress, clientNotes sql.NullString
	var serviceID, serviceName sql.NullString
	var servicePrice sql.NullFloat64
	var serviceDuration, servicePackage sql.NullInt64
	var serviceActive sql.NullBool

	err := rows.Scan(&appt.ID, &appt.ClientID, &appt.ServiceID, &startAt, &endAt,
		&appt.Status, &appt.Address, &appt.Notes, &createdAt, &updatedAt,
		&clientID, &clientName, &clientPhone, &clientAddress, &clientNotes,
		&serviceID, &serviceName, &servicePrice, &serviceDuration, &serviceActive, &servicePackage)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("failed to scan appointment: %w", err)
	}

	if err := fillAppointmentTimes(&appt, startAt, endAt, createdAt, updatedAt); err != nil {
		return models.Appointment{}, err
	}

	if clientID.Valid {
		appt.Client = &models.Client{
			ID:       clientID.String,
			FullName: clientName.String,
			Phone:    clientPhone.String,
			Address:  clientAddress.String,
			Notes:    clientNotes.String,
		}
	}
	if serviceID.Valid {
		appt.Service = &models.Service{
			ID:              serviceID.String,
			Name:            serviceName.String,
			Price:           servicePrice.Float64,
			DurationMinutes: int(serviceDuration.Int64),
			Active:          serviceActive.Bool,
			PackageTotal:    int(servicePackage.Int64),
		}
	}
	return appt, nil
}

func fillAppointmentTimes(appt *models.Appointment, startAt, endAt, createdAt, updatedAt string) error {
	var err error
	if appt.StartAt, err = parseTimestamp(startAt); err != nil {
		return err
	}
	if appt.EndAt, err = parseTimestamp(endAt); err != nil {
		return err
	}
	if appt.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return err
	}
	if appt.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return err
	}
	return nil
}
