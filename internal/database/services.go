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

func (d *DB) ListServices(ctx context.Context) ([]models.Service, error) {
	query := `SELECT id, name, price, duration_minutes, active, package_total, created_at, updated_at
              FROM services ORDER BY name COLLATE NOCASE ASC`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (d *DB) GetService(ctx context.Context, id string) (*models.Service, error) {
	query := `SELECT id, name, price, duration_minutes, active, package_total, created_at, updated_at
              FROM services WHERE id = ?`
	row := d.db.QueryRowContext(ctx, query, id)
	svc, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (d *DB) InsertService(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	now := time.Now()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	query := `INSERT INTO services (id, name, price, duration_minutes, active, package_total, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		svc.ID, svc.Name, svc.Price, svc.DurationMinutes, svc.Active, svc.PackageTotal,
		formatTimestamp(now), formatTimestamp(now))
	if err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}
	return nil
}

func (d *DB) UpdateService(ctx context.Context, svc *models.Service) error {
	now := time.Now()
	query := `UPDATE services SET name = ?, price = ?, duration_minutes = ?, active = ?, package_total = ?, updated_at = ?
              WHERE id = ?`
	result, err := d.db.ExecContext(ctx, query,
		svc.Name, svc.Price, svc.DurationMinutes, svc.Active, svc.PackageTotal,
		formatTimestamp(now), svc.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	svc.UpdatedAt = now
	return nil
}

// SetServiceActive toggles a service in or out of the bookable catalog.
func (d *DB) SetServiceActive(ctx context.Context, id string, active bool) error {
	now := time.Now()
	result, err := d.db.ExecContext(ctx,
		`UPDATE services SET active = ?, updated_at = ? WHERE id = ?`,
		active, formatTimestamp(now), id)
	if err != nil {
		return fmt.Errorf("failed to set service active: %w", err)
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

func scanService(row rowScanner) (models.Service, error) {
	var svc models.Service
	var createdAt, updatedAt string
	err := row.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.DurationMinutes, &svc.Active, &svc.PackageTotal, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Service{}, err
		}
		return models.Service{}, fmt.Errorf("failed to scan service: %w", err)
	}
	if svc.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Service{}, err
	}
	if svc.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Service{}, err
	}
	return svc, nil
}
