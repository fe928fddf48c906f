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

func (d *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	query := `SELECT id, full_name, phone, COALESCE(address, ''), COALESCE(notes, ''), created_at, updated_at
              FROM clients ORDER BY full_name COLLATE NOCASE ASC`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (d *DB) GetClient(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT id, full_name, phone, COALESCE(address, ''), COALESCE(notes, ''), created_at, updated_at
              FROM clients WHERE id = ?`
	row := d.db.QueryRowContext(ctx, query, id)
	client, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (d *DB) InsertClient(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `INSERT INTO clients (id, full_name, phone, address, notes, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := d.db.ExecContext(ctx, query,
		client.ID, client.FullName, client.Phone, client.Address, client.Notes,
		formatTimestamp(now), formatTimestamp(now))
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (d *DB) UpdateClient(ctx context.Context, client *models.Client) error {
	now := time.Now()
	query := `UPDATE clients SET full_name = ?, phone = ?, address = ?, notes = ?, updated_at = ? WHERE id = ?`
	result, err := d.db.ExecContext(ctx, query,
		client.FullName, client.Phone, client.Address, client.Notes,
		formatTimestamp(now), client.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	client.UpdatedAt = now
	return nil
}

// DeleteClient refuses to remove a client that still has appointments,
// surfacing the referential case as a distinct error.
func (d *DB) DeleteClient(ctx context.Context, id string) error {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE client_id = ?`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count client appointments: %w", err)
	}
	if count > 0 {
		return ErrClientHasAppointments
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (models.Client, error) {
	var client models.Client
	var createdAt, updatedAt string
	err := row.Scan(&client.ID, &client.FullName, &client.Phone, &client.Address, &client.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Client{}, err
		}
		return models.Client{}, fmt.Errorf("failed to scan client: %w", err)
	}
	if client.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return models.Client{}, err
	}
	if client.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return models.Client{}, err
	}
	return client, nil
}
