package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// appointmentRepo implements the appointment repository on SQLite
type appointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo creates a SQLite-backed appointment repository
func NewAppointmentRepo(dbPath string) (repo.AppointmentRepo, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			listing_id TEXT NOT NULL,
			buyer_id TEXT NOT NULL,
			start_iso TEXT NOT NULL,
			end_iso TEXT NOT NULL,
			spot TEXT NOT NULL,
			status TEXT NOT NULL,
			event_id TEXT NOT NULL DEFAULT '',
			html_link TEXT NOT NULL DEFAULT '',
			ics_path TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_appointments_listing ON appointments(listing_id)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &appointmentRepo{db: db}, nil
}

// Save stores an appointment (create or update)
func (r *appointmentRepo) Save(ctx context.Context, a *domain.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO appointments (id, listing_id, buyer_id, start_iso, end_iso, spot, status, event_id, html_link, ics_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.ListingID, a.BuyerID, a.StartIso, a.EndIso, a.Spot, string(a.Status), a.EventID, a.HTMLLink, a.IcsPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	return nil
}

// Get returns an appointment by ID, or nil if absent
func (r *appointmentRepo) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, listing_id, buyer_id, start_iso, end_iso, spot, status, event_id, html_link, ics_path
		FROM appointments
		WHERE id = ?
	`, id)

	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query appointment: %w", err)
	}
	return a, nil
}

// List returns all appointments, oldest start first
func (r *appointmentRepo) List(ctx context.Context) ([]*domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, listing_id, buyer_id, start_iso, end_iso, spot, status, event_id, html_link, ics_path
		FROM appointments
		ORDER BY start_iso
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var result []*domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// UpdateStatus applies a status transition through the domain rules
func (r *appointmentRepo) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	a, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}

	if err := a.TransitionTo(status); err != nil {
		return nil, err
	}

	if err := r.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Close closes the database
func (r *appointmentRepo) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var status string
	err := row.Scan(&a.ID, &a.ListingID, &a.BuyerID, &a.StartIso, &a.EndIso, &a.Spot, &status, &a.EventID, &a.HTMLLink, &a.IcsPath)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AppointmentStatus(status)
	return &a, nil
}
