package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/getmelinks/getmelinks/internal/database"
	"github.com/getmelinks/getmelinks/internal/model"
)

// listLimit caps List results. There is no pagination cursor.
const listLimit = 50

// ContactRepository handles contact data persistence
type ContactRepository struct {
	db *database.Postgres
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *database.Postgres) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact. It assigns the ID, timestamps and the
// default status, mutating the passed contact to reflect the stored row.
func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) error {
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Status == "" {
		c.Status = model.StatusNew
	}

	query := `
		INSERT INTO contacts (id, name, email, phone, company, service, budget, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Service,
		c.Budget,
		c.Message,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// List retrieves the most recent contacts, newest first, capped at 50
func (r *ContactRepository) List(ctx context.Context) ([]model.Contact, error) {
	query := `
		SELECT id, name, email, phone, company, service, budget, message, status, created_at, updated_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]model.Contact, 0, listLimit)
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows.Scan, &c); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}
	return contacts, nil
}

// GetByID retrieves a contact by ID. A malformed ID is reported as
// ErrNotFound, never as a distinct error class.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `
		SELECT id, name, email, phone, company, service, budget, message, status, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`
	var c model.Contact
	err := scanContact(r.db.QueryRowContext(ctx, query, id).Scan, &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &c, nil
}

// UpdateStatus sets the status of a contact and refreshes updated_at,
// returning the updated row. The status is validated against the closed set
// before the write.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) (*model.Contact, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := `
		UPDATE contacts
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, name, email, phone, company, service, budget, message, status, created_at, updated_at
	`
	var c model.Contact
	err := scanContact(r.db.QueryRowContext(ctx, query, status, time.Now().UTC(), id).Scan, &c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update contact status: %w", err)
	}
	return &c, nil
}

// Ping verifies the backing store is reachable
func (r *ContactRepository) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

func scanContact(scan func(dest ...interface{}) error, c *model.Contact) error {
	return scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Service,
		&c.Budget,
		&c.Message,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}
