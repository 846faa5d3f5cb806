package repository

import (
	"context"
	"errors"
	"fmt"

	"krubolab/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const contactColumns = `id, name, email, phone, company, status, created_at, updated_at`

type contactRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewContactRepository creates a PostgreSQL-backed contact repository.
func NewContactRepository(pool *pgxpool.Pool, logger zerolog.Logger) ContactRepository {
	return &contactRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "contact").Logger(),
	}
}

func scanContact(row pgx.Row, c *model.Contact) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

func contactArgs(c *model.Contact) []any {
	return []any{c.ID, c.Name, c.Email, c.Phone, c.Company, c.Status, c.CreatedAt, c.UpdatedAt}
}

func (r *contactRepository) GetAll(ctx context.Context) ([]model.Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query contacts")
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan contact row")
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	var c model.Contact
	err := scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("contact_id", id).Msg("failed to query contact")
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}
	return &c, nil
}

func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	query := `INSERT INTO contacts (` + contactColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query, contactArgs(c)...); err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateRecord
		}
		r.logger.Error().Err(err).Str("contact_id", c.ID).Msg("failed to create contact")
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *contactRepository) Update(ctx context.Context, c *model.Contact) (bool, error) {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, company = $5, status = $6, updated_at = $7
		WHERE id = $1
		RETURNING created_at
	`

	args := []any{c.ID, c.Name, c.Email, c.Phone, c.Company, c.Status, c.UpdatedAt}
	err := r.pool.QueryRow(ctx, query, args...).Scan(&c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Str("contact_id", c.ID).Msg("failed to update contact")
		return false, fmt.Errorf("failed to update contact: %w", err)
	}
	return true, nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("contact_id", id).Msg("failed to delete contact")
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *contactRepository) Upsert(ctx context.Context, contacts []model.Contact) error {
	if len(contacts) == 0 {
		return nil
	}

	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			company = EXCLUDED.company,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for i := range contacts {
		batch.Queue(query, contactArgs(&contacts[i])...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range contacts {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert contact %s: %w", contacts[i].ID, err)
		}
	}

	r.logger.Debug().Int("count", len(contacts)).Msg("contacts upserted successfully")
	return nil
}
