package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"krubolab/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const offeringColumns = `id, name, description, price, duration, category, created_at, updated_at`

type offeringRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferingRepository creates a PostgreSQL-backed service offering repository.
func NewOfferingRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferingRepository {
	return &offeringRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offering").Logger(),
	}
}

func scanOffering(row pgx.Row, o *model.ServiceOffering) error {
	return row.Scan(&o.ID, &o.Name, &o.Description, &o.Price, &o.Duration, &o.Category, &o.CreatedAt, &o.UpdatedAt)
}

func offeringArgs(o *model.ServiceOffering) []any {
	return []any{o.ID, o.Name, o.Description, o.Price, o.Duration, o.Category, o.CreatedAt, o.UpdatedAt}
}

func (r *offeringRepository) GetAll(ctx context.Context) ([]model.ServiceOffering, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+offeringColumns+` FROM services ORDER BY category, name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query services")
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	offerings := []model.ServiceOffering{}
	for rows.Next() {
		var o model.ServiceOffering
		if err := scanOffering(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan service row")
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		offerings = append(offerings, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return offerings, nil
}

func (r *offeringRepository) Search(ctx context.Context, query string) ([]model.ServiceOffering, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.GetAll(ctx)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+offeringColumns+` FROM services
		WHERE name ILIKE $1 OR category ILIKE $1 OR duration ILIKE $1
		ORDER BY category, name`, "%"+escapeLike(query)+"%")
	if err != nil {
		r.logger.Error().Err(err).Str("search", query).Msg("failed to search services")
		return nil, fmt.Errorf("failed to search services: %w", err)
	}
	defer rows.Close()

	offerings := []model.ServiceOffering{}
	for rows.Next() {
		var o model.ServiceOffering
		if err := scanOffering(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		offerings = append(offerings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}
	return offerings, nil
}

func (r *offeringRepository) GetByID(ctx context.Context, id string) (*model.ServiceOffering, error) {
	var o model.ServiceOffering
	err := scanOffering(r.pool.QueryRow(ctx, `SELECT `+offeringColumns+` FROM services WHERE id = $1`, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("service_id", id).Msg("failed to query service")
		return nil, fmt.Errorf("failed to query service: %w", err)
	}
	return &o, nil
}

func (r *offeringRepository) Create(ctx context.Context, o *model.ServiceOffering) error {
	query := `INSERT INTO services (` + offeringColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query, offeringArgs(o)...); err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateRecord
		}
		r.logger.Error().Err(err).Str("service_id", o.ID).Msg("failed to create service")
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *offeringRepository) Update(ctx context.Context, o *model.ServiceOffering) (bool, error) {
	query := `
		UPDATE services
		SET name = $2, description = $3, price = $4, duration = $5, category = $6, updated_at = $7
		WHERE id = $1
		RETURNING created_at
	`

	args := []any{o.ID, o.Name, o.Description, o.Price, o.Duration, o.Category, o.UpdatedAt}
	err := r.pool.QueryRow(ctx, query, args...).Scan(&o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Str("service_id", o.ID).Msg("failed to update service")
		return false, fmt.Errorf("failed to update service: %w", err)
	}
	return true, nil
}

func (r *offeringRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("service_id", id).Msg("failed to delete service")
		return false, fmt.Errorf("failed to delete service: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *offeringRepository) Upsert(ctx context.Context, offerings []model.ServiceOffering) error {
	if len(offerings) == 0 {
		return nil
	}

	query := `
		INSERT INTO services (` + offeringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			duration = EXCLUDED.duration,
			category = EXCLUDED.category,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for i := range offerings {
		batch.Queue(query, offeringArgs(&offerings[i])...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range offerings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert service %s: %w", offerings[i].ID, err)
		}
	}

	r.logger.Debug().Int("count", len(offerings)).Msg("services upserted successfully")
	return nil
}
