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

const productColumns = `id, name, price, description, category, images, colours, measurements,
		materials, additional_information, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Description,
		&p.Category,
		&p.Images,
		&p.Colours,
		&p.Measurements,
		&p.Materials,
		&p.AdditionalInformation,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return r.Search(ctx, model.ProductFilter{}, limit, offset)
}

// Search retrieves one page of products matching filter, ordered by name.
func (r *productRepository) Search(ctx context.Context, filter model.ProductFilter, limit, offset int) ([]model.Product, error) {
	filter = filter.Normalize()

	var (
		conds []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(name ILIKE $%[1]d
			OR description ILIKE $%[1]d
			OR EXISTS (SELECT 1 FROM unnest(materials) m WHERE m ILIKE $%[1]d)
			OR EXISTS (SELECT 1 FROM unnest(colours) c WHERE c ILIKE $%[1]d))`, n))
	}
	if filter.Material != "" {
		args = append(args, filter.Material)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM unnest(materials) m WHERE lower(btrim(m)) = lower($%d))`, len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s
		FROM products
		%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, productColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("search", filter.Search).
			Str("material", filter.Material).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query, productArgs(p)...)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateRecord
		}
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product created successfully")
	return nil
}

// Update replaces every editable column of a product.
func (r *productRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	query := `
		UPDATE products
		SET name = $2, price = $3, description = $4, category = $5, images = $6,
			colours = $7, measurements = $8, materials = $9, additional_information = $10,
			updated_at = $11
		WHERE id = $1
		RETURNING created_at
	`

	args := productArgs(p)
	args = append(args[:10], p.UpdatedAt)
	err := r.pool.QueryRow(ctx, query, args...).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return true, nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Upsert inserts or replaces products in one batch.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			images = EXCLUDED.images,
			colours = EXCLUDED.colours,
			measurements = EXCLUDED.measurements,
			materials = EXCLUDED.materials,
			additional_information = EXCLUDED.additional_information,
			updated_at = EXCLUDED.updated_at
	`

	batch := &pgx.Batch{}
	for i := range products {
		batch.Queue(query, productArgs(&products[i])...)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("product_id", products[i].ID).Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", products[i].ID, err)
		}
	}

	r.logger.Debug().Int("count", len(products)).Msg("products upserted successfully")
	return nil
}

func productArgs(p *model.Product) []any {
	return []any{
		p.ID,
		p.Name,
		p.Price,
		p.Description,
		p.Category,
		nonNil(p.Images),
		nonNil(p.Colours),
		nonNil(p.Measurements),
		nonNil(p.Materials),
		p.AdditionalInformation,
		p.CreatedAt,
		p.UpdatedAt,
	}
}
