package seed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"krubolab/internal/model"
	"krubolab/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result counts what a seeding run wrote.
type Result struct {
	Products int
	Services int
	Contacts int
	Skipped  int
}

// Seeder loads seed documents and upserts them through the repositories.
type Seeder struct {
	loader    Loader
	products  repository.ProductRepository
	offerings repository.OfferingRepository
	contacts  repository.ContactRepository
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewSeeder creates a seeder.
func NewSeeder(
	loader Loader,
	products repository.ProductRepository,
	offerings repository.OfferingRepository,
	contacts repository.ContactRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		loader:    loader,
		products:  products,
		offerings: offerings,
		contacts:  contacts,
		logger:    logger.With().Str("component", "seeder").Logger(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Run loads every named document concurrently, then writes them in the
// order given. Any load or decode failure aborts the run before writing.
func (s *Seeder) Run(ctx context.Context, names []string) (*Result, error) {
	s.logger.Info().Int("file_count", len(names)).Msg("seeding catalogue")

	kinds := make([]Kind, len(names))
	for i, name := range names {
		kind, err := KindOf(name)
		if err != nil {
			return nil, err
		}
		kinds[i] = kind
	}

	type loadResult struct {
		index int
		data  []byte
		err   error
	}

	resultChan := make(chan loadResult, len(names))
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(index int, name string) {
			defer wg.Done()

			data, err := s.loader.Load(ctx, name)
			resultChan <- loadResult{index: index, data: data, err: err}
		}(i, name)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in order
	results := make([]loadResult, len(names))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			s.logger.Error().Err(result.err).Str("file", names[i]).Msg("failed to load seed file")
			return nil, fmt.Errorf("failed to load seed file %s: %w", names[i], result.err)
		}
	}

	res := &Result{}
	for i, result := range results {
		if err := s.apply(ctx, kinds[i], names[i], result.data, res); err != nil {
			return res, err
		}
	}

	s.logger.Info().
		Int("products", res.Products).
		Int("services", res.Services).
		Int("contacts", res.Contacts).
		Int("skipped", res.Skipped).
		Msg("catalogue seeded successfully")

	return res, nil
}

func (s *Seeder) apply(ctx context.Context, kind Kind, name string, data []byte, res *Result) error {
	now := s.now().UTC()

	switch kind {
	case KindProducts:
		decoded, err := DecodeProducts(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		products := make([]model.Product, 0, len(decoded))
		for _, p := range decoded {
			if p.Name == "" || p.Price < 0 {
				s.logger.Warn().Str("file", name).Str("product_id", p.ID).Msg("skipping invalid product")
				res.Skipped++
				continue
			}
			if p.ID == "" {
				p.ID = s.newID()
			}
			p.CreatedAt, p.UpdatedAt = now, now
			products = append(products, p)
		}
		if err := s.products.Upsert(ctx, products); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		res.Products += len(products)

	case KindServices:
		decoded, err := DecodeServices(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		offerings := make([]model.ServiceOffering, 0, len(decoded))
		for _, o := range decoded {
			if o.Name == "" || o.Price < 0 {
				s.logger.Warn().Str("file", name).Str("service_id", o.ID).Msg("skipping invalid service")
				res.Skipped++
				continue
			}
			if o.ID == "" {
				o.ID = s.newID()
			}
			o.CreatedAt, o.UpdatedAt = now, now
			offerings = append(offerings, o)
		}
		if err := s.offerings.Upsert(ctx, offerings); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		res.Services += len(offerings)

	case KindContacts:
		decoded, err := DecodeContacts(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		contacts := make([]model.Contact, 0, len(decoded))
		for _, c := range decoded {
			if c.Status == "" {
				c.Status = model.ContactLead
			}
			if c.Name == "" || !c.Status.Valid() {
				s.logger.Warn().Str("file", name).Str("contact_id", c.ID).Msg("skipping invalid contact")
				res.Skipped++
				continue
			}
			if c.ID == "" {
				c.ID = s.newID()
			}
			c.CreatedAt, c.UpdatedAt = now, now
			contacts = append(contacts, c)
		}
		if err := s.contacts.Upsert(ctx, contacts); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		res.Contacts += len(contacts)
	}

	s.logger.Info().Str("file", name).Str("kind", string(kind)).Msg("seed file applied")
	return nil
}
