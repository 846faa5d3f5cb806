package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"krubolab/internal/model"
	"krubolab/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type offeringService struct {
	repo   repository.OfferingRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewOfferingService creates a service offering service.
func NewOfferingService(repo repository.OfferingRepository, logger zerolog.Logger) OfferingService {
	return &offeringService{
		repo:   repo,
		logger: logger.With().Str("service", "offering").Logger(),
		now:    time.Now,
	}
}

func (s *offeringService) GetAll(ctx context.Context) ([]model.ServiceOffering, error) {
	offerings, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get services")
		return nil, fmt.Errorf("failed to get services: %w", err)
	}
	return offerings, nil
}

func (s *offeringService) Search(ctx context.Context, query string) ([]model.ServiceOffering, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.GetAll(ctx)
	}
	offerings, err := s.repo.Search(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("search", query).Msg("failed to search services")
		return nil, fmt.Errorf("failed to search services: %w", err)
	}
	return offerings, nil
}

func (s *offeringService) GetByID(ctx context.Context, id string) (*model.ServiceOffering, error) {
	offering, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if offering == nil {
		return nil, model.ErrOfferingNotFound
	}
	return offering, nil
}

func (s *offeringService) Create(ctx context.Context, in *model.OfferingInput) (*model.ServiceOffering, error) {
	if err := validateOffering(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	offering := offeringFromInput(in)
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	offering.CreatedAt = now
	offering.UpdatedAt = now

	if err := s.repo.Create(ctx, offering); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.logger.Info().Str("service_id", offering.ID).Msg("service created")
	return offering, nil
}

func (s *offeringService) Update(ctx context.Context, id string, in *model.OfferingInput) (*model.ServiceOffering, error) {
	if err := validateOffering(in); err != nil {
		return nil, err
	}

	offering := offeringFromInput(in)
	offering.ID = id
	offering.UpdatedAt = s.now().UTC()

	found, err := s.repo.Update(ctx, offering)
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	if !found {
		return nil, model.ErrOfferingNotFound
	}
	return offering, nil
}

func (s *offeringService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if !found {
		return model.ErrOfferingNotFound
	}
	return nil
}

func validateOffering(in *model.OfferingInput) error {
	if in == nil || strings.TrimSpace(in.Name) == "" {
		return model.ErrMissingName
	}
	if in.Price < 0 {
		return model.ErrInvalidPrice
	}
	return nil
}

func offeringFromInput(in *model.OfferingInput) *model.ServiceOffering {
	return &model.ServiceOffering{
		ID:          strings.TrimSpace(in.ID),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Category:    in.Category,
	}
}
