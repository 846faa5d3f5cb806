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

type contactService struct {
	repo   repository.ContactRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewContactService creates a contact service.
func NewContactService(repo repository.ContactRepository, logger zerolog.Logger) ContactService {
	return &contactService{
		repo:   repo,
		logger: logger.With().Str("service", "contact").Logger(),
		now:    time.Now,
	}
}

func (s *contactService) GetAll(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get contacts")
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	return contacts, nil
}

func (s *contactService) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, model.ErrContactNotFound
	}
	return contact, nil
}

func (s *contactService) Create(ctx context.Context, in *model.ContactInput) (*model.Contact, error) {
	contact, err := contactFromInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Info().Str("contact_id", contact.ID).Str("status", string(contact.Status)).Msg("contact created")
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, id string, in *model.ContactInput) (*model.Contact, error) {
	contact, err := contactFromInput(in)
	if err != nil {
		return nil, err
	}
	contact.ID = id
	contact.UpdatedAt = s.now().UTC()

	found, err := s.repo.Update(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	if !found {
		return nil, model.ErrContactNotFound
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !found {
		return model.ErrContactNotFound
	}
	return nil
}

// contactFromInput validates in and applies the default status.
func contactFromInput(in *model.ContactInput) (*model.Contact, error) {
	if in == nil || strings.TrimSpace(in.Name) == "" {
		return nil, model.ErrMissingName
	}
	status := in.Status
	if status == "" {
		status = model.ContactLead
	}
	if !status.Valid() {
		return nil, model.ErrInvalidContactStatus
	}
	return &model.Contact{
		ID:      strings.TrimSpace(in.ID),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Company: in.Company,
		Status:  status,
	}, nil
}
