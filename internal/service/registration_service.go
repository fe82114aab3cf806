package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyRegistered    = errors.New("athlete already registered for event")
	ErrInvalidStatus        = errors.New("invalid registration status")
)

type RegistrationService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	athleteRepo      repository.AthleteRepository
}

func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	athleteRepo repository.AthleteRepository,
) *RegistrationService {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		athleteRepo:      athleteRepo,
	}
}

type RegisterAthleteInput struct {
	EventID      uuid.UUID
	AthleteID    uuid.UUID
	BibNumber    string
	SeedTime     *string
	SeasonBest   *string
	PersonalBest *string
}

func (s *RegistrationService) Register(ctx context.Context, input RegisterAthleteInput) (*domain.Registration, error) {
	if _, err := s.eventRepo.GetByID(ctx, input.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	athlete, err := s.athleteRepo.GetByID(ctx, input.AthleteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}

	registration := &domain.Registration{
		ID:           uuid.New(),
		EventID:      input.EventID,
		AthleteID:    athlete.ID,
		BibNumber:    input.BibNumber,
		SeedTime:     input.SeedTime,
		SeasonBest:   input.SeasonBest,
		PersonalBest: input.PersonalBest,
		Status:       domain.RegistrationStatusRegistered,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	registration.Athlete = athlete
	return registration, nil
}

func (s *RegistrationService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Registration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.registrationRepo.GetByEventID(ctx, eventID)
}

// SetStatus confirms or withdraws an entry. Withdrawn entries are skipped by auto-assign.
func (s *RegistrationService) SetStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) (*domain.Registration, error) {
	switch status {
	case domain.RegistrationStatusRegistered, domain.RegistrationStatusConfirmed, domain.RegistrationStatusWithdrawn:
	default:
		return nil, ErrInvalidStatus
	}

	if err := s.registrationRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return s.registrationRepo.GetByID(ctx, id)
}

func (s *RegistrationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}
	return nil
}
