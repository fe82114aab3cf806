package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAthleteNotFound = errors.New("athlete not found")

type AthleteService struct {
	athleteRepo repository.AthleteRepository
}

func NewAthleteService(athleteRepo repository.AthleteRepository) *AthleteService {
	return &AthleteService{athleteRepo: athleteRepo}
}

type CreateAthleteInput struct {
	FirstName string
	LastName  string
	Club      string
	Gender    domain.Gender
	BirthDate *time.Time
}

func (s *AthleteService) Create(ctx context.Context, input CreateAthleteInput) (*domain.Athlete, error) {
	if strings.TrimSpace(input.LastName) == "" {
		return nil, ErrNameRequired
	}
	if !input.Gender.IsValid() {
		return nil, domain.ErrInvalidGender
	}

	athlete := &domain.Athlete{
		ID:        uuid.New(),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Club:      input.Club,
		Gender:    input.Gender,
		BirthDate: input.BirthDate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.athleteRepo.Create(ctx, athlete); err != nil {
		return nil, err
	}
	return athlete, nil
}

func (s *AthleteService) Get(ctx context.Context, id uuid.UUID) (*domain.Athlete, error) {
	athlete, err := s.athleteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	return athlete, nil
}

func (s *AthleteService) List(ctx context.Context, search string, limit, offset int) ([]*domain.Athlete, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.athleteRepo.List(ctx, strings.TrimSpace(search), limit, offset)
}
