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

var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrInvalidDateRange    = errors.New("end date is before start date")
	ErrNameRequired        = errors.New("name is required")
)

type CompetitionService struct {
	competitionRepo repository.CompetitionRepository
	eventRepo       repository.EventRepository
}

func NewCompetitionService(competitionRepo repository.CompetitionRepository, eventRepo repository.EventRepository) *CompetitionService {
	return &CompetitionService{
		competitionRepo: competitionRepo,
		eventRepo:       eventRepo,
	}
}

type CreateCompetitionInput struct {
	Name      string
	Venue     string
	StartDate time.Time
	EndDate   time.Time
	Indoor    bool
	CreatedBy uuid.UUID
}

type CreateEventInput struct {
	CompetitionID uuid.UUID
	Name          string
	Discipline    string
	Kind          domain.EventKind
	Gender        domain.Gender
	LaneCount     int
	ScheduledAt   *time.Time
}

func (s *CompetitionService) CreateCompetition(ctx context.Context, input CreateCompetitionInput) (*domain.Competition, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.EndDate.IsZero() {
		input.EndDate = input.StartDate
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidDateRange
	}

	competition := &domain.Competition{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Venue:     input.Venue,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Indoor:    input.Indoor,
		CreatedBy: input.CreatedBy,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.competitionRepo.Create(ctx, competition); err != nil {
		return nil, err
	}
	return competition, nil
}

func (s *CompetitionService) GetCompetition(ctx context.Context, id uuid.UUID) (*domain.Competition, error) {
	competition, err := s.competitionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return competition, nil
}

func (s *CompetitionService) ListCompetitions(ctx context.Context, limit, offset int) ([]*domain.Competition, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.competitionRepo.List(ctx, limit, offset)
}

// CreateEvent adds an event to a competition. Indoor competitions default
// to six lanes, everything else to eight.
func (s *CompetitionService) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.Kind == "" {
		input.Kind = domain.EventKindTrack
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidEventKind
	}
	if !input.Gender.IsValid() {
		return nil, domain.ErrInvalidGender
	}
	if input.LaneCount < 0 {
		return nil, domain.ErrInvalidLaneCount
	}

	competition, err := s.GetCompetition(ctx, input.CompetitionID)
	if err != nil {
		return nil, err
	}

	laneCount := input.LaneCount
	if laneCount == 0 {
		laneCount = domain.DefaultLaneCount
		if competition.Indoor {
			laneCount = 6
		}
	}

	event := &domain.Event{
		ID:            uuid.New(),
		CompetitionID: competition.ID,
		Name:          strings.TrimSpace(input.Name),
		Discipline:    input.Discipline,
		Kind:          input.Kind,
		Gender:        input.Gender,
		LaneCount:     laneCount,
		ScheduledAt:   input.ScheduledAt,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *CompetitionService) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *CompetitionService) ListEvents(ctx context.Context, competitionID uuid.UUID) ([]*domain.Event, error) {
	if _, err := s.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByCompetitionID(ctx, competitionID)
}
