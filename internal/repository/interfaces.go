package repository

import (
	"context"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type CompetitionRepository interface {
	Create(ctx context.Context, competition *domain.Competition) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Competition, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Competition, error)
}

type AthleteRepository interface {
	Create(ctx context.Context, athlete *domain.Athlete) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Athlete, error)
	List(ctx context.Context, search string, limit, offset int) ([]*domain.Athlete, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetByCompetitionID(ctx context.Context, competitionID uuid.UUID) ([]*domain.Event, error)
	// GetWithParticipants loads the event and its non-withdrawn registrations
	// in registration order
	GetWithParticipants(ctx context.Context, eventID uuid.UUID) (*domain.Event, []*domain.Registration, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]*domain.Registration, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type HeatRepository interface {
	Create(ctx context.Context, heat *domain.Heat) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Heat, error)
	GetByEventAndRound(ctx context.Context, eventID uuid.UUID, round domain.Round) ([]*domain.Heat, error)
	Update(ctx context.Context, heat *domain.Heat) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRound(ctx context.Context, eventID uuid.UUID, round domain.Round) error
	// ReplaceRound deletes the round's heats and creates heats in one transaction
	ReplaceRound(ctx context.Context, eventID uuid.UUID, round domain.Round, heats []*domain.Heat) error
	GetAssignment(ctx context.Context, id uuid.UUID) (*domain.HeatAssignment, error)
	SetPresence(ctx context.Context, assignmentID uuid.UUID, present bool) error
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Competition  CompetitionRepository
	Athlete      AthleteRepository
	Event        EventRepository
	Registration RegistrationRepository
	Heat         HeatRepository
}
