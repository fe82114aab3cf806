package postgres

import (
	"context"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Preload("Competition").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByCompetitionID(ctx context.Context, competitionID uuid.UUID) ([]*domain.Event, error) {
	var events []*domain.Event
	err := r.db.WithContext(ctx).
		Where("competition_id = ?", competitionID).
		Order("scheduled_at ASC NULLS LAST, name").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) GetWithParticipants(ctx context.Context, eventID uuid.UUID) (*domain.Event, []*domain.Registration, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Preload("Competition").
		First(&event, "id = ?", eventID).Error
	if err != nil {
		return nil, nil, err
	}

	var registrations []*domain.Registration
	err = r.db.WithContext(ctx).
		Preload("Athlete").
		Where("event_id = ? AND status <> ?", eventID, domain.RegistrationStatusWithdrawn).
		Order("created_at, id").
		Find(&registrations).Error
	if err != nil {
		return nil, nil, err
	}

	return &event, registrations, nil
}
