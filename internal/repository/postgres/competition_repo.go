package postgres

import (
	"context"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type competitionRepository struct {
	db *gorm.DB
}

func NewCompetitionRepository(db *gorm.DB) *competitionRepository {
	return &competitionRepository{db: db}
}

func (r *competitionRepository) Create(ctx context.Context, competition *domain.Competition) error {
	return r.db.WithContext(ctx).Create(competition).Error
}

func (r *competitionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Competition, error) {
	var competition domain.Competition
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_at ASC NULLS LAST, name")
		}).
		First(&competition, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

func (r *competitionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Competition, error) {
	var competitions []*domain.Competition
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&competitions).Error
	if err != nil {
		return nil, err
	}
	return competitions, nil
}
