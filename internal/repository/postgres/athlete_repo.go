package postgres

import (
	"context"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type athleteRepository struct {
	db *gorm.DB
}

func NewAthleteRepository(db *gorm.DB) *athleteRepository {
	return &athleteRepository{db: db}
}

func (r *athleteRepository) Create(ctx context.Context, athlete *domain.Athlete) error {
	return r.db.WithContext(ctx).Create(athlete).Error
}

func (r *athleteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Athlete, error) {
	var athlete domain.Athlete
	err := r.db.WithContext(ctx).First(&athlete, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &athlete, nil
}

// List returns athletes ordered by name. search matches the start of either name.
func (r *athleteRepository) List(ctx context.Context, search string, limit, offset int) ([]*domain.Athlete, error) {
	var athletes []*domain.Athlete
	query := r.db.WithContext(ctx)
	if search != "" {
		pattern := search + "%"
		query = query.Where("last_name ILIKE ? OR first_name ILIKE ?", pattern, pattern)
	}
	err := query.
		Order("last_name, first_name").
		Limit(limit).
		Offset(offset).
		Find(&athletes).Error
	if err != nil {
		return nil, err
	}
	return athletes, nil
}
