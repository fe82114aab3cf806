package postgres

import (
	"context"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *registrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	var registration domain.Registration
	err := r.db.WithContext(ctx).
		Preload("Athlete").
		First(&registration, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]*domain.Registration, error) {
	var registrations []*domain.Registration
	err := r.db.WithContext(ctx).
		Preload("Athlete").
		Where("event_id = ?", eventID).
		Order("created_at, id").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the registration together with any lane it holds
func (r *registrationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ?", id).Delete(&domain.HeatAssignment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Registration{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
