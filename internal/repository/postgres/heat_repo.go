package postgres

import (
	"context"

	"github.com/dom/trackmeet/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type heatRepository struct {
	db *gorm.DB
}

func NewHeatRepository(db *gorm.DB) *heatRepository {
	return &heatRepository{db: db}
}

// withAssignments preloads assignments in lane order with their athletes
func withAssignments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("lane")
		}).
		Preload("Assignments.Registration").
		Preload("Assignments.Registration.Athlete")
}

func (r *heatRepository) Create(ctx context.Context, heat *domain.Heat) error {
	return r.db.WithContext(ctx).Create(heat).Error
}

func (r *heatRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Heat, error) {
	var heat domain.Heat
	err := withAssignments(r.db.WithContext(ctx)).First(&heat, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &heat, nil
}

func (r *heatRepository) GetByEventAndRound(ctx context.Context, eventID uuid.UUID, round domain.Round) ([]*domain.Heat, error) {
	var heats []*domain.Heat
	err := withAssignments(r.db.WithContext(ctx)).
		Where("event_id = ? AND round = ?", eventID, round).
		Order("heat_number").
		Find(&heats).Error
	if err != nil {
		return nil, err
	}
	return heats, nil
}

// Update saves the heat's own columns. Assignments are left untouched.
func (r *heatRepository) Update(ctx context.Context, heat *domain.Heat) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(heat).Error
}

func (r *heatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("heat_id = ?", id).Delete(&domain.HeatAssignment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Heat{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *heatRepository) DeleteByRound(ctx context.Context, eventID uuid.UUID, round domain.Round) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteRound(tx, eventID, round)
	})
}

func (r *heatRepository) ReplaceRound(ctx context.Context, eventID uuid.UUID, round domain.Round, heats []*domain.Heat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRound(tx, eventID, round); err != nil {
			return err
		}
		for _, heat := range heats {
			if err := tx.Create(heat).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteRound(tx *gorm.DB, eventID uuid.UUID, round domain.Round) error {
	var heatIDs []uuid.UUID
	err := tx.Model(&domain.Heat{}).
		Where("event_id = ? AND round = ?", eventID, round).
		Pluck("id", &heatIDs).Error
	if err != nil {
		return err
	}

	if len(heatIDs) == 0 {
		return nil
	}

	err = tx.Where("heat_id IN ?", heatIDs).
		Delete(&domain.HeatAssignment{}).Error
	if err != nil {
		return err
	}

	return tx.Where("id IN ?", heatIDs).
		Delete(&domain.Heat{}).Error
}

func (r *heatRepository) GetAssignment(ctx context.Context, id uuid.UUID) (*domain.HeatAssignment, error) {
	var assignment domain.HeatAssignment
	err := r.db.WithContext(ctx).
		Preload("Heat").
		First(&assignment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *heatRepository) SetPresence(ctx context.Context, assignmentID uuid.UUID, present bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.HeatAssignment{}).
		Where("id = ?", assignmentID).
		Update("is_present", present)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
