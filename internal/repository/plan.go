package repository

import (
	"context"
	"errors"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"

	"gorm.io/gorm"
)

type PlanRepo struct {
	db *gorm.DB
}

func NewPlanRepo(db *gorm.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

func (r *PlanRepo) List(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.WithContext(ctx).Order("price_cents").Find(&plans).Error
	return plans, err
}

func (r *PlanRepo) ByID(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("plan")
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
