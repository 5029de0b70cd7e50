package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"

	"gorm.io/gorm"
)

type AttemptRepo struct {
	db *gorm.DB
}

func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// CreateWithCredit persists a graded attempt and consumes one test credit in
// a single transaction. The credit consumption is one conditional UPDATE:
// either the user is inside a premium window (quota untouched) or has free
// tests left (quota decremented). Zero matched rows means no entitlement, the
// transaction rolls back and nothing is persisted. Two devices submitting at
// once therefore cannot both spend the last free test.
func (r *AttemptRepo) CreateWithCredit(ctx context.Context, attempt *models.TestAttempt, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND ((subscription_status = ? AND subscription_expiry > ?) OR tests_remaining > 0)",
				attempt.UserID, models.SubscriptionPremium, now).
			Update("tests_remaining", gorm.Expr(
				"CASE WHEN subscription_status = ? THEN tests_remaining - 1 ELSE tests_remaining END",
				models.SubscriptionFree))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Forbidden("no tests remaining")
		}
		return tx.Create(attempt).Error
	})
}

func (r *AttemptRepo) ByID(ctx context.Context, id string) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	err := r.db.WithContext(ctx).
		Preload("Certification").
		Preload("Module").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_responses.position")
		}).
		First(&attempt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("test attempt")
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ListByUser returns a user's attempts newest first, optionally restricted
// to one certification.
func (r *AttemptRepo) ListByUser(ctx context.Context, userID, certificationID string) ([]models.TestAttempt, error) {
	q := r.db.WithContext(ctx).
		Preload("Certification").
		Preload("Module").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_responses.position")
		}).
		Where("user_id = ?", userID).
		Order("completed_at DESC")
	if certificationID != "" {
		q = q.Where("certification_id = ?", certificationID)
	}
	var attempts []models.TestAttempt
	err := q.Find(&attempts).Error
	return attempts, err
}
