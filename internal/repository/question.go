package repository

import (
	"context"
	"errors"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"

	"gorm.io/gorm"
)

type QuestionRepo struct {
	db *gorm.DB
}

func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepo) ByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		First(&q, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("question")
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ByIDs fetches the questions with the given ids, options included. Missing
// ids are silently absent from the result; grading decides what that means.
func (r *QuestionRepo) ByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepo) ByModule(ctx context.Context, moduleID string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Where("module_id = ?", moduleID).
		Find(&questions).Error
	return questions, err
}

// PoolByDifficulty returns every question of one difficulty across the given
// modules. The selector draws its random sample from this pool in memory.
func (r *QuestionRepo) PoolByDifficulty(ctx context.Context, moduleIDs []string, difficulty string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("Options", orderOptions).
		Where("module_id IN ? AND difficulty = ?", moduleIDs, difficulty).
		Find(&questions).Error
	return questions, err
}

// Create persists a question together with its options in one transaction.
func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Create(q).Error
}

// Update replaces a question's fields and its full option set.
func (r *QuestionRepo) Update(ctx context.Context, q *models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).Where("id = ?", q.ID).
			Updates(map[string]interface{}{
				"text":        q.Text,
				"difficulty":  q.Difficulty,
				"explanation": q.Explanation,
				"module_id":   q.ModuleID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("question")
		}
		if err := tx.Delete(&models.AnswerOption{}, "question_id = ?", q.ID).Error; err != nil {
			return err
		}
		for i := range q.Options {
			q.Options[i].ID = ""
			q.Options[i].QuestionID = q.ID
			q.Options[i].Position = i
		}
		return tx.Create(&q.Options).Error
	})
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AnswerOption{}, "question_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Question{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("question")
		}
		return nil
	})
}

func orderOptions(db *gorm.DB) *gorm.DB {
	return db.Order("answer_options.position")
}
