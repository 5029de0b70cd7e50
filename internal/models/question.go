package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Difficulties lists the valid difficulty tiers in ascending order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Question is the authoritative question record, answer key included. Only
// admin endpoints may serialize it directly; everything user-facing goes
// through a sanitized representation.
type Question struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Text        string         `gorm:"not null" json:"text"`
	Difficulty  string         `gorm:"not null;index:idx_questions_module_difficulty,priority:2" json:"difficulty"`
	Explanation string         `gorm:"not null" json:"explanation"`
	ModuleID    string         `gorm:"type:uuid;not null;index:idx_questions_module_difficulty,priority:1" json:"moduleId"`
	Options     []AnswerOption `gorm:"foreignKey:QuestionID" json:"options"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// AnswerOption is one choice of a question. Position preserves insertion
// order, which is also display order on the client.
type AnswerOption struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID string `gorm:"type:uuid;not null;index" json:"questionId"`
	Position   int    `gorm:"not null" json:"position"`
	Text       string `gorm:"not null" json:"text"`
	IsCorrect  bool   `gorm:"not null" json:"isCorrect"`
}

func (o *AnswerOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func ValidDifficulty(d string) bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}
