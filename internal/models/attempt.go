package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestAttempt is the immutable record of one graded test session. It is
// written exactly once at submission time and never updated; isCorrect on
// each response is frozen at grading time so later question edits do not
// rewrite history.
type TestAttempt struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string         `gorm:"type:uuid;not null;index" json:"userId"`
	CertificationID string         `gorm:"type:uuid;not null;index" json:"certificationId"`
	Certification   *Certification `gorm:"foreignKey:CertificationID" json:"certification,omitempty"`
	// ModuleID is nil for a full-certification test.
	ModuleID        *string        `gorm:"type:uuid;index" json:"moduleId"`
	Module          *Module        `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	IsFullTest      bool           `gorm:"not null" json:"isFullTest"`
	QuestionCount   int            `gorm:"not null" json:"questionCount"`
	Score           int            `gorm:"not null" json:"score"`
	MaxScore        int            `gorm:"not null" json:"maxScore"`
	DurationSeconds int            `gorm:"not null" json:"durationSeconds"`
	Responses       []TestResponse `gorm:"foreignKey:AttemptID" json:"responses"`
	CompletedAt     time.Time      `gorm:"not null;index" json:"completedAt"`
}

func (a *TestAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Percentage is the attempt's score as a percentage of its maximum.
func (a *TestAttempt) Percentage() float64 {
	if a.MaxScore == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.MaxScore) * 100
}

type TestResponse struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID      string `gorm:"type:uuid;not null;index" json:"attemptId"`
	Position       int    `gorm:"not null" json:"position"`
	QuestionID     string `gorm:"type:uuid;not null" json:"questionId"`
	SelectedOption int    `gorm:"not null" json:"selectedOption"`
	IsCorrect      bool   `gorm:"not null" json:"isCorrect"`
}

func (r *TestResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
