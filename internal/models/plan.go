package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is a subscription plan in the catalog. Purchasing is stubbed; the
// upgrade endpoint only flips the user's subscription fields.
type Plan struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	PriceCents     int       `gorm:"not null" json:"priceCents"`
	DurationMonths int       `gorm:"not null" json:"durationMonths"`
	Features       string    `gorm:"not null" json:"features"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
