package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"
)

type User struct {
	ID                 string `gorm:"type:uuid;primaryKey"`
	Name               string `gorm:"not null"`
	Email              string `gorm:"uniqueIndex;not null"`
	Password           string `gorm:"not null"`
	Role               string `gorm:"not null;default:user"`
	SubscriptionStatus string `gorm:"not null;default:free"`
	TestsRemaining     int    `gorm:"not null;default:0"`
	SubscriptionExpiry *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasActiveSubscription reports whether the premium window covers the given instant.
func (u *User) HasActiveSubscription(now time.Time) bool {
	return u.SubscriptionStatus == SubscriptionPremium &&
		u.SubscriptionExpiry != nil &&
		u.SubscriptionExpiry.After(now)
}
