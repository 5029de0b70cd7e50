// Package entitlement decides whether a user may take another test.
package entitlement

import (
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"
)

// Unlimited is the quota sentinel reported for premium users.
const Unlimited = "unlimited"

// Check reports whether the user may start or submit a test: an unexpired
// premium subscription, or at least one free test remaining. It never
// mutates anything; the quota is only spent when an attempt is actually
// graded and persisted, so an abandoned test costs nothing.
func Check(u *models.User, now time.Time) error {
	if u.HasActiveSubscription(now) {
		return nil
	}
	if u.TestsRemaining > 0 {
		return nil
	}
	return apperr.Forbidden("no tests remaining")
}

// Remaining is the quota snapshot surfaced to clients: the literal
// "unlimited" for active premium users, otherwise the free-test counter.
func Remaining(u *models.User, now time.Time) interface{} {
	if u.HasActiveSubscription(now) {
		return Unlimited
	}
	return u.TestsRemaining
}
