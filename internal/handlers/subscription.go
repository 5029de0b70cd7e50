package handlers

import (
	"net/http"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	plans *repository.PlanRepo
	users *repository.UserRepo
	log   *zap.Logger
}

func NewSubscriptionHandler(plans *repository.PlanRepo, users *repository.UserRepo, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{plans: plans, users: users, log: log}
}

func (h *SubscriptionHandler) Plans(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "subscriptions.plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

type upgradeRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// Upgrade marks the caller premium for the plan's duration. Payment is not
// implemented; this endpoint trusts the request as if a purchase succeeded.
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	var req upgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "planId is required"})
		return
	}
	if !requireUUID(c, req.PlanID) {
		return
	}

	plan, err := h.plans.ByID(c.Request.Context(), req.PlanID)
	if err != nil {
		respondError(c, h.log, err, "subscriptions.upgrade")
		return
	}

	expiry := time.Now().AddDate(0, plan.DurationMonths, 0)
	if err := h.users.Upgrade(c.Request.Context(), user.ID, expiry); err != nil {
		respondError(c, h.log, err, "subscriptions.upgrade")
		return
	}

	h.log.Info("Subscription upgraded",
		zap.String("userID", user.ID),
		zap.String("planID", plan.ID),
		zap.Time("expiry", expiry),
	)
	c.JSON(http.StatusOK, gin.H{
		"subscriptionStatus": "premium",
		"subscriptionExpiry": expiry,
	})
}
