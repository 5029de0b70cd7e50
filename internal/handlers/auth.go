package handlers

import (
	"net/http"
	"time"

	"github.com/Dacosmicgiant/fitness-mock/internal/config"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/repository"
	"github.com/Dacosmicgiant/fitness-mock/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users *repository.UserRepo
	log   *zap.Logger
}

func NewAuthHandler(users *repository.UserRepo, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authResponse is what register and login return: the identity fields the
// mobile client caches, plus the bearer token.
type authResponse struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	Role               string      `json:"role"`
	SubscriptionStatus string      `json:"subscriptionStatus"`
	TestsRemaining     int         `json:"testsRemaining"`
	SubscriptionExpiry *time.Time  `json:"subscriptionExpiry,omitempty"`
	Token              string      `json:"token,omitempty"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid email address"})
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password must be at least 8 characters with upper, lower and digit"})
		return
	}

	taken, err := h.users.EmailTaken(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.log, err, "auth.register")
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user already exists"})
		return
	}

	user := &models.User{
		Name:               req.Name,
		Email:              req.Email,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionFree,
		TestsRemaining:     config.Conf.Quota.FreeTests,
	}
	if err := user.SetPassword(req.Password); err != nil {
		respondError(c, h.log, err, "auth.register")
		return
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, h.log, err, "auth.register")
		return
	}

	token, err := h.mintToken(user.ID)
	if err != nil {
		respondError(c, h.log, err, "auth.register")
		return
	}

	h.log.Info("User registered", zap.String("userID", user.ID))
	c.JSON(http.StatusCreated, toAuthResponse(user, token))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := h.users.ByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	token, err := h.mintToken(user.ID)
	if err != nil {
		respondError(c, h.log, err, "auth.login")
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(user, token))
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(user, ""))
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Name == "" {
		req.Name = user.Name
	}
	if req.Email == "" {
		req.Email = user.Email
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid email address"})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), user.ID, req.Name, req.Email); err != nil {
		respondError(c, h.log, err, "auth.updateProfile")
		return
	}
	user.Name = req.Name
	user.Email = req.Email
	c.JSON(http.StatusOK, toAuthResponse(user, ""))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "currentPassword and newPassword are required"})
		return
	}
	if !user.CheckPassword(req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "current password is incorrect"})
		return
	}
	if !utils.IsComplexPassword(req.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password must be at least 8 characters with upper, lower and digit"})
		return
	}

	updated := *user
	if err := updated.SetPassword(req.NewPassword); err != nil {
		respondError(c, h.log, err, "auth.changePassword")
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, updated.Password); err != nil {
		respondError(c, h.log, err, "auth.changePassword")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) mintToken(userID string) (string, error) {
	serverConf := config.Conf.Server
	ttl := time.Duration(serverConf.TokenTTLHours) * time.Hour
	return utils.GenerateToken(serverConf.JWTSecret, userID, ttl)
}

func toAuthResponse(user *models.User, token string) authResponse {
	return authResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Role:               user.Role,
		SubscriptionStatus: user.SubscriptionStatus,
		TestsRemaining:     user.TestsRemaining,
		SubscriptionExpiry: user.SubscriptionExpiry,
		Token:              token,
	}
}
