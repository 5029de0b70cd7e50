package handlers

import (
	"net/http"

	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ModuleHandler struct {
	content *repository.ContentRepo
	log     *zap.Logger
}

func NewModuleHandler(content *repository.ContentRepo, log *zap.Logger) *ModuleHandler {
	return &ModuleHandler{content: content, log: log}
}

func (h *ModuleHandler) List(c *gin.Context) {
	certificationID := c.Query("certificationId")
	if certificationID != "" && !requireUUID(c, certificationID) {
		return
	}
	mods, err := h.content.ListModules(c.Request.Context(), certificationID)
	if err != nil {
		respondError(c, h.log, err, "modules.list")
		return
	}
	c.JSON(http.StatusOK, mods)
}

func (h *ModuleHandler) Get(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	mod, err := h.content.ModuleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "modules.get")
		return
	}
	c.JSON(http.StatusOK, mod)
}

type moduleRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	CertificationID string `json:"certificationId"`
}

func (h *ModuleHandler) Create(c *gin.Context) {
	var req moduleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CertificationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title, description and certificationId are required"})
		return
	}

	if !requireUUID(c, req.CertificationID) {
		return
	}

	// The parent certification must exist before a module can hang off it.
	if _, err := h.content.CertificationByID(c.Request.Context(), req.CertificationID); err != nil {
		respondError(c, h.log, err, "modules.create")
		return
	}

	mod := &models.Module{
		Title:           req.Title,
		Description:     req.Description,
		CertificationID: req.CertificationID,
	}
	if err := h.content.CreateModule(c.Request.Context(), mod); err != nil {
		respondError(c, h.log, err, "modules.create")
		return
	}
	c.JSON(http.StatusCreated, mod)
}

func (h *ModuleHandler) Update(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	var req moduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and description are required"})
		return
	}

	mod := &models.Module{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.content.UpdateModule(c.Request.Context(), mod); err != nil {
		respondError(c, h.log, err, "modules.update")
		return
	}
	c.JSON(http.StatusOK, mod)
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	if err := h.content.DeleteModule(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "modules.delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "module removed"})
}
