package handlers

import (
	"net/http"

	"github.com/Dacosmicgiant/fitness-mock/internal/models"
	"github.com/Dacosmicgiant/fitness-mock/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CertificationHandler struct {
	content *repository.ContentRepo
	log     *zap.Logger
}

func NewCertificationHandler(content *repository.ContentRepo, log *zap.Logger) *CertificationHandler {
	return &CertificationHandler{content: content, log: log}
}

func (h *CertificationHandler) List(c *gin.Context) {
	certs, err := h.content.ListCertifications(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "certifications.list")
		return
	}
	c.JSON(http.StatusOK, certs)
}

func (h *CertificationHandler) Get(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	cert, err := h.content.CertificationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "certifications.get")
		return
	}
	c.JSON(http.StatusOK, cert)
}

type certificationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
}

func (h *CertificationHandler) Create(c *gin.Context) {
	var req certificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and description are required"})
		return
	}

	cert := &models.Certification{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.content.CreateCertification(c.Request.Context(), cert); err != nil {
		respondError(c, h.log, err, "certifications.create")
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *CertificationHandler) Update(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	var req certificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and description are required"})
		return
	}

	cert := &models.Certification{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.content.UpdateCertification(c.Request.Context(), cert); err != nil {
		respondError(c, h.log, err, "certifications.update")
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *CertificationHandler) Delete(c *gin.Context) {
	if !requireUUID(c, c.Param("id")) {
		return
	}
	if err := h.content.DeleteCertification(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err, "certifications.delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "certification removed"})
}
