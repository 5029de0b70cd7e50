package repository

import (
	"context"
	"errors"

	"github.com/Dacosmicgiant/fitness-mock/internal/apperr"
	"github.com/Dacosmicgiant/fitness-mock/internal/models"

	"gorm.io/gorm"
)

// ContentRepo reads and writes the certification -> module hierarchy.
// Questions have their own repository.
type ContentRepo struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

func (r *ContentRepo) ListCertifications(ctx context.Context) ([]models.Certification, error) {
	var certs []models.Certification
	err := r.db.WithContext(ctx).Order("title").Find(&certs).Error
	return certs, err
}

func (r *ContentRepo) CertificationByID(ctx context.Context, id string) (*models.Certification, error) {
	var cert models.Certification
	err := r.db.WithContext(ctx).Preload("Modules").First(&cert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("certification")
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *ContentRepo) CreateCertification(ctx context.Context, cert *models.Certification) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *ContentRepo) UpdateCertification(ctx context.Context, cert *models.Certification) error {
	res := r.db.WithContext(ctx).Model(&models.Certification{}).Where("id = ?", cert.ID).
		Updates(map[string]interface{}{
			"title":       cert.Title,
			"description": cert.Description,
			"image":       cert.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("certification")
	}
	return nil
}

func (r *ContentRepo) DeleteCertification(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Certification{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("certification")
	}
	return nil
}

func (r *ContentRepo) ListModules(ctx context.Context, certificationID string) ([]models.Module, error) {
	q := r.db.WithContext(ctx).Order("title")
	if certificationID != "" {
		q = q.Where("certification_id = ?", certificationID)
	}
	var mods []models.Module
	err := q.Find(&mods).Error
	return mods, err
}

func (r *ContentRepo) ModuleByID(ctx context.Context, id string) (*models.Module, error) {
	var mod models.Module
	err := r.db.WithContext(ctx).First(&mod, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("module")
	}
	if err != nil {
		return nil, err
	}
	return &mod, nil
}

// ModuleIDsForCertification resolves a certification to the ids of all its
// modules. A missing certification and a certification without modules are
// both not-found conditions for test generation.
func (r *ContentRepo) ModuleIDsForCertification(ctx context.Context, certificationID string) ([]string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Certification{}).Where("id = ?", certificationID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("certification")
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Module{}).
		Where("certification_id = ?", certificationID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, apperr.NotFound("modules for certification")
	}
	return ids, nil
}

func (r *ContentRepo) CreateModule(ctx context.Context, mod *models.Module) error {
	return r.db.WithContext(ctx).Create(mod).Error
}

func (r *ContentRepo) UpdateModule(ctx context.Context, mod *models.Module) error {
	res := r.db.WithContext(ctx).Model(&models.Module{}).Where("id = ?", mod.ID).
		Updates(map[string]interface{}{
			"title":       mod.Title,
			"description": mod.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("module")
	}
	return nil
}

func (r *ContentRepo) DeleteModule(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Module{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("module")
	}
	return nil
}

// Titles returns id -> title for the given certification ids.
func (r *ContentRepo) CertificationTitles(ctx context.Context, ids []string) (map[string]string, error) {
	return r.titles(ctx, &models.Certification{}, ids)
}

// ModuleTitles returns id -> title for the given module ids.
func (r *ContentRepo) ModuleTitles(ctx context.Context, ids []string) (map[string]string, error) {
	return r.titles(ctx, &models.Module{}, ids)
}

func (r *ContentRepo) titles(ctx context.Context, model interface{}, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	type row struct {
		ID    string
		Title string
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).
		Select("id", "title").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(rows))
	for _, rw := range rows {
		titles[rw.ID] = rw.Title
	}
	return titles, nil
}
