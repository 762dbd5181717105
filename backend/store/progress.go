package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"diaconia/backend/errs"
	"diaconia/backend/models"
)

type ProgressStore struct {
	db *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) Find(ctx context.Context, userID, courseID uint) (*models.CourseProgress, error) {
	var p models.CourseProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "progress")
	}
	return &p, nil
}

func (s *ProgressStore) FindByCertificate(ctx context.Context, certificateID string) (*models.CourseProgress, error) {
	var p models.CourseProgress
	err := s.db.WithContext(ctx).
		Where("certificate_id = ? AND certificate_issued = ?", certificateID, true).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "certificate")
	}
	return &p, nil
}

func (s *ProgressStore) ListByCourse(ctx context.Context, courseID uint) ([]models.CourseProgress, error) {
	var list []models.CourseProgress
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("progress DESC, last_accessed_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "progress")
	}
	return list, nil
}

func (s *ProgressStore) Create(ctx context.Context, p *models.CourseProgress) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return translate(s.db.WithContext(ctx).Create(p).Error, "progress")
}

// Save writes the whole record back, provided nobody else saved it since it was loaded.
// A stale record fails with errs.ErrConflict and is left untouched.
func (s *ProgressStore) Save(ctx context.Context, p *models.CourseProgress) error {
	loaded := p.Version
	p.Version = loaded + 1

	res := s.db.WithContext(ctx).
		Model(p).
		Where("version = ?", loaded).
		Select("*").
		Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		p.Version = loaded
		return translate(res.Error, "progress")
	}
	if res.RowsAffected == 0 {
		p.Version = loaded
		return errors.Wrapf(errs.ErrConflict, "progress %d was modified concurrently", p.ID)
	}
	return nil
}
