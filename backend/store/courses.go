package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"diaconia/backend/models"
)

type CourseStore struct {
	db *gorm.DB
}

func NewCourseStore(db *gorm.DB) *CourseStore {
	return &CourseStore{db: db}
}

// CourseFilter narrows List. Zero values mean "no filter".
type CourseFilter struct {
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// FindCourse loads a course with its ordered modules, their lessons and the flat lesson list.
func (s *CourseStore) FindCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Preload("Modules", byPosition).
		Preload("Modules.Lessons", byPosition).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return byPosition(db.Where("module_id IS NULL"))
		}).
		First(&course, id).Error
	if err != nil {
		return nil, translate(err, "course")
	}
	return &course, nil
}

func (s *CourseStore) List(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Course{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "courses")
	}

	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var courses []models.Course
	err := query.Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, translate(err, "courses")
	}
	return courses, total, nil
}

func (s *CourseStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error, "course")
}

// SaveCourse writes the course row only; modules and lessons are saved on their own.
func (s *CourseStore) SaveCourse(ctx context.Context, course *models.Course) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error, "course")
}

// DeleteCourse removes the course together with its modules and lessons.
func (s *CourseStore) DeleteCourse(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Course{}, id)
		if res.Error != nil {
			return translate(res.Error, "course")
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "course")
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return errors.Wrap(err, "delete lessons")
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Module{}).Error; err != nil {
			return errors.Wrap(err, "delete modules")
		}
		return nil
	})
}

func (s *CourseStore) CreateModule(ctx context.Context, module *models.Module) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(module).Error, "module")
}

func (s *CourseStore) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	return translate(s.db.WithContext(ctx).Create(lesson).Error, "lesson")
}

func (s *CourseStore) SaveLesson(ctx context.Context, lesson *models.Lesson) error {
	return translate(s.db.WithContext(ctx).Save(lesson).Error, "lesson")
}
