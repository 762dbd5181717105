package services

import (
	"context"

	"diaconia/backend/models"
	"diaconia/backend/store"
)

type CourseRepo interface {
	FindCourse(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, f store.CourseFilter) ([]models.Course, int64, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	SaveCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uint) error
	CreateModule(ctx context.Context, module *models.Module) error
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	SaveLesson(ctx context.Context, lesson *models.Lesson) error
}

type ProgressRepo interface {
	Find(ctx context.Context, userID, courseID uint) (*models.CourseProgress, error)
	FindByCertificate(ctx context.Context, certificateID string) (*models.CourseProgress, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.CourseProgress, error)
	Create(ctx context.Context, p *models.CourseProgress) error
	Save(ctx context.Context, p *models.CourseProgress) error
}

type AttemptRepo interface {
	Create(ctx context.Context, a *models.QuizAttempt) error
	List(ctx context.Context, userID, courseID, lessonID uint) ([]models.QuizAttempt, error)
	Best(ctx context.Context, userID, courseID, lessonID uint) (*models.QuizAttempt, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// UserDirectory is the account store behind user administration.
type UserDirectory interface {
	UserRepo
	ListUsers(ctx context.Context, f store.UserFilter) ([]models.User, int64, error)
	FindAdmin(ctx context.Context) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*store.UserStats, error)
}
