package store

import (
	"context"

	"gorm.io/gorm"

	"diaconia/backend/models"
)

// AttemptStore is the append-only quiz attempt log.
type AttemptStore struct {
	db *gorm.DB
}

func NewAttemptStore(db *gorm.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Create(ctx context.Context, a *models.QuizAttempt) error {
	return translate(s.db.WithContext(ctx).Create(a).Error, "quiz attempt")
}

func (s *AttemptStore) lessonAttempts(ctx context.Context, userID, courseID, lessonID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", userID, courseID, lessonID)
}

// List returns the attempts of one lesson, most recent first.
func (s *AttemptStore) List(ctx context.Context, userID, courseID, lessonID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.lessonAttempts(ctx, userID, courseID, lessonID).
		Order("completed_at DESC, id DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, translate(err, "quiz attempts")
	}
	return attempts, nil
}

// Best returns the highest scoring attempt of one lesson, the most recent one on ties.
func (s *AttemptStore) Best(ctx context.Context, userID, courseID, lessonID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.lessonAttempts(ctx, userID, courseID, lessonID).
		Order("score DESC, completed_at DESC, id DESC").
		First(&attempt).Error
	if err != nil {
		return nil, translate(err, "quiz attempt")
	}
	return &attempt, nil
}
