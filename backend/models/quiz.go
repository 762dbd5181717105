package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is an immutable record of one quiz submission.
type QuizAttempt struct {
	gorm.Model
	UserID         uint                                `json:"userId" gorm:"index:idx_attempt_user_course_lesson;not null"`
	CourseID       uint                                `json:"courseId" gorm:"index:idx_attempt_user_course_lesson;not null"`
	ModuleID       *uint                               `json:"moduleId"`
	LessonID       uint                                `json:"lessonId" gorm:"index:idx_attempt_user_course_lesson;not null"`
	Answers        datatypes.JSONSlice[QuizAnswer]     `json:"answers"`
	Results        datatypes.JSONSlice[QuestionResult] `json:"results"`
	Score          int                                 `json:"score"`
	CorrectAnswers int                                 `json:"correctAnswers"`
	TotalQuestions int                                 `json:"totalQuestions"`
	Passed         bool                                `json:"passed"`
	CompletedAt    time.Time                           `json:"completedAt" gorm:"index"`
}

type QuizAnswer struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedOption int `json:"selectedOption"`
}

type QuestionResult struct {
	QuestionIndex  int  `json:"questionIndex"`
	SelectedOption int  `json:"selectedOption"`
	CorrectOption  int  `json:"correctOption"`
	IsCorrect      bool `json:"isCorrect"`
}
