package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseProgress is a learner's progress through one course. There is exactly one per (user, course).
type CourseProgress struct {
	gorm.Model
	UserID            uint                                `json:"userId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID          uint                                `json:"courseId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	EnrolledAt        time.Time                           `json:"enrolledAt"`
	LastAccessedAt    time.Time                           `json:"lastAccessedAt"`
	CompletedLessons  datatypes.JSONSlice[LessonProgress] `json:"completedLessons"`
	Progress          int                                 `json:"progress"` // 0-100, derived
	Completed         bool                                `json:"completed"`
	CompletedAt       *time.Time                          `json:"completedAt"`
	CertificateIssued bool                                `json:"certificateIssued"`
	CertificateID     *string                             `json:"certificateId" gorm:"uniqueIndex"`
	CertificateURL    string                              `json:"certificateUrl"`
	Version           int                                 `json:"version" gorm:"not null;default:1"`
}

// LessonProgress is identified by (LessonID, ModuleID). ModuleID is 0 for lessons of the flat list.
type LessonProgress struct {
	LessonID        uint       `json:"lessonId"`
	ModuleID        uint       `json:"moduleId"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	WatchedDuration int        `json:"watchedDuration"` // seconds
	QuizCompleted   bool       `json:"quizCompleted"`
	QuizScore       int        `json:"quizScore"`
	QuizPassed      bool       `json:"quizPassed"`
	QuizAttempts    int        `json:"quizAttempts"`
}

// NewCourseProgress returns an empty progress record for a (user, course) pair.
func NewCourseProgress(userID, courseID uint, now time.Time) *CourseProgress {
	return &CourseProgress{
		UserID:           userID,
		CourseID:         courseID,
		EnrolledAt:       now,
		LastAccessedAt:   now,
		CompletedLessons: datatypes.JSONSlice[LessonProgress]{},
		Version:          1,
	}
}

// Lesson returns the entry for (lessonID, moduleID), appending an incomplete one if absent.
func (p *CourseProgress) Lesson(lessonID, moduleID uint) *LessonProgress {
	for i := range p.CompletedLessons {
		lp := &p.CompletedLessons[i]
		if lp.LessonID == lessonID && lp.ModuleID == moduleID {
			return lp
		}
	}
	p.CompletedLessons = append(p.CompletedLessons, LessonProgress{
		LessonID: lessonID,
		ModuleID: moduleID,
	})
	return &p.CompletedLessons[len(p.CompletedLessons)-1]
}

// IsLessonCompleted reports whether the entry for (lessonID, moduleID) exists and is completed.
func (p *CourseProgress) IsLessonCompleted(lessonID, moduleID uint) bool {
	for _, lp := range p.CompletedLessons {
		if lp.LessonID == lessonID && lp.ModuleID == moduleID {
			return lp.Completed
		}
	}
	return false
}

// CompletedIn counts the completed entries that address a lesson counted by course.
func (p *CourseProgress) CompletedIn(course *Course) int {
	n := 0
	for _, lp := range p.CompletedLessons {
		if lp.Completed && course.CountsLesson(lp.LessonID, lp.ModuleID) {
			n++
		}
	}
	return n
}
