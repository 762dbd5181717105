package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

type Course struct {
	gorm.Model
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Thumbnail          string   `json:"thumbnail"`
	InstructorID       uint     `json:"instructorId" gorm:"index"`
	Category           string   `json:"category" gorm:"index"`
	Status             string   `json:"status" gorm:"index"` // draft, published, archived
	Level              string   `json:"level"`               // iniciante, intermediário, avançado
	Duration           int      `json:"duration"`            // seconds, derived
	TotalLessons       int      `json:"totalLessons"`        // derived
	CertificateEnabled bool     `json:"certificateEnabled"`
	Modules            []Module `json:"modules" gorm:"constraint:OnDelete:CASCADE"`
	// Lessons is the legacy flat lesson list: lessons that belong to no module.
	Lessons []Lesson `json:"lessons" gorm:"constraint:OnDelete:CASCADE"`
}

type Module struct {
	gorm.Model
	CourseID    uint     `json:"courseId" gorm:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Position    int      `json:"order"`
	Lessons     []Lesson `json:"lessons" gorm:"constraint:OnDelete:CASCADE"`
}

type Lesson struct {
	gorm.Model
	CourseID      uint                              `json:"courseId" gorm:"index"`
	ModuleID      *uint                             `json:"moduleId" gorm:"index"`
	Title         string                            `json:"title"`
	Description   string                            `json:"description"`
	Content       string                            `json:"content"`
	VideoURL      string                            `json:"videoUrl"`
	VideoDuration int                               `json:"videoDuration"` // seconds
	Position      int                               `json:"order"`
	IsPreview     bool                              `json:"isPreview"`
	Quiz          datatypes.JSONSlice[QuizQuestion] `json:"quiz"`
}

type QuizQuestion struct {
	Question string       `json:"question" validate:"notblank"`
	Options  []QuizOption `json:"options" validate:"dive"`
}

type QuizOption struct {
	Text      string `json:"text" validate:"notblank"`
	IsCorrect bool   `json:"isCorrect"`
}

// HasQuiz reports whether the lesson carries a quiz definition.
func (l *Lesson) HasQuiz() bool {
	return len(l.Quiz) > 0
}

// RecomputeTotals derives TotalLessons and Duration from the loaded module tree,
// falling back to the flat lesson list when no module holds any lesson.
// Modules and Lessons must be loaded before calling it.
func (c *Course) RecomputeTotals() {
	totalLessons, totalDuration := 0, 0
	for _, l := range c.countedLessons() {
		totalLessons++
		totalDuration += l.VideoDuration
	}
	c.TotalLessons = totalLessons
	c.Duration = totalDuration
}

// CountsLesson reports whether (lessonID, moduleID) addresses one of the lessons behind
// TotalLessons. Flat lessons of a course whose modules hold lessons are not counted.
func (c *Course) CountsLesson(lessonID, moduleID uint) bool {
	for _, l := range c.countedLessons() {
		if l.ID == lessonID && moduleOf(l) == moduleID {
			return true
		}
	}
	return false
}

func (c *Course) countedLessons() []Lesson {
	var lessons []Lesson
	for mi := range c.Modules {
		moduleID := c.Modules[mi].ID
		for _, l := range c.Modules[mi].Lessons {
			l.ModuleID = &moduleID
			lessons = append(lessons, l)
		}
	}
	if len(lessons) == 0 {
		return c.Lessons
	}
	return lessons
}

func moduleOf(l Lesson) uint {
	if l.ModuleID == nil {
		return 0
	}
	return *l.ModuleID
}
