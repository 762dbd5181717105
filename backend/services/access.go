package services

import (
	"context"
	"errors"

	"diaconia/backend/errs"
)

// AccessGate decides whether a learner may open a lesson. It never writes.
type AccessGate struct {
	courses  CourseRepo
	progress ProgressRepo
}

func NewAccessGate(courses CourseRepo, progress ProgressRepo) *AccessGate {
	return &AccessGate{courses: courses, progress: progress}
}

// IsUnlocked reports whether the lesson is open: the first lesson of the first module always is,
// any other lesson needs the lesson right before it (across module boundaries) completed.
// Courses without modules are reported fully unlocked, whatever the learner completed.
func (g *AccessGate) IsUnlocked(ctx context.Context, userID, courseID, moduleID, lessonID uint) (bool, error) {
	course, err := findPublished(ctx, g.courses, courseID)
	if err != nil {
		return false, err
	}

	if len(course.Modules) == 0 {
		return true, nil
	}
	if moduleID == FlatModule {
		return false, errs.NotFound("module")
	}

	located, err := LocateLesson(course, moduleID, lessonID)
	if err != nil {
		return false, err
	}
	if located.Position.IsEntryPoint() {
		return true, nil
	}

	prevModuleID, prevLessonID, ok := previousLesson(course, located.Position)
	if !ok {
		return true, nil
	}

	p, err := g.progress.Find(ctx, userID, courseID)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsLessonCompleted(prevLessonID, prevModuleID), nil
}
