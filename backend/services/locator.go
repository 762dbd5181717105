package services

import (
	"context"
	"strconv"

	"diaconia/backend/errs"
	"diaconia/backend/models"
)

// FlatModule is the module id under which lessons of the legacy flat list are tracked.
const FlatModule uint = 0

// ParseModuleID turns a module path parameter into an id. An empty value, "null" and
// "default" address the course's flat lesson list.
func ParseModuleID(raw string) (uint, error) {
	switch raw {
	case "", "null", "undefined", "default":
		return FlatModule, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validationf("invalid module id %q", raw)
	}
	return uint(id), nil
}

// findPublished loads a course learners can work in. Draft and archived courses read as missing.
func findPublished(ctx context.Context, courses CourseRepo, courseID uint) (*models.Course, error) {
	course, err := courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CourseStatusPublished {
		return nil, errs.NotFound("course")
	}
	return course, nil
}

// Position is the ordinal of a lesson inside a course: (module index, lesson index).
type Position struct {
	Module int
	Lesson int
}

// IsEntryPoint reports whether the position is the first lesson of the course.
func (p Position) IsEntryPoint() bool {
	return p.Module == 0 && p.Lesson == 0
}

type LocatedLesson struct {
	Lesson   *models.Lesson
	ModuleID uint // FlatModule for the flat list
	Position Position
}

// LocateLesson resolves (moduleID, lessonID) inside a loaded course.
func LocateLesson(course *models.Course, moduleID, lessonID uint) (*LocatedLesson, error) {
	if moduleID == FlatModule {
		for i := range course.Lessons {
			if course.Lessons[i].ID == lessonID {
				return &LocatedLesson{
					Lesson:   &course.Lessons[i],
					ModuleID: FlatModule,
					Position: Position{Module: 0, Lesson: i},
				}, nil
			}
		}
		return nil, errs.NotFound("lesson")
	}

	for mi := range course.Modules {
		module := &course.Modules[mi]
		if module.ID != moduleID {
			continue
		}
		for li := range module.Lessons {
			if module.Lessons[li].ID == lessonID {
				return &LocatedLesson{
					Lesson:   &module.Lessons[li],
					ModuleID: moduleID,
					Position: Position{Module: mi, Lesson: li},
				}, nil
			}
		}
		return nil, errs.NotFound("lesson")
	}
	return nil, errs.NotFound("module")
}

// FlatLessonAt maps an index of the flat lesson list to the lesson it addresses.
// It only exists for callers that still address lessons by array position.
func FlatLessonAt(course *models.Course, index int) (*LocatedLesson, error) {
	if index < 0 || index >= len(course.Lessons) {
		return nil, errs.NotFound("lesson")
	}
	return &LocatedLesson{
		Lesson:   &course.Lessons[index],
		ModuleID: FlatModule,
		Position: Position{Module: 0, Lesson: index},
	}, nil
}

// previousLesson returns the (moduleID, lessonID) that must be completed to unlock pos.
// ok is false when no earlier lesson exists.
func previousLesson(course *models.Course, pos Position) (moduleID, lessonID uint, ok bool) {
	module := course.Modules[pos.Module]
	if pos.Lesson > 0 {
		return module.ID, module.Lessons[pos.Lesson-1].ID, true
	}
	// walk back over modules that hold no lessons
	for mi := pos.Module - 1; mi >= 0; mi-- {
		prev := course.Modules[mi]
		if n := len(prev.Lessons); n > 0 {
			return prev.ID, prev.Lessons[n-1].ID, true
		}
	}
	return 0, 0, false
}
