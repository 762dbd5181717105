package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"diaconia/backend/errs"
	"diaconia/backend/models"
)

// ProgressService owns every write to a learner's CourseProgress. Writes to the same
// (user, course) record are serialised in process and version-checked in the store.
type ProgressService struct {
	courses  CourseRepo
	progress ProgressRepo
	quiz     *QuizService
	locks    *keyLock
	now      func() time.Time
	log      *zap.Logger
}

func NewProgressService(courses CourseRepo, progress ProgressRepo, quiz *QuizService, log *zap.Logger) *ProgressService {
	return &ProgressService{
		courses:  courses,
		progress: progress,
		quiz:     quiz,
		locks:    newKeyLock(),
		now:      time.Now,
		log:      log,
	}
}

// QuizResult is what a learner gets back after submitting a quiz.
type QuizResult struct {
	Attempt  *models.QuizAttempt
	Progress *models.CourseProgress
	Message  string
}

// load returns the stored record or a fresh unsaved one; isNew tells persist which write to use.
func (s *ProgressService) load(ctx context.Context, userID, courseID uint) (p *models.CourseProgress, isNew bool, err error) {
	p, err = s.progress.Find(ctx, userID, courseID)
	if errors.Is(err, errs.ErrNotFound) {
		return models.NewCourseProgress(userID, courseID, s.now()), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (s *ProgressService) persist(ctx context.Context, p *models.CourseProgress, isNew bool) error {
	var err error
	if isNew {
		err = s.progress.Create(ctx, p)
	} else {
		err = s.progress.Save(ctx, p)
	}
	if errors.Is(err, errs.ErrConflict) {
		s.log.Warn("stale progress write rejected",
			zap.Uint("user_id", p.UserID),
			zap.Uint("course_id", p.CourseID),
			zap.Int("version", p.Version),
		)
	}
	return err
}

// locate resolves a lesson of a published course.
func (s *ProgressService) locate(ctx context.Context, courseID, moduleID, lessonID uint) (*models.Course, *LocatedLesson, error) {
	course, err := findPublished(ctx, s.courses, courseID)
	if err != nil {
		return nil, nil, err
	}
	located, err := LocateLesson(course, moduleID, lessonID)
	if err != nil {
		return nil, nil, err
	}
	return course, located, nil
}

// GetProgress returns the learner's record for a course, creating an empty one if absent.
func (s *ProgressService) GetProgress(ctx context.Context, userID, courseID uint) (*models.CourseProgress, error) {
	if _, err := findPublished(ctx, s.courses, courseID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(progressKey{userID, courseID})
	defer unlock()

	p, isNew, err := s.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if isNew {
		if err := s.persist(ctx, p, true); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Peek returns the learner's record without creating it; nil when the learner never started the course.
func (s *ProgressService) Peek(ctx context.Context, userID, courseID uint) (*models.CourseProgress, error) {
	p, err := s.progress.Find(ctx, userID, courseID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// UpdateWatchTime overwrites the watched duration of a lesson. It never completes the lesson.
func (s *ProgressService) UpdateWatchTime(ctx context.Context, userID, courseID, moduleID, lessonID uint, seconds int) (*models.CourseProgress, error) {
	if seconds < 0 {
		return nil, errs.Validation("watchedDuration must not be negative")
	}
	_, located, err := s.locate(ctx, courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(progressKey{userID, courseID})
	defer unlock()

	p, isNew, err := s.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	// TODO: keep the maximum reported duration once clients stop sending rewound positions.
	entry := p.Lesson(located.Lesson.ID, located.ModuleID)
	entry.WatchedDuration = seconds
	p.LastAccessedAt = s.now()

	if err := s.persist(ctx, p, isNew); err != nil {
		return nil, err
	}
	return p, nil
}

// CompleteLesson marks a lesson completed and recomputes the course aggregate.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, courseID, moduleID, lessonID uint) (*models.CourseProgress, error) {
	course, located, err := s.locate(ctx, courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}
	return s.completeLocated(ctx, userID, course, located)
}

// CompleteLessonAt completes the lesson at index of the flat lesson list.
func (s *ProgressService) CompleteLessonAt(ctx context.Context, userID, courseID uint, index int) (*models.CourseProgress, error) {
	course, err := findPublished(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	located, err := FlatLessonAt(course, index)
	if err != nil {
		return nil, err
	}
	return s.completeLocated(ctx, userID, course, located)
}

func (s *ProgressService) completeLocated(ctx context.Context, userID uint, course *models.Course, located *LocatedLesson) (*models.CourseProgress, error) {
	unlock := s.locks.Lock(progressKey{userID, course.ID})
	defer unlock()

	p, isNew, err := s.load(ctx, userID, course.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := p.Lesson(located.Lesson.ID, located.ModuleID)
	markCompleted(entry, now)
	s.recompute(course, p, now)
	p.LastAccessedAt = now

	if err := s.persist(ctx, p, isNew); err != nil {
		return nil, err
	}
	return p, nil
}

// SubmitQuiz grades a quiz, records the attempt and folds the result into the learner's progress.
// The lesson only completes when the quiz passed and some watch time was recorded before.
func (s *ProgressService) SubmitQuiz(
	ctx context.Context, userID, courseID, moduleID, lessonID uint, answers []models.QuizAnswer,
) (*QuizResult, error) {
	course, located, err := s.locate(ctx, courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.quiz.Grade(ctx, userID, courseID, located, answers)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(progressKey{userID, courseID})
	defer unlock()

	p, isNew, err := s.load(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := p.Lesson(located.Lesson.ID, located.ModuleID)
	entry.QuizCompleted = true
	entry.QuizScore = attempt.Score
	entry.QuizPassed = attempt.Passed
	entry.QuizAttempts++
	if entry.WatchedDuration > 0 && entry.QuizPassed {
		markCompleted(entry, now)
	}
	s.recompute(course, p, now)
	p.LastAccessedAt = now

	if err := s.persist(ctx, p, isNew); err != nil {
		return nil, err
	}

	return &QuizResult{
		Attempt:  attempt,
		Progress: p,
		Message:  s.quizMessage(attempt.Passed),
	}, nil
}

func (s *ProgressService) quizMessage(passed bool) string {
	if passed {
		return "Congratulations! You passed the quiz and can move on to the next lesson."
	}
	return "You did not reach the passing score. Review the lesson and try again."
}

// markCompleted flags the entry and stamps it with the latest completion.
func markCompleted(entry *models.LessonProgress, now time.Time) {
	entry.Completed = true
	entry.CompletedAt = &now
}

// recompute derives the course percentage from the completed lessons the course counts;
// the course completes once, the first time it reaches 100.
func (s *ProgressService) recompute(course *models.Course, p *models.CourseProgress, now time.Time) {
	p.Progress = Percentage(p.CompletedIn(course), course.TotalLessons)

	if p.Progress == 100 && !p.Completed {
		p.Completed = true
		p.CompletedAt = &now
		s.log.Info("course completed",
			zap.Uint("user_id", p.UserID),
			zap.Uint("course_id", p.CourseID),
		)
	}
}

// Percentage is round(completed / total * 100), clamped to [0, 100]; 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
