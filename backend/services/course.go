package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"diaconia/backend/errs"
	"diaconia/backend/models"
	"diaconia/backend/store"
	"diaconia/backend/validation"
)

type CourseInput struct {
	Title              string `json:"title" validate:"notblank,min=3,max=200"`
	Description        string `json:"description" validate:"notblank,min=10"`
	Category           string `json:"category" validate:"notblank"`
	Level              string `json:"level" validate:"omitempty,oneof=iniciante intermediário avançado"`
	Thumbnail          string `json:"thumbnail" validate:"omitempty,url"`
	CertificateEnabled *bool  `json:"certificateEnabled"`
}

type CourseUpdate struct {
	Title              *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description        *string `json:"description" validate:"omitempty,min=10"`
	Category           *string `json:"category"`
	Level              *string `json:"level" validate:"omitempty,oneof=iniciante intermediário avançado"`
	Thumbnail          *string `json:"thumbnail"`
	Status             *string `json:"status" validate:"omitempty,oneof=draft published archived"`
	CertificateEnabled *bool   `json:"certificateEnabled"`
}

type ModuleInput struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	Order       *int   `json:"order" validate:"omitempty,min=0"`
}

type LessonInput struct {
	Title         string                `json:"title" validate:"notblank"`
	Description   string                `json:"description"`
	Content       string                `json:"content"`
	VideoURL      string                `json:"videoUrl"`
	VideoDuration int                   `json:"videoDuration" validate:"min=0"`
	Order         *int                  `json:"order" validate:"omitempty,min=0"`
	IsPreview     bool                  `json:"isPreview"`
	Quiz          []models.QuizQuestion `json:"quiz"`
}

type LessonUpdate struct {
	Title         *string                `json:"title" validate:"omitempty,notblank"`
	Description   *string                `json:"description"`
	Content       *string                `json:"content"`
	VideoURL      *string                `json:"videoUrl"`
	VideoDuration *int                   `json:"videoDuration" validate:"omitempty,min=0"`
	Order         *int                   `json:"order" validate:"omitempty,min=0"`
	IsPreview     *bool                  `json:"isPreview"`
	Quiz          *[]models.QuizQuestion `json:"quiz"`
}

// LearnerProgress is one row of a course's analytics.
type LearnerProgress struct {
	UserID           uint       `json:"userId"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Progress         int        `json:"progress"`
	LessonsCompleted int        `json:"lessonsCompleted"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completedAt"`
	LastAccessedAt   time.Time  `json:"lastAccessedAt"`
}

type CourseService struct {
	courses  CourseRepo
	progress ProgressRepo
	users    UserRepo
	policy   QuizPolicy
	log      *zap.Logger
}

func NewCourseService(courses CourseRepo, progress ProgressRepo, users UserRepo, log *zap.Logger) *CourseService {
	return &CourseService{
		courses:  courses,
		progress: progress,
		users:    users,
		policy:   DefaultQuizPolicy,
		log:      log,
	}
}

func (s *CourseService) Create(ctx context.Context, instructorID uint, in CourseInput) (*models.Course, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		Level:              in.Level,
		Thumbnail:          in.Thumbnail,
		InstructorID:       instructorID,
		Status:             models.CourseStatusDraft,
		CertificateEnabled: true,
	}
	if course.Level == "" {
		course.Level = "iniciante"
	}
	if in.CertificateEnabled != nil {
		course.CertificateEnabled = *in.CertificateEnabled
	}

	if err := s.courses.CreateCourse(ctx, course); err != nil {
		return nil, err
	}
	s.log.Info("course created", zap.Uint("course_id", course.ID), zap.Uint("instructor_id", instructorID))
	return course, nil
}

// Get loads the course tree. Courses that are not published are hidden from non-admin viewers.
func (s *CourseService) Get(ctx context.Context, id uint, viewerIsAdmin bool) (*models.Course, error) {
	if viewerIsAdmin {
		return s.courses.FindCourse(ctx, id)
	}
	return findPublished(ctx, s.courses, id)
}

// List returns a page of courses. Non-admin viewers only ever see published courses.
func (s *CourseService) List(ctx context.Context, viewerIsAdmin bool, f store.CourseFilter) ([]models.Course, int64, error) {
	if !viewerIsAdmin {
		f.Status = models.CourseStatusPublished
	}
	return s.courses.List(ctx, f)
}

func (s *CourseService) Update(ctx context.Context, id uint, in CourseUpdate) (*models.Course, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	course, err := s.courses.FindCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		course.Title = *in.Title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Category != nil {
		course.Category = *in.Category
	}
	if in.Level != nil {
		course.Level = *in.Level
	}
	if in.Thumbnail != nil {
		course.Thumbnail = *in.Thumbnail
	}
	if in.Status != nil {
		course.Status = *in.Status
	}
	if in.CertificateEnabled != nil {
		course.CertificateEnabled = *in.CertificateEnabled
	}

	course.RecomputeTotals()
	if err := s.courses.SaveCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id uint) error {
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.log.Info("course deleted", zap.Uint("course_id", id))
	return nil
}

func (s *CourseService) AddModule(ctx context.Context, courseID uint, in ModuleInput) (*models.Module, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		Position:    len(course.Modules),
	}
	if in.Order != nil {
		module.Position = *in.Order
	}
	if err := s.courses.CreateModule(ctx, module); err != nil {
		return nil, err
	}
	return module, nil
}

// AddLesson appends a lesson to a module, or to the flat lesson list when moduleID is FlatModule.
// The flat list only takes lessons while the course has no modules.
func (s *CourseService) AddLesson(ctx context.Context, courseID, moduleID uint, in LessonInput) (*models.Lesson, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.policy.ValidateQuiz(in.Title, in.Quiz); err != nil {
		return nil, err
	}
	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		CourseID:      courseID,
		Title:         in.Title,
		Description:   in.Description,
		Content:       in.Content,
		VideoURL:      in.VideoURL,
		VideoDuration: in.VideoDuration,
		IsPreview:     in.IsPreview,
		Quiz:          in.Quiz,
	}

	siblings := len(course.Lessons)
	if moduleID == FlatModule && len(course.Modules) > 0 {
		return nil, errs.Validation("course is organised in modules; add the lesson to a module",
			errs.FieldError{Field: "moduleId", Error: "required"})
	}
	if moduleID != FlatModule {
		module := findModule(course, moduleID)
		if module == nil {
			return nil, errs.NotFound("module")
		}
		lesson.ModuleID = &module.ID
		siblings = len(module.Lessons)
	}
	lesson.Position = siblings
	if in.Order != nil {
		lesson.Position = *in.Order
	}

	if err := s.courses.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	if err := s.refreshTotals(ctx, courseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson changes lesson fields; a non-nil Quiz replaces the quiz (an empty one removes it).
func (s *CourseService) UpdateLesson(ctx context.Context, courseID, lessonID uint, in LessonUpdate) (*models.Lesson, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson := findLesson(course, lessonID)
	if lesson == nil {
		return nil, errs.NotFound("lesson")
	}

	if in.Title != nil {
		lesson.Title = *in.Title
	}
	if in.Description != nil {
		lesson.Description = *in.Description
	}
	if in.Content != nil {
		lesson.Content = *in.Content
	}
	if in.VideoURL != nil {
		lesson.VideoURL = *in.VideoURL
	}
	if in.VideoDuration != nil {
		lesson.VideoDuration = *in.VideoDuration
	}
	if in.Order != nil {
		lesson.Position = *in.Order
	}
	if in.IsPreview != nil {
		lesson.IsPreview = *in.IsPreview
	}
	if in.Quiz != nil {
		if err := s.policy.ValidateQuiz(lesson.Title, *in.Quiz); err != nil {
			return nil, err
		}
		lesson.Quiz = *in.Quiz
	}

	if err := s.courses.SaveLesson(ctx, lesson); err != nil {
		return nil, err
	}
	if err := s.refreshTotals(ctx, courseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Analytics lists every learner's progress through a course.
func (s *CourseService) Analytics(ctx context.Context, courseID uint) ([]LearnerProgress, error) {
	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	list, err := s.progress.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]LearnerProgress, 0, len(list))
	for _, p := range list {
		u, ok := users[p.UserID]
		if !ok {
			continue
		}
		rows = append(rows, LearnerProgress{
			UserID:           p.UserID,
			Name:             u.Name,
			Email:            u.Email,
			Progress:         p.Progress,
			LessonsCompleted: p.CompletedIn(course),
			Completed:        p.Completed,
			CompletedAt:      p.CompletedAt,
			LastAccessedAt:   p.LastAccessedAt,
		})
	}
	return rows, nil
}

// refreshTotals reloads the course tree and stores its derived totals.
func (s *CourseService) refreshTotals(ctx context.Context, courseID uint) error {
	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return err
	}
	course.RecomputeTotals()
	return s.courses.SaveCourse(ctx, course)
}

func findModule(course *models.Course, moduleID uint) *models.Module {
	for i := range course.Modules {
		if course.Modules[i].ID == moduleID {
			return &course.Modules[i]
		}
	}
	return nil
}

func findLesson(course *models.Course, lessonID uint) *models.Lesson {
	for mi := range course.Modules {
		for li := range course.Modules[mi].Lessons {
			if course.Modules[mi].Lessons[li].ID == lessonID {
				return &course.Modules[mi].Lessons[li]
			}
		}
	}
	for i := range course.Lessons {
		if course.Lessons[i].ID == lessonID {
			return &course.Lessons[i]
		}
	}
	return nil
}
