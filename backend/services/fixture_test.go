package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"diaconia/backend/models"
	"diaconia/backend/store"
)

type fixture struct {
	ctx      context.Context
	courses  *CourseService
	quiz     *QuizService
	progress *ProgressService
	access   *AccessGate
	certs    *CertificateService
	users    *store.UserStore
	attempts *store.AttemptStore
	store    *store.ProgressStore
	clock    *fakeClock
}

// fakeClock advances one minute on every reading, so stored timestamps are strictly ordered.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()

	courseStore := store.NewCourseStore(db)
	progressStore := store.NewProgressStore(db)
	attemptStore := store.NewAttemptStore(db)
	userStore := store.NewUserStore(db)
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	quiz := NewQuizService(courseStore, attemptStore)
	quiz.now = clock.Now
	progress := NewProgressService(courseStore, progressStore, quiz, log)
	progress.now = clock.Now

	return &fixture{
		ctx:      context.Background(),
		courses:  NewCourseService(courseStore, progressStore, userStore, log),
		quiz:     quiz,
		progress: progress,
		access:   NewAccessGate(courseStore, progressStore),
		certs:    NewCertificateService(progress, userStore, "https://app.example.org/"),
		users:    userStore,
		attempts: attemptStore,
		store:    progressStore,
		clock:    clock,
	}
}

// sampleQuiz returns a valid quiz whose correct option for question q is q % 4.
func sampleQuiz() []models.QuizQuestion {
	quiz := make([]models.QuizQuestion, 0, 5)
	for q := 0; q < 5; q++ {
		options := make([]models.QuizOption, 4)
		for o := range options {
			options[o] = models.QuizOption{Text: string(rune('A' + o)), IsCorrect: o == q%4}
		}
		quiz = append(quiz, models.QuizQuestion{Question: "Question " + string(rune('1'+q)), Options: options})
	}
	return quiz
}

// answersWith answers the sample quiz with exactly correct right answers.
func answersWith(correct int) []models.QuizAnswer {
	answers := make([]models.QuizAnswer, 0, 5)
	for q := 0; q < 5; q++ {
		selected := q % 4
		if q >= correct {
			selected = (selected + 1) % 4
		}
		answers = append(answers, models.QuizAnswer{QuestionIndex: q, SelectedOption: selected})
	}
	return answers
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Learner " + email, Email: email, PasswordHash: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, f.users.Create(f.ctx, u))
	return u
}

// gridCourse builds a published course of modules x lessons, every lesson with a quiz.
func (f *fixture) gridCourse(t *testing.T, modules, lessons int) *models.Course {
	t.Helper()
	course, err := f.courses.Create(f.ctx, 1, CourseInput{
		Title:       "Fundamentos da fé",
		Description: "Curso introdutório para novos membros",
		Category:    "discipulado",
	})
	require.NoError(t, err)

	for m := 0; m < modules; m++ {
		module, err := f.courses.AddModule(f.ctx, course.ID, ModuleInput{Title: "Módulo " + string(rune('1'+m))})
		require.NoError(t, err)
		for l := 0; l < lessons; l++ {
			_, err := f.courses.AddLesson(f.ctx, course.ID, module.ID, LessonInput{
				Title:         "Aula " + string(rune('1'+l)),
				VideoDuration: 600,
				Quiz:          sampleQuiz(),
			})
			require.NoError(t, err)
		}
	}

	published := models.CourseStatusPublished
	_, err = f.courses.Update(f.ctx, course.ID, CourseUpdate{Status: &published})
	require.NoError(t, err)

	loaded, err := f.courses.Get(f.ctx, course.ID, true)
	require.NoError(t, err)
	return loaded
}

// flatCourse builds a published course whose lessons belong to no module.
func (f *fixture) flatCourse(t *testing.T, lessons int) *models.Course {
	t.Helper()
	course, err := f.courses.Create(f.ctx, 1, CourseInput{
		Title:       "Curso legado",
		Description: "Aulas sem módulos cadastrados",
		Category:    "liderança",
	})
	require.NoError(t, err)
	for l := 0; l < lessons; l++ {
		_, err := f.courses.AddLesson(f.ctx, course.ID, FlatModule, LessonInput{
			Title:         "Aula " + string(rune('1'+l)),
			VideoDuration: 300,
		})
		require.NoError(t, err)
	}

	published := models.CourseStatusPublished
	_, err = f.courses.Update(f.ctx, course.ID, CourseUpdate{Status: &published})
	require.NoError(t, err)

	loaded, err := f.courses.Get(f.ctx, course.ID, true)
	require.NoError(t, err)
	return loaded
}
