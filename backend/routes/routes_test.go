package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"diaconia/backend/config"
	"diaconia/backend/models"
	"diaconia/backend/services"
	"diaconia/backend/store"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Details json.RawMessage `json:"details"`
}

func setup(t *testing.T) *testEnv {
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

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     "testsecret",
		JWTExpiration: time.Hour,
		FrontendURL:   "http://localhost:3000",
	}

	app := fiber.New()
	SetupRoutes(app, db, cfg, zap.NewNop())
	return &testEnv{app: app, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, raw json.RawMessage, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out), string(raw))
}

func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	status, env := e.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "segredo123",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var session struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

// admin seeds the deployment's admin account the way startup does and logs in with it.
func (e *testEnv) admin(t *testing.T) string {
	t.Helper()
	users := services.NewUserService(store.NewUserStore(e.db), zap.NewNop())
	_, created, err := users.EnsureAdmin(context.Background(), services.AdminSeed{
		Name: "Pastor", Email: "admin@example.org", Password: "admin123",
	})
	require.NoError(t, err)
	require.True(t, created)

	status, env := e.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "admin@example.org", "password": "admin123"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var session struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &session)
	return session.Token
}

func quizBody() []fiber.Map {
	quiz := make([]fiber.Map, 0, 5)
	for q := 0; q < 5; q++ {
		options := make([]fiber.Map, 0, 4)
		for o := 0; o < 4; o++ {
			options = append(options, fiber.Map{"text": fmt.Sprintf("opção %d", o), "isCorrect": o == 0})
		}
		quiz = append(quiz, fiber.Map{"question": fmt.Sprintf("pergunta %d", q), "options": options})
	}
	return quiz
}

func answersBody(correct int) fiber.Map {
	answers := make([]fiber.Map, 0, 5)
	for q := 0; q < 5; q++ {
		selected := 0
		if q >= correct {
			selected = 2
		}
		answers = append(answers, fiber.Map{"questionIndex": q, "selectedOption": selected})
	}
	return fiber.Map{"answers": answers}
}

type idOnly struct {
	ID uint `json:"ID"`
}

// publishedCourse creates a course with one module of two quiz lessons and publishes it.
func (e *testEnv) publishedCourse(t *testing.T, admin string) (courseID, moduleID uint, lessons [2]uint) {
	t.Helper()
	status, env := e.do(t, "POST", "/api/courses", admin, fiber.Map{
		"title": "Discipulado", "description": "Primeiros passos na fé cristã", "category": "ensino",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var course idOnly
	decode(t, env.Data, &course)

	status, env = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/modules", course.ID), admin, fiber.Map{"title": "Módulo 1"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var module idOnly
	decode(t, env.Data, &module)

	for i := range lessons {
		status, env = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/modules/%d/lessons", course.ID, module.ID), admin, fiber.Map{
			"title": fmt.Sprintf("Aula %d", i+1), "videoDuration": 300, "quiz": quizBody(),
		})
		require.Equal(t, fiber.StatusCreated, status, env.Message)
		var lesson idOnly
		decode(t, env.Data, &lesson)
		lessons[i] = lesson.ID
	}

	status, env = e.do(t, "PUT", fmt.Sprintf("/api/courses/%d", course.ID), admin, fiber.Map{"status": "published"})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	return course.ID, module.ID, lessons
}

func TestHealth(t *testing.T) {
	e := setup(t)
	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	e := setup(t)
	token := e.register(t, "Ana Souza", "ana@example.org")

	status, env := e.do(t, "POST", "/api/auth/register", "", fiber.Map{
		"name": "Outra Ana", "email": "ANA@example.org", "password": "segredo123",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.False(t, env.Success)

	status, _ = e.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "ana@example.org", "password": "errada"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = e.do(t, "POST", "/api/auth/register", "", fiber.Map{"name": "X", "email": "not-an-email", "password": "1"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env = e.do(t, "GET", "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me struct {
		Email        string `json:"email"`
		Role         string `json:"role"`
		PasswordHash string `json:"passwordHash"`
	}
	decode(t, env.Data, &me)
	assert.Equal(t, "ana@example.org", me.Email)
	assert.Equal(t, models.RoleStudent, me.Role)
	assert.Empty(t, me.PasswordHash)

	status, _ = e.do(t, "PUT", "/api/users/me", token, fiber.Map{"newPassword": "novasenha", "oldPassword": "errada"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	status, _ = e.do(t, "PUT", "/api/users/me", token, fiber.Map{"name": "Ana S.", "newPassword": "novasenha", "oldPassword": "segredo123"})
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = e.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "ana@example.org", "password": "novasenha"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = e.do(t, "GET", "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = e.do(t, "GET", "/api/users/me", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestDisabledUserIsRejected(t *testing.T) {
	e := setup(t)
	token := e.register(t, "Bruno", "bruno@example.org")
	require.NoError(t, e.db.Model(&models.User{}).Where("email = ?", "bruno@example.org").Update("is_active", false).Error)

	status, _ := e.do(t, "GET", "/api/users/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = e.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "bruno@example.org", "password": "segredo123"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestCourseAdministration(t *testing.T) {
	e := setup(t)
	admin := e.admin(t)
	learner := e.register(t, "Carla", "carla@example.org")

	status, _ := e.do(t, "POST", "/api/courses", learner, fiber.Map{"title": "Nope", "description": "não deveria criar", "category": "x"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := e.do(t, "POST", "/api/courses", admin, fiber.Map{"title": "Rascunho", "description": "Curso ainda em preparação", "category": "ensino"})
	require.Equal(t, fiber.StatusCreated, status)
	var draft idOnly
	decode(t, env.Data, &draft)

	badQuiz := quizBody()[:3]
	status, env = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", draft.ID), admin, fiber.Map{"title": "Aula", "quiz": badQuiz})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Message, "exactly 5 quiz questions")

	courseID, _, _ := e.publishedCourse(t, admin)

	status, _ = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", courseID), admin, fiber.Map{"title": "Aula solta"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, "modular courses take no flat lessons")

	status, _ = e.do(t, "GET", fmt.Sprintf("/api/quiz/%d/default/1/questions", draft.ID), learner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = e.do(t, "GET", "/api/courses", learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []idOnly
	decode(t, env.Data, &list)
	require.Len(t, list, 1, "learners only see published courses")
	assert.Equal(t, courseID, list[0].ID)

	status, env = e.do(t, "GET", "/api/courses?limit=1", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	decode(t, env.Data, &list)
	assert.Len(t, list, 1)

	status, _ = e.do(t, "GET", fmt.Sprintf("/api/courses/%d", draft.ID), learner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = e.do(t, "GET", fmt.Sprintf("/api/courses/%d", courseID), learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var details struct {
		Course struct {
			TotalLessons int `json:"totalLessons"`
			Duration     int `json:"duration"`
		} `json:"course"`
		Progress *struct{} `json:"progress"`
	}
	decode(t, env.Data, &details)
	assert.Equal(t, 2, details.Course.TotalLessons)
	assert.Equal(t, 600, details.Course.Duration)
	assert.Nil(t, details.Progress)

	status, _ = e.do(t, "DELETE", fmt.Sprintf("/api/courses/%d", draft.ID), admin, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = e.do(t, "DELETE", fmt.Sprintf("/api/courses/%d", draft.ID), admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = e.do(t, "GET", "/api/courses/abc", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLearnerJourney(t *testing.T) {
	e := setup(t)
	admin := e.admin(t)
	learner := e.register(t, "Daniel", "daniel@example.org")
	courseID, moduleID, lessons := e.publishedCourse(t, admin)
	lessonPath := func(lessonID uint) string {
		return fmt.Sprintf("/api/progress/%d/modules/%d/lessons/%d", courseID, moduleID, lessonID)
	}
	quizPath := func(lessonID uint) string {
		return fmt.Sprintf("/api/quiz/%d/%d/%d", courseID, moduleID, lessonID)
	}

	var access struct {
		Unlocked bool `json:"unlocked"`
	}
	status, env := e.do(t, "GET", lessonPath(lessons[1])+"/access", learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	decode(t, env.Data, &access)
	assert.False(t, access.Unlocked)

	status, env = e.do(t, "GET", quizPath(lessons[0])+"/questions", learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, string(env.Data), "isCorrect")

	status, _ = e.do(t, "POST", lessonPath(lessons[0])+"/watch-time", learner, fiber.Map{"watchedDuration": 280})
	require.Equal(t, fiber.StatusOK, status)

	status, env = e.do(t, "POST", quizPath(lessons[0])+"/submit", learner, answersBody(3))
	require.Equal(t, fiber.StatusOK, status)
	var graded struct {
		Score    int  `json:"score"`
		Passed   bool `json:"passed"`
		Progress int  `json:"progress"`
	}
	decode(t, env.Data, &graded)
	assert.Equal(t, 60, graded.Score)
	assert.False(t, graded.Passed)

	status, env = e.do(t, "POST", quizPath(lessons[0])+"/submit", learner, answersBody(4))
	require.Equal(t, fiber.StatusOK, status)
	decode(t, env.Data, &graded)
	assert.True(t, graded.Passed)
	assert.Equal(t, 50, graded.Progress)

	status, env = e.do(t, "GET", lessonPath(lessons[1])+"/access", learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	decode(t, env.Data, &access)
	assert.True(t, access.Unlocked)

	status, env = e.do(t, "GET", fmt.Sprintf("/api/quiz/%d/%d/attempts", courseID, lessons[0]), learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var attempts []struct {
		Score int `json:"score"`
	}
	decode(t, env.Data, &attempts)
	require.Len(t, attempts, 2)
	assert.Equal(t, 80, attempts[0].Score)

	status, env = e.do(t, "GET", fmt.Sprintf("/api/quiz/%d/%d/best", courseID, lessons[1]), learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "null", string(env.Data))

	status, _ = e.do(t, "POST", quizPath(lessons[0])+"/submit", learner, fiber.Map{"answers": []fiber.Map{}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = e.do(t, "POST", fmt.Sprintf("/api/certificates/%d/generate", courseID), learner, nil)
	assert.Equal(t, fiber.StatusBadRequest, status, "course not completed yet")

	status, env = e.do(t, "POST", lessonPath(lessons[1])+"/complete", learner, nil)
	require.Equal(t, fiber.StatusOK, status)
	var progress struct {
		Progress  int  `json:"progress"`
		Completed bool `json:"completed"`
	}
	decode(t, env.Data, &progress)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.Completed)

	status, env = e.do(t, "POST", fmt.Sprintf("/api/certificates/%d/generate", courseID), learner, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var cert struct {
		CertificateID  string `json:"certificateId"`
		CertificateURL string `json:"certificateUrl"`
	}
	decode(t, env.Data, &cert)
	assert.Equal(t, "http://localhost:3000/certificates/"+cert.CertificateID, cert.CertificateURL)

	status, env = e.do(t, "GET", "/api/certificates/verify/"+cert.CertificateID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var verified struct {
		StudentName string `json:"studentName"`
		CourseName  string `json:"courseName"`
	}
	decode(t, env.Data, &verified)
	assert.Equal(t, "Daniel", verified.StudentName)
	assert.Equal(t, "Discipulado", verified.CourseName)

	status, env = e.do(t, "GET", fmt.Sprintf("/api/courses/%d/analytics", courseID), admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var analytics struct {
		Enrolled  int `json:"enrolled"`
		Completed int `json:"completed"`
	}
	decode(t, env.Data, &analytics)
	assert.Equal(t, 1, analytics.Enrolled)
	assert.Equal(t, 1, analytics.Completed)

	status, _ = e.do(t, "GET", fmt.Sprintf("/api/courses/%d/analytics", courseID), learner, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestLegacyFlatLessons(t *testing.T) {
	e := setup(t)
	admin := e.admin(t)
	learner := e.register(t, "Elisa", "elisa@example.org")

	status, env := e.do(t, "POST", "/api/courses", admin, fiber.Map{"title": "Legado", "description": "Aulas sem módulos", "category": "ensino"})
	require.Equal(t, fiber.StatusCreated, status)
	var course idOnly
	decode(t, env.Data, &course)

	var lessonIDs []uint
	for i := 0; i < 2; i++ {
		status, env = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/lessons", course.ID), admin, fiber.Map{"title": fmt.Sprintf("Aula %d", i)})
		require.Equal(t, fiber.StatusCreated, status, env.Message)
		var lesson idOnly
		decode(t, env.Data, &lesson)
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	status, _ = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/lessons/1/complete", course.ID), learner, nil)
	assert.Equal(t, fiber.StatusNotFound, status, "draft courses are closed to learners")
	status, env = e.do(t, "PUT", fmt.Sprintf("/api/courses/%d", course.ID), admin, fiber.Map{"status": "published"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/lessons/1/complete", course.ID), learner, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var progress struct {
		Progress         int `json:"progress"`
		CompletedLessons []struct {
			LessonID uint `json:"lessonId"`
			ModuleID uint `json:"moduleId"`
		} `json:"completedLessons"`
	}
	decode(t, env.Data, &progress)
	assert.Equal(t, 50, progress.Progress)
	require.Len(t, progress.CompletedLessons, 1)
	assert.Equal(t, lessonIDs[1], progress.CompletedLessons[0].LessonID)
	assert.Zero(t, progress.CompletedLessons[0].ModuleID)

	status, env = e.do(t, "POST", fmt.Sprintf("/api/progress/%d/modules/default/lessons/%d/complete", course.ID, lessonIDs[0]), learner, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	decode(t, env.Data, &progress)
	assert.Equal(t, 100, progress.Progress)

	status, _ = e.do(t, "POST", fmt.Sprintf("/api/courses/%d/lessons/7/complete", course.ID), learner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestUserAdministration(t *testing.T) {
	e := setup(t)
	admin := e.admin(t)
	learner := e.register(t, "Fábio", "fabio@example.org")

	status, _ := e.do(t, "GET", "/api/users", learner, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = e.do(t, "GET", "/api/users/stats", learner, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env := e.do(t, "POST", "/api/users", admin, fiber.Map{
		"name": "Gabriela", "email": "gabi@example.org", "password": "segredo123", "role": "admin",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var gabi struct {
		ID   uint   `json:"ID"`
		Role string `json:"role"`
	}
	decode(t, env.Data, &gabi)
	assert.Equal(t, models.RoleAdmin, gabi.Role)

	status, _ = e.do(t, "POST", "/api/users", admin, fiber.Map{
		"name": "Gabriela", "email": "gabi@example.org", "password": "segredo123",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	status, _ = e.do(t, "POST", "/api/users", admin, fiber.Map{
		"name": "Heitor", "email": "heitor@example.org", "password": "segredo123", "role": "root",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env = e.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "gabi@example.org", "password": "segredo123"})
	require.Equal(t, fiber.StatusOK, status)
	var session struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &session)
	status, _ = e.do(t, "GET", "/api/users/stats", session.Token, nil)
	assert.Equal(t, fiber.StatusOK, status, "created admins can use admin routes")

	status, env = e.do(t, "GET", "/api/users?role=aluno", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var students []struct {
		ID    uint   `json:"ID"`
		Email string `json:"email"`
	}
	decode(t, env.Data, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "fabio@example.org", students[0].Email)
	var meta struct {
		Total int `json:"total"`
	}
	decode(t, env.Meta, &meta)
	assert.Equal(t, 1, meta.Total)
	fabioID := students[0].ID

	status, env = e.do(t, "GET", fmt.Sprintf("/api/users/%d", fabioID), admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, string(env.Data), "passwordHash")
	status, _ = e.do(t, "GET", "/api/users/9999", admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = e.do(t, "PUT", fmt.Sprintf("/api/users/%d", fabioID), admin, fiber.Map{"phone": "+55 11 99999-0000"})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = e.do(t, "PUT", fmt.Sprintf("/api/users/%d/toggle-status", fabioID), admin, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Equal(t, "User disabled", env.Message)
	status, _ = e.do(t, "GET", "/api/users/me", learner, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status, "disabled accounts lose access at once")
	status, _ = e.do(t, "POST", "/api/auth/login", "", fiber.Map{"email": "fabio@example.org", "password": "segredo123"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = e.do(t, "GET", "/api/users/stats", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats struct {
		TotalUsers    int `json:"totalUsers"`
		TotalAdmins   int `json:"totalAdmins"`
		TotalStudents int `json:"totalStudents"`
		InactiveUsers int `json:"inactiveUsers"`
	}
	decode(t, env.Data, &stats)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.TotalAdmins)
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Equal(t, 1, stats.InactiveUsers)

	status, env = e.do(t, "PUT", fmt.Sprintf("/api/users/%d/toggle-status", fabioID), admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "User enabled", env.Message)
	status, _ = e.do(t, "GET", "/api/users/me", learner, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = e.do(t, "PUT", fmt.Sprintf("/api/users/%d/toggle-status", gabi.ID), session.Token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status, "admins cannot disable themselves")

	status, _ = e.do(t, "DELETE", fmt.Sprintf("/api/users/%d", fabioID), admin, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = e.do(t, "GET", "/api/users/me", learner, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
