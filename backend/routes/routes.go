package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diaconia/backend/config"
	"diaconia/backend/controllers"
	"diaconia/backend/middleware"
	"diaconia/backend/services"
	"diaconia/backend/store"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	// Stores
	courseStore := store.NewCourseStore(db)
	progressStore := store.NewProgressStore(db)
	attemptStore := store.NewAttemptStore(db)
	userStore := store.NewUserStore(db)

	// Services
	authService := services.NewAuthService(userStore, cfg, log)
	userService := services.NewUserService(userStore, log)
	quizService := services.NewQuizService(courseStore, attemptStore)
	progressService := services.NewProgressService(courseStore, progressStore, quizService, log)
	accessGate := services.NewAccessGate(courseStore, progressStore)
	courseService := services.NewCourseService(courseStore, progressStore, userStore, log)
	certificateService := services.NewCertificateService(progressService, userStore, cfg.FrontendURL)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	authController := controllers.NewAuthController(authService, log)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg, userStore, log)
	adminMiddleware := middleware.AdminMiddleware(log)

	// User routes
	userController := controllers.NewUserController(authService, userService, log)
	users := app.Group("/api/users", authMiddleware)
	users.Get("/me", userController.GetProfile)
	users.Put("/me", userController.UpdateProfile)

	// Admin routes for users
	users.Post("/", adminMiddleware, userController.CreateUser)
	users.Get("/", adminMiddleware, userController.GetUsers)
	users.Get("/stats", adminMiddleware, userController.GetUserStats)
	users.Get("/:id", adminMiddleware, userController.GetUser)
	users.Put("/:id", adminMiddleware, userController.UpdateUser)
	users.Delete("/:id", adminMiddleware, userController.DeleteUser)
	users.Put("/:id/toggle-status", adminMiddleware, userController.ToggleUserStatus)

	// Courses routes
	coursesController := controllers.NewCoursesController(courseService, progressService, log)
	analyticsController := controllers.NewAnalyticsController(courseService, log)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/:id/lessons/:lessonIndex/complete", coursesController.CompleteLessonByIndex)

	// Admin routes for courses
	courses.Post("/", adminMiddleware, coursesController.CreateCourse)
	courses.Put("/:id", adminMiddleware, coursesController.UpdateCourse)
	courses.Delete("/:id", adminMiddleware, coursesController.DeleteCourse)
	courses.Post("/:id/modules", adminMiddleware, coursesController.AddModule)
	courses.Post("/:id/modules/:moduleId/lessons", adminMiddleware, coursesController.AddLesson)
	courses.Post("/:id/lessons", adminMiddleware, coursesController.AddLesson)
	courses.Put("/:id/lessons/:lessonId", adminMiddleware, coursesController.UpdateLesson)
	courses.Get("/:id/analytics", adminMiddleware, analyticsController.GetCourseAnalytics)

	// Progress routes
	progressController := controllers.NewProgressController(progressService, accessGate, log)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Get("/:courseId", progressController.GetProgress)
	lesson := progress.Group("/:courseId/modules/:moduleId/lessons/:lessonId")
	lesson.Post("/complete", progressController.CompleteLesson)
	lesson.Post("/watch-time", progressController.UpdateWatchTime)
	lesson.Get("/access", progressController.CheckAccess)

	// Quiz routes
	quizController := controllers.NewQuizController(quizService, progressService, log)
	quiz := app.Group("/api/quiz", authMiddleware)
	quiz.Get("/:courseId/:moduleId/:lessonId/questions", quizController.GetQuestions)
	quiz.Post("/:courseId/:moduleId/:lessonId/submit", quizController.SubmitQuiz)
	quiz.Get("/:courseId/:lessonId/attempts", quizController.GetAttempts)
	quiz.Get("/:courseId/:lessonId/best", quizController.GetBestAttempt)

	// Certificate routes
	certificateController := controllers.NewCertificateController(certificateService, log)
	app.Post("/api/certificates/:courseId/generate", authMiddleware, certificateController.Generate)
	app.Get("/api/certificates/verify/:certificateId", certificateController.Verify)
}
