package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/middleware"
	"diaconia/backend/models"
	"diaconia/backend/services"
	"diaconia/backend/utils"
)

type QuizController struct {
	Quiz     *services.QuizService
	Progress *services.ProgressService
	Log      *zap.Logger
}

func NewQuizController(quiz *services.QuizService, progress *services.ProgressService, log *zap.Logger) *QuizController {
	return &QuizController{Quiz: quiz, Progress: progress, Log: log}
}

type submitQuizRequest struct {
	Answers []models.QuizAnswer `json:"answers"`
}

// GetQuestions godoc
// @Summary Quiz questions of a lesson, without the answer key
// @Tags quiz
// @Produce json
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID, or default for the flat lesson list"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/{courseId}/{moduleId}/{lessonId}/questions [get]
func (qc *QuizController) GetQuestions(c *fiber.Ctx) error {
	courseID, moduleID, lessonID, err := lessonRef(c)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}

	questions, err := qc.Quiz.Questions(c.UserContext(), courseID, moduleID, lessonID)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	policy := qc.Quiz.Policy()
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"questions":      questions,
		"totalQuestions": policy.QuestionsPerQuiz,
		"passingScore":   policy.PassScore,
	})
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Grades the answers, stores the attempt and updates the lesson progress
// @Tags quiz
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID, or default for the flat lesson list"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/{courseId}/{moduleId}/{lessonId}/submit [post]
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	courseID, moduleID, lessonID, err := lessonRef(c)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	var input submitQuizRequest
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, qc.Log, err)
	}

	result, err := qc.Progress.SubmitQuiz(c.UserContext(), middleware.UserID(c), courseID, moduleID, lessonID, input.Answers)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}

	return utils.Message(c, fiber.StatusOK, result.Message, fiber.Map{
		"attempt":         result.Attempt,
		"score":           result.Attempt.Score,
		"correctAnswers":  result.Attempt.CorrectAnswers,
		"totalQuestions":  result.Attempt.TotalQuestions,
		"passed":          result.Attempt.Passed,
		"results":         result.Attempt.Results,
		"progress":        result.Progress.Progress,
		"courseCompleted": result.Progress.Completed,
	})
}

func (qc *QuizController) GetAttempts(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}

	attempts, err := qc.Quiz.Attempts(c.UserContext(), middleware.UserID(c), courseID, lessonID)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, attempts)
}

// GetBestAttempt answers with data null when the caller never attempted the quiz.
func (qc *QuizController) GetBestAttempt(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}

	best, err := qc.Quiz.BestAttempt(c.UserContext(), middleware.UserID(c), courseID, lessonID)
	if err != nil {
		return utils.HandleError(c, qc.Log, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": best})
}
