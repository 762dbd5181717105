package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/middleware"
	"diaconia/backend/services"
	"diaconia/backend/utils"
)

type ProgressController struct {
	Progress *services.ProgressService
	Access   *services.AccessGate
	Log      *zap.Logger
}

func NewProgressController(progress *services.ProgressService, access *services.AccessGate, log *zap.Logger) *ProgressController {
	return &ProgressController{Progress: progress, Access: access, Log: log}
}

type watchTimeRequest struct {
	WatchedDuration int `json:"watchedDuration"`
}

// GetProgress godoc
// @Summary Get the caller's progress in a course
// @Description Creates an empty record on first access
// @Tags progress
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/{courseId} [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}

	progress, err := pc.Progress.GetProgress(c.UserContext(), middleware.UserID(c), courseID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// CompleteLesson godoc
// @Summary Mark a lesson completed
// @Tags progress
// @Produce json
// @Param courseId path int true "Course ID"
// @Param moduleId path string true "Module ID, or default for the flat lesson list"
// @Param lessonId path int true "Lesson ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/{courseId}/modules/{moduleId}/lessons/{lessonId}/complete [post]
func (pc *ProgressController) CompleteLesson(c *fiber.Ctx) error {
	courseID, moduleID, lessonID, err := lessonRef(c)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}

	progress, err := pc.Progress.CompleteLesson(c.UserContext(), middleware.UserID(c), courseID, moduleID, lessonID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "Lesson completed", progress)
}

func (pc *ProgressController) UpdateWatchTime(c *fiber.Ctx) error {
	courseID, moduleID, lessonID, err := lessonRef(c)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	var input watchTimeRequest
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, pc.Log, err)
	}

	progress, err := pc.Progress.UpdateWatchTime(c.UserContext(), middleware.UserID(c), courseID, moduleID, lessonID, input.WatchedDuration)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// CheckAccess reports whether the caller may open a lesson.
func (pc *ProgressController) CheckAccess(c *fiber.Ctx) error {
	courseID, moduleID, lessonID, err := lessonRef(c)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}

	unlocked, err := pc.Access.IsUnlocked(c.UserContext(), middleware.UserID(c), courseID, moduleID, lessonID)
	if err != nil {
		return utils.HandleError(c, pc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"unlocked": unlocked})
}
