package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/services"
	"diaconia/backend/utils"
)

type AnalyticsController struct {
	Courses *services.CourseService
	Log     *zap.Logger
}

func NewAnalyticsController(courses *services.CourseService, log *zap.Logger) *AnalyticsController {
	return &AnalyticsController{Courses: courses, Log: log}
}

// GetCourseAnalytics returns every learner's progress through a course, plus totals.
func (ac *AnalyticsController) GetCourseAnalytics(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}

	learners, err := ac.Courses.Analytics(c.UserContext(), courseID)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}

	completed, sum := 0, 0
	for _, l := range learners {
		sum += l.Progress
		if l.Completed {
			completed++
		}
	}
	average := 0
	if len(learners) > 0 {
		average = services.Percentage(sum, len(learners)*100)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"courseId":        courseID,
		"enrolled":        len(learners),
		"completed":       completed,
		"averageProgress": average,
		"learners":        learners,
	})
}
