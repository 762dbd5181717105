package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/errs"
	"diaconia/backend/middleware"
	"diaconia/backend/services"
	"diaconia/backend/store"
	"diaconia/backend/utils"
)

const maxPageSize = 100

type CoursesController struct {
	Courses  *services.CourseService
	Progress *services.ProgressService
	Log      *zap.Logger
}

func NewCoursesController(courses *services.CourseService, progress *services.ProgressService, log *zap.Logger) *CoursesController {
	return &CoursesController{Courses: courses, Progress: progress, Log: log}
}

// GetCourses godoc
// @Summary List courses
// @Description Learners only see published courses
// @Tags courses
// @Produce json
// @Param search query string false "Search in title and description"
// @Param category query string false "Category"
// @Param status query string false "Status, admins only"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /courses [get]
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	filter := store.CourseFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		filter.Limit = 10
	}

	courses, total, err := cc.Courses.List(c.UserContext(), middleware.IsAdmin(c), filter)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Paginate(c, courses, total, filter.Page, filter.Limit)
}

// GetCourseDetails godoc
// @Summary Course tree with the caller's progress
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	course, err := cc.Courses.Get(c.UserContext(), courseID, middleware.IsAdmin(c))
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	progress, err := cc.Progress.Peek(c.UserContext(), middleware.UserID(c), courseID)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course":   course,
		"progress": progress,
	})
}

// CreateCourse godoc
// @Summary Create a course (admin)
// @Tags courses
// @Accept json
// @Produce json
// @Param course body services.CourseInput true "Course"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input services.CourseInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	course, err := cc.Courses.Create(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Created(c, course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	var input services.CourseUpdate
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	course, err := cc.Courses.Update(c.UserContext(), courseID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, course)
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	if err := cc.Courses.Delete(c.UserContext(), courseID); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "Course deleted", nil)
}

func (cc *CoursesController) AddModule(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	var input services.ModuleInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	module, err := cc.Courses.AddModule(c.UserContext(), courseID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Created(c, module)
}

// AddLesson godoc
// @Summary Add a lesson to a module, or to the flat lesson list when no moduleId is given (admin)
// @Description A quiz, when present, needs exactly 5 questions with 4 options and one correct option each
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param moduleId path int false "Module ID"
// @Param lesson body services.LessonInput true "Lesson"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/modules/{moduleId}/lessons [post]
func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	moduleID, err := services.ParseModuleID(c.Params("moduleId"))
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	var input services.LessonInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	lesson, err := cc.Courses.AddLesson(c.UserContext(), courseID, moduleID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Created(c, lesson)
}

func (cc *CoursesController) UpdateLesson(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	lessonID, err := paramID(c, "lessonId")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	var input services.LessonUpdate
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	lesson, err := cc.Courses.UpdateLesson(c.UserContext(), courseID, lessonID, input)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, lesson)
}

// CompleteLessonByIndex completes a lesson addressed by its index in the flat lesson list.
// Clients built against the old array-index API still call it.
func (cc *CoursesController) CompleteLessonByIndex(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	index, err := strconv.Atoi(c.Params("lessonIndex"))
	if err != nil {
		return utils.HandleError(c, cc.Log, errs.Validationf("invalid lesson index %q", c.Params("lessonIndex")))
	}

	progress, err := cc.Progress.CompleteLessonAt(c.UserContext(), middleware.UserID(c), courseID, index)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "Lesson completed", progress)
}
