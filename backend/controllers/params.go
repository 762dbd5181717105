package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"diaconia/backend/errs"
	"diaconia/backend/services"
)

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validationf("invalid %s %q", name, c.Params(name))
	}
	return uint(id), nil
}

// lessonRef reads the :courseId, :moduleId and :lessonId parameters shared by the learner routes.
func lessonRef(c *fiber.Ctx) (courseID, moduleID, lessonID uint, err error) {
	if courseID, err = paramID(c, "courseId"); err != nil {
		return
	}
	if moduleID, err = services.ParseModuleID(c.Params("moduleId")); err != nil {
		return
	}
	lessonID, err = paramID(c, "lessonId")
	return
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errs.Validation("cannot parse JSON")
	}
	return nil
}
