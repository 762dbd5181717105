package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/errs"
)

// SuccessResponse is the envelope of every successful answer.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Pages    int64 `json:"pages"`
}

func Success(c *fiber.Ctx, status int, data interface{}, meta ...interface{}) error {
	response := SuccessResponse{
		Success: true,
		Data:    data,
	}

	if len(meta) > 0 {
		response.Meta = meta[0]
	}

	return c.Status(status).JSON(response)
}

// Message answers with a plain message and optional data.
func Message(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(c *fiber.Ctx, status int, err error, details ...interface{}) error {
	response := ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	}

	if len(details) > 0 {
		response.Details = details[0]
	}

	return c.Status(status).JSON(response)
}

func Paginate(c *fiber.Ctx, data interface{}, total int64, page int, pageSize int) error {
	pages := int64(0)
	if pageSize > 0 {
		pages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Success(c, fiber.StatusOK, data, PageMeta{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, message))
}

// HandleError maps a service error onto its HTTP status. Unknown errors are logged and
// answered with a generic 500.
func HandleError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		if len(validationErr.Fields) > 0 {
			return Error(c, fiber.StatusUnprocessableEntity, validationErr, validationErr.Fields)
		}
		return Error(c, fiber.StatusBadRequest, validationErr)
	case errors.As(err, &notFoundErr):
		return Error(c, fiber.StatusNotFound, notFoundErr)
	case errors.Is(err, errs.ErrNotFound):
		return Error(c, fiber.StatusNotFound, errs.ErrNotFound)
	case errors.Is(err, errs.ErrUnauthenticated):
		return Error(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, errs.ErrForbidden):
		return Error(c, fiber.StatusForbidden, err)
	case errors.Is(err, errs.ErrConflict):
		return Error(c, fiber.StatusConflict, errors.New("the record was changed by another request, reload and try again"))
	case errors.As(err, &fiberErr):
		return Error(c, fiberErr.Code, fiberErr)
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return Error(c, fiber.StatusInternalServerError, errors.New("internal server error"))
}
