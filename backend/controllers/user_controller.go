package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/middleware"
	"diaconia/backend/services"
	"diaconia/backend/store"
	"diaconia/backend/utils"
)

type UserController struct {
	Auth  *services.AuthService
	Users *services.UserService
	Log   *zap.Logger
}

func NewUserController(auth *services.AuthService, users *services.UserService, log *zap.Logger) *UserController {
	return &UserController{Auth: auth, Users: users, Log: log}
}

// GetProfile godoc
// @Summary Get user profile
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/me [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, err := uc.Auth.Profile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Changes name, phone or avatar; changing the password requires oldPassword
// @Tags users
// @Accept json
// @Produce json
// @Param request body services.ProfileUpdate true "Profile fields"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/me [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var input services.ProfileUpdate
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	user, err := uc.Auth.UpdateProfile(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "Profile updated", user)
}

// CreateUser godoc
// @Summary Create a user
// @Description Admins create learner or admin accounts; role defaults to aluno
// @Tags users
// @Accept json
// @Produce json
// @Param request body services.UserInput true "Account"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users [post]
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var input services.UserInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	user, err := uc.Users.Create(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Created(c, user)
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Role"
// @Param search query string false "Search in name and email"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /users [get]
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	filter := store.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		filter.Limit = 20
	}

	users, total, err := uc.Users.List(c.UserContext(), filter)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Paginate(c, users, total, filter.Page, filter.Limit)
}

// GetUserStats godoc
// @Summary Account counts by role and status
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/stats [get]
func (uc *UserController) GetUserStats(c *fiber.Ctx) error {
	stats, err := uc.Users.Stats(c.UserContext())
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	user, err := uc.Users.Get(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body services.UserUpdate true "Fields to change"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	var input services.UserUpdate
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	user, err := uc.Users.Update(c.UserContext(), middleware.UserID(c), id, input)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "User updated", user)
}

// ToggleUserStatus godoc
// @Summary Enable or disable a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/{id}/toggle-status [put]
func (uc *UserController) ToggleUserStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	user, err := uc.Users.ToggleStatus(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	message := "User disabled"
	if user.IsActive {
		message = "User enabled"
	}
	return utils.Message(c, fiber.StatusOK, message, user)
}

func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, uc.Log, err)
	}

	if err := uc.Users.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return utils.HandleError(c, uc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "User deleted", nil)
}
