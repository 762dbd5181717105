package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/services"
	"diaconia/backend/utils"
)

type AuthController struct {
	Auth *services.AuthService
	Log  *zap.Logger
}

func NewAuthController(auth *services.AuthService, log *zap.Logger) *AuthController {
	return &AuthController{Auth: auth, Log: log}
}

// Register godoc
// @Summary Register a new learner
// @Tags auth
// @Accept json
// @Produce json
// @Param user body services.RegisterInput true "Registration data"
// @Success 201 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, ac.Log, err)
	}

	session, err := ac.Auth.Register(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Created(c, session)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginInput true "Login credentials"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return utils.HandleError(c, ac.Log, err)
	}

	session, err := ac.Auth.Login(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, ac.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, session)
}
