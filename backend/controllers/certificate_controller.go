package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"diaconia/backend/middleware"
	"diaconia/backend/services"
	"diaconia/backend/utils"
)

type CertificateController struct {
	Certificates *services.CertificateService
	Log          *zap.Logger
}

func NewCertificateController(certificates *services.CertificateService, log *zap.Logger) *CertificateController {
	return &CertificateController{Certificates: certificates, Log: log}
}

// Generate godoc
// @Summary Issue the caller's certificate for a completed course
// @Tags certificates
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /certificates/{courseId}/generate [post]
func (cc *CertificateController) Generate(c *fiber.Ctx) error {
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}

	cert, err := cc.Certificates.Issue(c.UserContext(), middleware.UserID(c), courseID)
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Message(c, fiber.StatusOK, "Certificate generated", cert)
}

// Verify is public: anyone holding a certificate id may check it.
func (cc *CertificateController) Verify(c *fiber.Ctx) error {
	cert, err := cc.Certificates.Verify(c.UserContext(), c.Params("certificateId"))
	if err != nil {
		return utils.HandleError(c, cc.Log, err)
	}
	return utils.Success(c, fiber.StatusOK, cert)
}
