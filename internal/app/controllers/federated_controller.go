package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/app/services"
	"github.com/meritbook/meritbook/internal/middleware"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// FederatedController serves the JSON endpoints backing the Google sign-in
// widget and the logout button.
type FederatedController struct {
	federatedService services.FederatedService
	firebase         dto.FirebaseConfigResponse
}

// NewFederatedController creates a new FederatedController
func NewFederatedController(federatedService services.FederatedService, firebase dto.FirebaseConfigResponse) *FederatedController {
	return &FederatedController{
		federatedService: federatedService,
		firebase:         firebase,
	}
}

// FirebaseConfig exposes the client-side provider configuration.
func (ctrl *FederatedController) FirebaseConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.firebase)
}

// GoogleLogin resolves a provider-asserted identity to an existing student
// account and establishes a session for it. Unknown emails get 404 and no
// account is created.
func (ctrl *FederatedController) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.FederatedLoginResponse{
			Success: false,
			Message: "Invalid login request",
		})
		return
	}

	student, err := ctrl.federatedService.LoginWithGoogle(c.Request.Context(), req)
	if err != nil {
		var customErr *apperrors.CustomError
		switch {
		case errors.Is(err, apperrors.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, dto.FederatedLoginResponse{
				Success: false,
				Message: fmt.Sprintf("No student account found for %s. Please register first.", req.Email),
			})
		case errors.As(err, &customErr) && errors.Is(err, apperrors.ErrValidationFailed):
			c.JSON(http.StatusBadRequest, dto.FederatedLoginResponse{
				Success: false,
				Message: customErr.Message,
			})
		default:
			logger.Error().Err(err).Msg("Federated login failed")
			c.JSON(http.StatusInternalServerError, dto.FederatedLoginResponse{
				Success: false,
				Message: "Login error. Please try again later.",
			})
		}
		return
	}

	if err := middleware.EstablishSession(c, middleware.Identity{
		Role:       models.RoleStudent,
		ID:         student.StudentID,
		Name:       student.StudentName,
		Department: student.Department,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to establish federated session")
		c.JSON(http.StatusInternalServerError, dto.FederatedLoginResponse{
			Success: false,
			Message: "Login error. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, dto.FederatedLoginResponse{
		Success:     true,
		Message:     "Student logged in successfully",
		RedirectURL: "/student-dashboard",
	})
}

// Logout drops whatever session the caller has. Logging out while already
// logged out still succeeds.
func (ctrl *FederatedController) Logout(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		logger.Error().Err(err).Msg("Failed to clear session")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Logout error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
