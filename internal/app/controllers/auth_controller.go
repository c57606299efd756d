package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/app/services"
	"github.com/meritbook/meritbook/internal/middleware"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// invalidCredentialsMessage is shared by every login failure. Unknown
// identifier and wrong password must render identically.
const invalidCredentialsMessage = "Invalid credentials. Please try again."

const databaseErrorMessage = "Database error. Please try again later."

// AuthController serves the login and registration pages for both roles.
type AuthController struct {
	authService services.AuthService
	firebase    dto.FirebaseConfigResponse
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, firebase dto.FirebaseConfigResponse) *AuthController {
	return &AuthController{
		authService: authService,
		firebase:    firebase,
	}
}

// Home renders the landing page
func (ctrl *AuthController) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

// StudentLoginPage renders the student login form
func (ctrl *AuthController) StudentLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "student.html", gin.H{"firebase": ctrl.firebase})
}

// StudentLogin verifies student credentials and establishes a session
func (ctrl *AuthController) StudentLogin(c *gin.Context) {
	var req dto.StudentLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		ctrl.renderStudentLoginError(c, invalidCredentialsMessage)
		return
	}

	student, err := ctrl.authService.VerifyStudent(c.Request.Context(), req.StudentID, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			ctrl.renderStudentLoginError(c, invalidCredentialsMessage)
			return
		}
		logger.Error().Err(err).Msg("Student login failed")
		ctrl.renderStudentLoginError(c, databaseErrorMessage)
		return
	}

	if err := middleware.EstablishSession(c, middleware.Identity{
		Role:       models.RoleStudent,
		ID:         student.StudentID,
		Name:       student.StudentName,
		Department: student.Department,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to establish student session")
		ctrl.renderStudentLoginError(c, databaseErrorMessage)
		return
	}

	c.Redirect(http.StatusFound, "/student-dashboard")
}

func (ctrl *AuthController) renderStudentLoginError(c *gin.Context, message string) {
	c.HTML(http.StatusOK, "student.html", gin.H{
		"error":    message,
		"firebase": ctrl.firebase,
	})
}

// TeacherLoginPage renders the teacher login form
func (ctrl *AuthController) TeacherLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "teacher.html", nil)
}

// TeacherLogin verifies teacher credentials and establishes a session
func (ctrl *AuthController) TeacherLogin(c *gin.Context) {
	var req dto.TeacherLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "teacher.html", gin.H{"error": invalidCredentialsMessage})
		return
	}

	teacher, err := ctrl.authService.VerifyTeacher(c.Request.Context(), req.TeacherID, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.HTML(http.StatusOK, "teacher.html", gin.H{"error": invalidCredentialsMessage})
			return
		}
		logger.Error().Err(err).Msg("Teacher login failed")
		c.HTML(http.StatusOK, "teacher.html", gin.H{"error": databaseErrorMessage})
		return
	}

	if err := middleware.EstablishSession(c, middleware.Identity{
		Role:       models.RoleTeacher,
		ID:         teacher.TeacherID,
		Name:       teacher.TeacherName,
		Department: teacher.Department,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to establish teacher session")
		c.HTML(http.StatusOK, "teacher.html", gin.H{"error": databaseErrorMessage})
		return
	}

	c.Redirect(http.StatusFound, "/teacher-dashboard")
}

// StudentRegisterPage renders the student registration form
func (ctrl *AuthController) StudentRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "student_new.html", gin.H{"firebase": ctrl.firebase})
}

// StudentRegister creates a student account from the registration form
func (ctrl *AuthController) StudentRegister(c *gin.Context) {
	var req dto.StudentRegistration
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "student_new.html", gin.H{
			"error":    "Please fill in all required fields correctly.",
			"firebase": ctrl.firebase,
		})
		return
	}

	if err := ctrl.authService.RegisterStudent(c.Request.Context(), req); err != nil {
		c.HTML(http.StatusOK, "student_new.html", gin.H{
			"error":    registrationErrorMessage(err),
			"firebase": ctrl.firebase,
		})
		return
	}

	c.Redirect(http.StatusFound, middleware.StudentLoginPath)
}

// TeacherRegisterPage renders the teacher registration form
func (ctrl *AuthController) TeacherRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "teacher_new.html", nil)
}

// TeacherRegister creates a teacher account, gated by the registration code
func (ctrl *AuthController) TeacherRegister(c *gin.Context) {
	var req dto.TeacherRegistration
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "teacher_new.html", gin.H{
			"error": "Please fill in all required fields correctly.",
		})
		return
	}

	if err := ctrl.authService.RegisterTeacher(c.Request.Context(), req); err != nil {
		if errors.Is(err, apperrors.ErrInvalidRegistrationCode) {
			c.HTML(http.StatusOK, "teacher_new.html", gin.H{
				"error": "Invalid Teacher Code. Registration denied.",
			})
			return
		}
		c.HTML(http.StatusOK, "teacher_new.html", gin.H{
			"error": registrationErrorMessage(err),
		})
		return
	}

	c.Redirect(http.StatusFound, middleware.TeacherLoginPath)
}

// registrationErrorMessage maps registration failures to user-visible text.
func registrationErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrStudentIDExists):
		return "This student ID is already registered."
	case errors.Is(err, apperrors.ErrTeacherIDExists):
		return "This teacher ID is already registered."
	case errors.Is(err, apperrors.ErrEmailExists):
		return "This email is already registered."
	default:
		logger.Error().Err(err).Msg("Registration failed")
		return databaseErrorMessage
	}
}
