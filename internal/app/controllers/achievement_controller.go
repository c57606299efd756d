package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/app/services"
	"github.com/meritbook/meritbook/internal/middleware"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// AchievementController handles the submission flow and the full listing page.
type AchievementController struct {
	achievementService services.AchievementService
	reportService      services.ReportService
	maxUploadSize      int64
}

// NewAchievementController creates a new AchievementController
func NewAchievementController(achievementService services.AchievementService, reportService services.ReportService, maxUploadSize int64) *AchievementController {
	return &AchievementController{
		achievementService: achievementService,
		reportService:      reportService,
		maxUploadSize:      maxUploadSize,
	}
}

// SubmissionPage renders the achievement submission form.
func (ctrl *AchievementController) SubmissionPage(c *gin.Context) {
	c.HTML(http.StatusOK, "teacher_achievements.html", nil)
}

// SubmitRedirect answers GET on the submission endpoint, which only accepts
// POST, by sending the browser back to the dashboard.
func (ctrl *AchievementController) SubmitRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/teacher-dashboard")
}

// Submit handles a posted achievement form, including the optional
// certificate upload.
func (ctrl *AchievementController) Submit(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.TeacherLoginPath)
		return
	}

	// Cap the whole multipart body; the storage layer re-checks the declared
	// file size, this guards against oversized requests up front.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.maxUploadSize+1<<20)

	var req dto.SubmitAchievementRequest
	if err := c.ShouldBind(&req); err != nil {
		ctrl.renderSubmitError(c, "Please fill in all required fields correctly.")
		return
	}

	certificate := certificateFile(c)

	result, err := ctrl.achievementService.Submit(c.Request.Context(), identity.ID, req, certificate)
	if err != nil {
		ctrl.renderSubmitError(c, submitErrorMessage(err))
		return
	}

	c.HTML(http.StatusOK, "submit_achievements.html", gin.H{
		"success": result.Message,
	})
}

// AllAchievements renders every record the logged-in teacher has submitted.
func (ctrl *AchievementController) AllAchievements(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.TeacherLoginPath)
		return
	}

	achievements, err := ctrl.reportService.AllAchievements(c.Request.Context(), identity.ID)
	if err != nil {
		logger.Error().Err(err).Str("teacherID", identity.ID).Msg("Failed to list achievements")
		c.HTML(http.StatusOK, "all_achievements.html", gin.H{
			"teacher": identity,
			"error":   databaseErrorMessage,
		})
		return
	}

	c.HTML(http.StatusOK, "all_achievements.html", gin.H{
		"teacher":      identity,
		"achievements": achievements,
	})
}

func (ctrl *AchievementController) renderSubmitError(c *gin.Context, message string) {
	c.HTML(http.StatusOK, "submit_achievements.html", gin.H{"error": message})
}

// certificateFile returns the uploaded certificate, or nil when the form
// posted none. A missing file is not an error.
func certificateFile(c *gin.Context) *multipart.FileHeader {
	file, err := c.FormFile("certificate")
	if err != nil {
		return nil
	}
	return file
}

// submitErrorMessage maps submission failures to the text shown on the form.
func submitErrorMessage(err error) string {
	var customErr *apperrors.CustomError
	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return "Student ID does not exist in the system."
	case errors.Is(err, apperrors.ErrFileTypeNotAllowed):
		return "Invalid file type. Please upload PDF, PNG, JPG, or JPEG files."
	case errors.Is(err, apperrors.ErrFileTooLarge):
		return "The uploaded file is too large."
	case errors.Is(err, apperrors.ErrUnsafeFilename):
		return "Invalid file name."
	case errors.As(err, &customErr) && errors.Is(err, apperrors.ErrValidationFailed):
		return customErr.Message
	default:
		logger.Error().Err(err).Msg("Achievement submission failed")
		return databaseErrorMessage
	}
}
