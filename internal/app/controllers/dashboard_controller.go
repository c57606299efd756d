package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meritbook/meritbook/internal/app/services"
	"github.com/meritbook/meritbook/internal/middleware"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// DashboardController renders the per-role landing pages after login.
type DashboardController struct {
	reportService services.ReportService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(reportService services.ReportService) *DashboardController {
	return &DashboardController{reportService: reportService}
}

// TeacherDashboard renders the teacher's counters and recent submissions.
func (ctrl *DashboardController) TeacherDashboard(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.TeacherLoginPath)
		return
	}

	stats, err := ctrl.reportService.DashboardStats(c.Request.Context(), identity.ID)
	if err != nil {
		logger.Error().Err(err).Str("teacherID", identity.ID).Msg("Failed to compute dashboard stats")
		c.HTML(http.StatusOK, "teacher_dashboard.html", gin.H{
			"teacher": identity,
			"error":   databaseErrorMessage,
		})
		return
	}

	recent, err := ctrl.reportService.RecentEntries(c.Request.Context(), identity.ID)
	if err != nil {
		logger.Error().Err(err).Str("teacherID", identity.ID).Msg("Failed to list recent entries")
		c.HTML(http.StatusOK, "teacher_dashboard.html", gin.H{
			"teacher": identity,
			"stats":   stats,
			"error":   databaseErrorMessage,
		})
		return
	}

	c.HTML(http.StatusOK, "teacher_dashboard.html", gin.H{
		"teacher": identity,
		"stats":   stats,
		"recent":  recent,
	})
}

// StudentDashboard renders the student landing page.
func (ctrl *DashboardController) StudentDashboard(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.StudentLoginPath)
		return
	}

	c.HTML(http.StatusOK, "student_dashboard.html", gin.H{
		"student": identity,
	})
}

// StudentAchievements renders the student's own achievement history.
func (ctrl *DashboardController) StudentAchievements(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.StudentLoginPath)
		return
	}

	achievements, err := ctrl.reportService.StudentAchievements(c.Request.Context(), identity.ID)
	if err != nil {
		logger.Error().Err(err).Str("studentID", identity.ID).Msg("Failed to list student achievements")
		c.HTML(http.StatusOK, "student_achievements.html", gin.H{
			"student": identity,
			"error":   databaseErrorMessage,
		})
		return
	}

	c.HTML(http.StatusOK, "student_achievements.html", gin.H{
		"student":      identity,
		"achievements": achievements,
	})
}
