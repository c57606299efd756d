package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meritbook/meritbook/internal/app/controllers"
	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/middleware"
)

// Controllers bundles everything the router needs.
type Controllers struct {
	Auth        *controllers.AuthController
	Achievement *controllers.AchievementController
	Dashboard   *controllers.DashboardController
	Federated   *controllers.FederatedController
}

// Register wires every route onto the engine.
func Register(router *gin.Engine, c Controllers) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public pages
	router.GET("/", c.Auth.Home)
	router.GET("/student", c.Auth.StudentLoginPage)
	router.POST("/student", c.Auth.StudentLogin)
	router.GET("/teacher", c.Auth.TeacherLoginPage)
	router.POST("/teacher", c.Auth.TeacherLogin)
	router.GET("/student-new", c.Auth.StudentRegisterPage)
	router.POST("/student-new", c.Auth.StudentRegister)
	router.GET("/teacher-new", c.Auth.TeacherRegisterPage)
	router.POST("/teacher-new", c.Auth.TeacherRegister)

	// Static page shell; the submission form itself posts to a guarded route.
	router.GET("/teacher-achievements", c.Achievement.SubmissionPage)

	// Federated login API
	auth := router.Group("/auth")
	{
		auth.GET("/firebase-config", c.Federated.FirebaseConfig)
		auth.POST("/google-login", c.Federated.GoogleLogin)
		auth.POST("/logout", c.Federated.Logout)
	}

	// Teacher-only pages
	teacher := router.Group("/", middleware.RequireRole(models.RoleTeacher))
	{
		teacher.GET("/teacher-dashboard", c.Dashboard.TeacherDashboard)
		teacher.GET("/submit_achievements", c.Achievement.SubmitRedirect)
		teacher.POST("/submit_achievements", c.Achievement.Submit)
		teacher.GET("/all-achievements", c.Achievement.AllAchievements)
	}

	// Student-only pages
	student := router.Group("/", middleware.RequireRole(models.RoleStudent))
	{
		student.GET("/student-dashboard", c.Dashboard.StudentDashboard)
		student.GET("/student-achievements", c.Dashboard.StudentAchievements)
	}
}
