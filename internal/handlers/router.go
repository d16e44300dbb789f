package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP API is built on.
type Dependencies struct {
	Sessions    *services.SessionService
	Catalog     services.CatalogService
	Results     services.ResultService
	Export      services.ExportService
	Preferences services.PreferencesService
	Validator   *validator.Validator
}

type HandlerManager struct {
	examHandler        *ExamHandler
	sessionHandler     *SessionHandler
	timerStream        *TimerStream
	resultHandler      *ResultHandler
	preferencesHandler *PreferencesHandler
	defaultUserID      string
}

func NewHandlerManager(deps Dependencies, defaultUserID string, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		examHandler:        NewExamHandler(deps.Catalog, logger),
		sessionHandler:     NewSessionHandler(deps.Sessions, deps.Validator, logger),
		timerStream:        NewTimerStream(deps.Sessions, logger),
		resultHandler:      NewResultHandler(deps.Results, deps.Export, logger),
		preferencesHandler: NewPreferencesHandler(deps.Preferences, logger),
		defaultUserID:      defaultUserID,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(UserIdentity(hm.defaultUserID))
	{
		exams := v1.Group("/exams")
		{
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.GET("/:id/questions", hm.examHandler.GetExamQuestions)
			exams.GET("/:id/results", hm.resultHandler.ListExamResults)

			// Entering an exam
			exams.POST("/:id/session", hm.sessionHandler.Enter)
			exams.POST("/:id/session/resume", hm.sessionHandler.Resume)
			exams.POST("/:id/session/restart", hm.sessionHandler.Restart)
		}

		session := v1.Group("/session")
		{
			session.GET("", hm.sessionHandler.GetSession)
			session.GET("/saved", hm.sessionHandler.SavedSessions)
			session.PUT("/answer", hm.sessionHandler.SetAnswer)
			session.POST("/next", hm.sessionHandler.Next)
			session.POST("/previous", hm.sessionHandler.Previous)
			session.POST("/goto", hm.sessionHandler.GoTo)
			session.POST("/save-for-later", hm.sessionHandler.SaveForLater)
			session.POST("/interrupt", hm.sessionHandler.Interrupt)
			session.POST("/submit", hm.sessionHandler.Submit)
			session.GET("/timer/ws", hm.timerStream.Serve)
		}

		v1.GET("/results/:id", hm.resultHandler.GetResult)

		users := v1.Group("/users/:user_id")
		{
			users.GET("/results", hm.resultHandler.ListUserResults)
			users.GET("/results/export", hm.resultHandler.ExportResults)
			users.GET("/history", hm.resultHandler.GetHistory)
			users.GET("/statistics", hm.resultHandler.GetStatistics)
		}

		v1.GET("/preferences", hm.preferencesHandler.GetPreferences)
		v1.PUT("/preferences", hm.preferencesHandler.UpdatePreferences)
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-session-service",
	})
}
