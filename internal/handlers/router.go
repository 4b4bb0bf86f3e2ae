package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prep-ai/interview-service/internal/realtime"
	"github.com/prep-ai/interview-service/internal/repositories"
	"github.com/prep-ai/interview-service/internal/services"
	"github.com/prep-ai/interview-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	interviewHandler *InterviewHandler
	sessionHandler   *SessionHandler
	realtimeHandler  *RealtimeHandler
	healthHandler    *HealthHandler
	authMiddleware   *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	repo repositories.Repository,
	hub *realtime.Hub,
	logger utils.Logger,
	allowedOrigin string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		interviewHandler: NewInterviewHandler(serviceManager.Interview(), logger),
		sessionHandler:   NewSessionHandler(serviceManager.Session(), logger),
		realtimeHandler:  NewRealtimeHandler(hub, serviceManager.Session(), logger, allowedOrigin),
		healthHandler:    NewHealthHandler(repo, logger),
		authMiddleware:   NewAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.Liveness)

	api := router.Group("/api")
	{
		api.GET("/health", hm.healthHandler.Readiness)

		auth := api.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/verify", hm.authMiddleware.RequireAuth(), hm.authHandler.Verify)
		}

		interviews := api.Group("/interviews")
		interviews.Use(hm.authMiddleware.RequireAuth())
		{
			interviews.POST("/generate-questions", hm.interviewHandler.GenerateQuestions)
			interviews.POST("/generate-feedback", hm.interviewHandler.GenerateFeedback)
		}

		sessions := api.Group("/sessions")
		sessions.Use(hm.authMiddleware.RequireAuth())
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/stats", hm.sessionHandler.GetStats)
			sessions.GET("/export", hm.sessionHandler.ExportHistory)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.PUT("/:id", hm.sessionHandler.UpdateSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
		}
	}

	ws := router.Group("/ws")
	ws.Use(hm.authMiddleware.RequireAuth())
	{
		ws.GET("/sessions/:id", hm.realtimeHandler.JoinSession)
	}
}
