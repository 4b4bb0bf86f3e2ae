package services

import (
	"context"

	"github.com/prep-ai/interview-service/internal/models"
	"github.com/prep-ai/interview-service/internal/repositories"
	"github.com/prep-ai/interview-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request DTOs live with the validator so custom rules stay in one place.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type GenerateQuestionsRequest = validator.GenerateQuestionsRequest
type GenerateFeedbackRequest = validator.GenerateFeedbackRequest
type CreateSessionRequest = validator.CreateSessionRequest
type UpdateSessionRequest = validator.UpdateSessionRequest
type SubmitAnswerRequest = validator.SubmitAnswerRequest

type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type GenerateQuestionsResponse struct {
	Success   bool              `json:"success"`
	Questions []models.Question `json:"questions"`
}

// FeedbackResponse holds structured feedback when the model returned valid
// JSON, or {"summary": <raw text>} when it returned prose.
type FeedbackResponse struct {
	Success  bool           `json:"success"`
	Feedback map[string]any `json:"feedback"`
}

type SessionResponse struct {
	*models.InterviewSession
	CanAnswer   bool `json:"can_answer"`
	CanComplete bool `json:"can_complete"`
}

type SessionListResponse struct {
	Sessions []models.SessionSummary `json:"sessions"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	Size     int                     `json:"size"`
}

// SubmitAnswerResponse returns the scored entry plus the follow-up question
// inserted by the follow-up policy, when one was.
type SubmitAnswerResponse struct {
	Entry    *models.SessionEntry `json:"entry"`
	FollowUp *models.SessionEntry `json:"follow_up,omitempty"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Verify(ctx context.Context, userID uint) (*models.PublicUser, error)

	// ParseToken validates a bearer token and returns the subject user ID.
	ParseToken(token string) (uint, error)
}

type InterviewService interface {
	GenerateQuestions(ctx context.Context, req *GenerateQuestionsRequest) ([]models.Question, error)
	GenerateFeedback(ctx context.Context, req *GenerateFeedbackRequest) (*FeedbackResponse, error)

	// FallbackQuestions returns the static batch used when generation fails.
	FallbackQuestions(jobRole, experienceLevel string) []models.Question
}

type SessionService interface {
	Create(ctx context.Context, req *CreateSessionRequest, userID uint) (*SessionResponse, error)
	Get(ctx context.Context, id, userID uint) (*SessionResponse, error)
	List(ctx context.Context, userID uint, filters repositories.SessionFilters) (*SessionListResponse, error)
	Update(ctx context.Context, id, userID uint, req *UpdateSessionRequest) (*SessionResponse, error)
	Delete(ctx context.Context, id, userID uint) error

	SubmitAnswer(ctx context.Context, id, userID uint, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error)
	Complete(ctx context.Context, id, userID uint) (*SessionResponse, error)

	Stats(ctx context.Context, userID uint) (*repositories.SessionStats, error)

	// ExportHistory renders the user's session history as an XLSX workbook.
	ExportHistory(ctx context.Context, userID uint) ([]byte, error)
}

// ServiceManager provides access to all services.
type ServiceManager interface {
	Auth() AuthService
	Interview() InterviewService
	Session() SessionService

	Shutdown(ctx context.Context) error
}
