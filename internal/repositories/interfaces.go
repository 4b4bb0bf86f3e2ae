package repositories

import (
	"time"

	"github.com/prep-ai/interview-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SessionFilters struct {
	Status    *models.SessionStatus `json:"status"`
	JobRole   *string               `json:"job_role"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`    // "created_at", "started_at", "overall_score"
	SortOrder string                `json:"sort_order"` // "asc", "desc"
}

type UserFilters struct {
	Query  string // Search query for name or email
	Limit  int
	Offset int
}

// ===== SHARED STATISTICS STRUCTS =====

type SessionStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AverageScore      float64 `json:"average_score"`
	BestScore         float64 `json:"best_score"`
	TotalQuestions    int     `json:"total_questions"`
}
