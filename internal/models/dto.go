package models

import "time"

// ===== RESPONSE ENVELOPES =====

type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	// Fallback question batch, only set by generate-questions when the
	// upstream LLM call failed. The client always gets displayable content.
	Fallback []Question `json:"fallback,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== SESSION SUMMARY DTOs =====

type SessionSummary struct {
	ID            uint          `json:"id"`
	JobRole       string        `json:"job_role"`
	Company       *string       `json:"company"`
	Difficulty    string        `json:"difficulty"`
	InterviewType string        `json:"interview_type"`
	Status        SessionStatus `json:"status"`
	OverallScore  *float64      `json:"overall_score"`
	EntryCount    int           `json:"entry_count"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at"`
}

func (s *InterviewSession) Summary() SessionSummary {
	return SessionSummary{
		ID:            s.ID,
		JobRole:       s.JobRole,
		Company:       s.Company,
		Difficulty:    s.Difficulty,
		InterviewType: s.InterviewType,
		Status:        s.Status,
		OverallScore:  s.OverallScore,
		EntryCount:    len(s.Entries),
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
	}
}
