package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// InterviewSession is one persisted mock-interview attempt, holding the
// configuration and accumulated Q&A/score data.
type InterviewSession struct {
	ID     uint          `json:"id" gorm:"primaryKey"`
	UserID uint          `json:"user_id" gorm:"not null;index"`
	Status SessionStatus `json:"status" gorm:"default:in_progress;index"`

	// Interview configuration
	JobRole         string         `json:"job_role" gorm:"not null;size:200" validate:"required,max=200"`
	Company         *string        `json:"company" gorm:"size:200" validate:"omitempty,max=200"`
	ExperienceLevel string         `json:"experience_level" gorm:"size:50"`
	InterviewType   string         `json:"interview_type" gorm:"size:50;default:technical"`
	Difficulty      string         `json:"difficulty" gorm:"size:50;default:intermediate"`
	QuestionCount   int            `json:"question_count" gorm:"default:5"`
	Skills          datatypes.JSON `json:"skills" gorm:"type:jsonb"`
	Topics          datatypes.JSON `json:"topics" gorm:"type:jsonb"`

	// Aggregate scores, filled in on completion. Produced by the simulated
	// scorer unless a real evaluation strategy is plugged in.
	TechnicalScore     *float64 `json:"technical_score"`
	CommunicationScore *float64 `json:"communication_score"`
	OverallScore       *float64 `json:"overall_score"`

	// Feedback text/JSON produced at session end.
	Feedback datatypes.JSON `json:"feedback" gorm:"type:jsonb"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User    User           `json:"-" gorm:"foreignKey:UserID"`
	Entries []SessionEntry `json:"entries" gorm:"foreignKey:SessionID"`

	// Computed (not stored)
	EntryCount int `json:"entry_count" gorm:"-"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// SessionEntry is one question/answer/feedback record inside a session.
type SessionEntry struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id" gorm:"not null;index"`
	Position  int  `json:"position" gorm:"not null"`

	Question   string         `json:"question" gorm:"not null;type:text"`
	Category   string         `json:"category" gorm:"size:50"`
	Difficulty string         `json:"difficulty" gorm:"size:50"`
	FollowUps  datatypes.JSON `json:"follow_ups" gorm:"type:jsonb"`
	Tags       datatypes.JSON `json:"tags" gorm:"type:jsonb"`

	Answer   *string  `json:"answer" gorm:"type:text"`
	Feedback *string  `json:"feedback" gorm:"type:text"`
	Score    *float64 `json:"score"`

	// Whether a follow-up was inserted after this answer and which one.
	FollowUpAsked *string `json:"follow_up_asked" gorm:"type:text"`

	AnsweredAt *time.Time `json:"answered_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (SessionEntry) TableName() string {
	return "session_entries"
}
