package repositories

import (
	"context"

	"github.com/prep-ai/interview-service/internal/models"
	"gorm.io/gorm"
)

// SessionRepository interface for interview session operations.
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, session *models.InterviewSession) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.InterviewSession, error)
	GetByIDWithEntries(ctx context.Context, tx *gorm.DB, id uint) (*models.InterviewSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *models.InterviewSession) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Entry operations
	AddEntry(ctx context.Context, tx *gorm.DB, entry *models.SessionEntry) error
	UpdateEntry(ctx context.Context, tx *gorm.DB, entry *models.SessionEntry) error
	GetEntries(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.SessionEntry, error)

	// Query operations.
	// ListByUser returns sessions without their Entries preloaded but with
	// EntryCount populated on every returned session.
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters SessionFilters) ([]*models.InterviewSession, int64, error)

	// Statistics
	GetUserStats(ctx context.Context, tx *gorm.DB, userID uint) (*SessionStats, error)
}
