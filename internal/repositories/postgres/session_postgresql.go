package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/prep-ai/interview-service/internal/cache"
	"github.com/prep-ai/interview-service/internal/models"
	"github.com/prep-ai/interview-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (s *SessionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// ===== BASIC CRUD OPERATIONS =====

func (s *SessionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, session *models.InterviewSession) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	cache.SafeInvalidatePattern(ctx, s.cacheManager.Session, fmt.Sprintf("user:%d:*", session.UserID))
	return nil
}

// GetByID retrieves a session by ID with caching.
func (s *SessionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.InterviewSession, error) {
	db := s.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var session models.InterviewSession

	err := s.cacheManager.Session.CacheOrExecute(ctx, cacheKey, &session, cache.SessionCacheConfig.TTL, func() (interface{}, error) {
		var dbSession models.InterviewSession
		if err := db.WithContext(ctx).First(&dbSession, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		return &dbSession, nil
	})

	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return &session, nil
}

// GetByIDWithEntries retrieves a session with its Q&A entries ordered by
// position.
func (s *SessionPostgreSQL) GetByIDWithEntries(ctx context.Context, tx *gorm.DB, id uint) (*models.InterviewSession, error) {
	db := s.getDB(tx)
	var session models.InterviewSession
	if err := db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session with entries: %w", err)
	}
	session.EntryCount = len(session.Entries)
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, session *models.InterviewSession) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	cache.InvalidateSessionCache(ctx, s.cacheManager, session.ID, session.UserID)
	return nil
}

// Delete soft deletes a session and hard deletes its entries.
func (s *SessionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)

	var session models.InterviewSession
	if err := db.WithContext(ctx).Select("id, user_id").First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("failed to get session before delete: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete session entries: %w", err)
		}
		if err := tx.Delete(&models.InterviewSession{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateSessionCache(ctx, s.cacheManager, id, session.UserID)
	return nil
}

// ===== ENTRY OPERATIONS =====

func (s *SessionPostgreSQL) AddEntry(ctx context.Context, tx *gorm.DB, entry *models.SessionEntry) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add session entry: %w", err)
	}

	cache.SafeDelete(ctx, s.cacheManager.Session,
		fmt.Sprintf("id:%d", entry.SessionID),
		fmt.Sprintf("details:%d", entry.SessionID))
	return nil
}

func (s *SessionPostgreSQL) UpdateEntry(ctx context.Context, tx *gorm.DB, entry *models.SessionEntry) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Save(entry).Error; err != nil {
		return fmt.Errorf("failed to update session entry: %w", err)
	}

	cache.SafeDelete(ctx, s.cacheManager.Session,
		fmt.Sprintf("id:%d", entry.SessionID),
		fmt.Sprintf("details:%d", entry.SessionID))
	return nil
}

func (s *SessionPostgreSQL) GetEntries(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.SessionEntry, error) {
	db := s.getDB(tx)
	var entries []*models.SessionEntry
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get session entries: %w", err)
	}
	return entries, nil
}

// ===== QUERY OPERATIONS =====

func (s *SessionPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	db := s.getDB(tx)

	query := db.WithContext(ctx).Model(&models.InterviewSession{}).Where("user_id = ?", userID)
	query = applySessionFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query = applySessionSort(query, filters)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var sessions []*models.InterviewSession
	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	if err := s.fillEntryCounts(ctx, db, sessions); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// fillEntryCounts populates the computed EntryCount field for the listed
// sessions with one grouped count query.
func (s *SessionPostgreSQL) fillEntryCounts(ctx context.Context, db *gorm.DB, sessions []*models.InterviewSession) error {
	if len(sessions) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}

	type entryCount struct {
		SessionID uint
		Count     int
	}
	var counts []entryCount
	if err := db.WithContext(ctx).Model(&models.SessionEntry{}).
		Select("session_id, COUNT(*) AS count").
		Where("session_id IN ?", ids).
		Group("session_id").
		Scan(&counts).Error; err != nil {
		return fmt.Errorf("failed to count session entries: %w", err)
	}

	byID := make(map[uint]int, len(counts))
	for _, c := range counts {
		byID[c.SessionID] = c.Count
	}
	for _, session := range sessions {
		session.EntryCount = byID[session.ID]
	}
	return nil
}

// ===== STATISTICS =====

func (s *SessionPostgreSQL) GetUserStats(ctx context.Context, tx *gorm.DB, userID uint) (*repositories.SessionStats, error) {
	db := s.getDB(tx)
	stats := &repositories.SessionStats{}

	row := db.WithContext(ctx).Model(&models.InterviewSession{}).
		Select(`COUNT(*),
			COUNT(*) FILTER (WHERE status = ?),
			COALESCE(AVG(overall_score) FILTER (WHERE overall_score IS NOT NULL), 0),
			COALESCE(MAX(overall_score), 0)`, models.SessionCompleted).
		Where("user_id = ?", userID).
		Row()
	if err := row.Scan(&stats.TotalSessions, &stats.CompletedSessions, &stats.AverageScore, &stats.BestScore); err != nil {
		return nil, fmt.Errorf("failed to get session stats: %w", err)
	}

	var questionCount int64
	if err := db.WithContext(ctx).Model(&models.SessionEntry{}).
		Joins("JOIN interview_sessions ON interview_sessions.id = session_entries.session_id").
		Where("interview_sessions.user_id = ? AND interview_sessions.deleted_at IS NULL", userID).
		Count(&questionCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count session questions: %w", err)
	}
	stats.TotalQuestions = int(questionCount)

	return stats, nil
}

// ===== HELPERS =====

func applySessionFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.JobRole != nil {
		query = query.Where("job_role ILIKE ?", "%"+*filters.JobRole+"%")
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func applySessionSort(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "started_at", "overall_score", "created_at":
	default:
		sortBy = "created_at"
	}

	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}

	return query.Order(fmt.Sprintf("%s %s", sortBy, order))
}
