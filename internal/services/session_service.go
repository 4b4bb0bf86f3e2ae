package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/prep-ai/interview-service/internal/events"
	"github.com/prep-ai/interview-service/internal/models"
	"github.com/prep-ai/interview-service/internal/repositories"
	"github.com/prep-ai/interview-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	scorer    Scorer
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSessionService(repo repositories.Repository, scorer Scorer, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		scorer:    scorer,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// Create persists a session with its initial question entries in one
// transaction and announces it on the event bus.
func (s *sessionService) Create(ctx context.Context, req *CreateSessionRequest, userID uint) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session := &models.InterviewSession{
		UserID:          userID,
		Status:          models.SessionInProgress,
		JobRole:         req.JobRole,
		Company:         req.Company,
		ExperienceLevel: req.ExperienceLevel,
		InterviewType:   orDefault(req.InterviewType, defaultInterviewType),
		Difficulty:      orDefault(req.Difficulty, defaultDifficulty),
		QuestionCount:   effectiveQuestionCount(req.QuestionCount),
		Skills:          toJSONList(req.Skills),
		Topics:          toJSONList(req.Topics),
		StartedAt:       time.Now().UTC(),
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Session().Create(ctx, nil, session); err != nil {
			return err
		}
		for i, q := range req.Questions {
			entry := &models.SessionEntry{
				SessionID:  session.ID,
				Position:   i,
				Question:   q.Question,
				Category:   q.Category,
				Difficulty: q.Difficulty,
				FollowUps:  toJSONList(q.FollowUps),
				Tags:       toJSONList(q.Tags),
			}
			if err := txRepo.Session().AddEntry(ctx, nil, entry); err != nil {
				return err
			}
			session.Entries = append(session.Entries, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.publishEvent(ctx, events.SessionEvent{
		Type:      events.SessionStarted,
		SessionID: session.ID,
		UserID:    userID,
		Payload: map[string]any{
			"job_role":  session.JobRole,
			"questions": len(session.Entries),
		},
	})

	s.logger.Info("session created", "session_id", session.ID, "user_id", userID, "entries", len(session.Entries))

	return s.toResponse(session), nil
}

func (s *sessionService) Get(ctx context.Context, id, userID uint) (*SessionResponse, error) {
	session, err := s.loadOwned(ctx, id, userID, true, "read")
	if err != nil {
		return nil, err
	}
	return s.toResponse(session), nil
}

func (s *sessionService) List(ctx context.Context, userID uint, filters repositories.SessionFilters) (*SessionListResponse, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	sessions, total, err := s.repo.Session().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summary := session.Summary()
		summary.EntryCount = session.EntryCount
		summaries = append(summaries, summary)
	}

	return &SessionListResponse{
		Sessions: summaries,
		Total:    total,
		Page:     filters.Offset/filters.Limit + 1,
		Size:     filters.Limit,
	}, nil
}

// Update applies config changes to a session. Completed sessions stay
// editable; only their Q&A history is frozen.
func (s *sessionService) Update(ctx context.Context, id, userID uint, req *UpdateSessionRequest) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.loadOwned(ctx, id, userID, true, "update")
	if err != nil {
		return nil, err
	}

	if req.Company != nil {
		session.Company = req.Company
	}
	if req.Difficulty != nil {
		session.Difficulty = *req.Difficulty
	}
	if req.InterviewType != nil {
		session.InterviewType = *req.InterviewType
	}
	if req.Skills != nil {
		session.Skills = toJSONList(req.Skills)
	}
	if req.Topics != nil {
		session.Topics = toJSONList(req.Topics)
	}

	if err := s.repo.Session().Update(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return s.toResponse(session), nil
}

func (s *sessionService) Delete(ctx context.Context, id, userID uint) error {
	if _, err := s.loadOwned(ctx, id, userID, false, "delete"); err != nil {
		return err
	}

	if err := s.repo.Session().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.publishEvent(ctx, events.SessionEvent{
		Type:      events.SessionDeleted,
		SessionID: id,
		UserID:    userID,
	})

	return nil
}

// SubmitAnswer records the answer on the entry at the given position, scores
// it, and may append one of the entry's follow-up questions to the end of
// the session.
func (s *sessionService) SubmitAnswer(ctx context.Context, id, userID uint, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.loadOwned(ctx, id, userID, true, "answer")
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionInProgress {
		return nil, ErrSessionNotActive
	}

	var entry *models.SessionEntry
	for i := range session.Entries {
		if session.Entries[i].Position == req.Position {
			entry = &session.Entries[i]
			break
		}
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	now := time.Now().UTC()
	score := s.scorer.ScoreAnswer(entry.Question, req.Answer)
	remark := answerRemark(score)

	entry.Answer = &req.Answer
	entry.Score = &score
	entry.Feedback = &remark
	entry.AnsweredAt = &now

	var followUp *models.SessionEntry
	if candidates := fromJSONList(entry.FollowUps); len(candidates) > 0 && entry.FollowUpAsked == nil {
		if idx, ok := s.scorer.ShouldFollowUp(len(candidates)); ok {
			question := candidates[idx]
			entry.FollowUpAsked = &question
			followUp = &models.SessionEntry{
				SessionID:  session.ID,
				Position:   len(session.Entries),
				Question:   question,
				Category:   entry.Category,
				Difficulty: entry.Difficulty,
				Tags:       entry.Tags,
			}
		}
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Session().UpdateEntry(ctx, nil, entry); err != nil {
			return err
		}
		if followUp != nil {
			return txRepo.Session().AddEntry(ctx, nil, followUp)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	s.publishEvent(ctx, events.SessionEvent{
		Type:      events.AnswerSubmitted,
		SessionID: session.ID,
		UserID:    userID,
		Payload: map[string]any{
			"position": entry.Position,
			"score":    score,
		},
	})

	return &SubmitAnswerResponse{Entry: entry, FollowUp: followUp}, nil
}

// Complete finalizes a session: aggregate scores from the answered entries,
// a feedback summary, status flip and completion timestamp.
func (s *sessionService) Complete(ctx context.Context, id, userID uint) (*SessionResponse, error) {
	session, err := s.loadOwned(ctx, id, userID, true, "complete")
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}

	var answerScores []float64
	answered := 0
	for _, entry := range session.Entries {
		if entry.Score != nil {
			answerScores = append(answerScores, *entry.Score)
		}
		if entry.Answer != nil {
			answered++
		}
	}

	agg := s.scorer.Aggregate(answerScores)
	now := time.Now().UTC()

	session.Status = models.SessionCompleted
	session.TechnicalScore = &agg.Technical
	session.CommunicationScore = &agg.Communication
	session.OverallScore = &agg.Overall
	session.CompletedAt = &now
	session.Feedback = completionFeedback(agg, answered, len(session.Entries))

	if err := s.repo.Session().Update(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	s.publishEvent(ctx, events.SessionEvent{
		Type:      events.SessionCompleted,
		SessionID: session.ID,
		UserID:    userID,
		Payload: map[string]any{
			"overall_score": agg.Overall,
			"answered":      answered,
		},
	})

	s.logger.Info("session completed", "session_id", session.ID, "user_id", userID, "overall", agg.Overall)

	return s.toResponse(session), nil
}

func (s *sessionService) Stats(ctx context.Context, userID uint) (*repositories.SessionStats, error) {
	stats, err := s.repo.Session().GetUserStats(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return stats, nil
}

// loadOwned fetches the session and enforces ownership. Non-owners get a
// permission error regardless of what they tried to do.
func (s *sessionService) loadOwned(ctx context.Context, id, userID uint, withEntries bool, action string) (*models.InterviewSession, error) {
	var (
		session *models.InterviewSession
		err     error
	)
	if withEntries {
		session, err = s.repo.Session().GetByIDWithEntries(ctx, nil, id)
	} else {
		session, err = s.repo.Session().GetByID(ctx, nil, id)
	}
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID != userID {
		return nil, NewPermissionError("session", action, "not the session owner")
	}

	return session, nil
}

func (s *sessionService) toResponse(session *models.InterviewSession) *SessionResponse {
	active := session.Status == models.SessionInProgress
	session.EntryCount = len(session.Entries)
	return &SessionResponse{
		InterviewSession: session,
		CanAnswer:        active && len(session.Entries) > 0,
		CanComplete:      active,
	}
}

// publishEvent is best-effort. A bus failure is logged, never surfaced to
// the caller.
func (s *sessionService) publishEvent(ctx context.Context, event events.SessionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish session event", "type", event.Type, "session_id", event.SessionID, "error", err)
	}
}

func answerRemark(score float64) string {
	switch {
	case score >= 90:
		return "Strong answer with clear structure and relevant detail."
	case score >= 80:
		return "Good answer. Add a concrete example to make it stronger."
	default:
		return "Reasonable answer. Work on structure and depth of detail."
	}
}

func completionFeedback(agg AggregateScores, answered, total int) datatypes.JSON {
	payload := map[string]any{
		"summary":  fmt.Sprintf("Answered %d of %d questions with an overall score of %.0f.", answered, total, agg.Overall),
		"answered": answered,
		"total":    total,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func toJSONList(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func fromJSONList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}
