package services

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/prep-ai/interview-service/internal/models"
	"github.com/prep-ai/interview-service/internal/repositories"
)

// In-memory repository used by the service tests.

type fakeRepo struct {
	user    *fakeUserRepo
	session *fakeSessionRepo
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		user: &fakeUserRepo{
			users: make(map[uint]*models.User),
		},
		session: &fakeSessionRepo{
			sessions: make(map[uint]*models.InterviewSession),
			entries:  make(map[uint][]*models.SessionEntry),
		},
	}
}

func (r *fakeRepo) User() repositories.UserRepository       { return r.user }
func (r *fakeRepo) Session() repositories.SessionRepository { return r.session }

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) Ping(ctx context.Context) error { return nil }
func (r *fakeRepo) Close() error                   { return nil }

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeSessionRepo struct {
	mu            sync.Mutex
	sessions      map[uint]*models.InterviewSession
	entries       map[uint][]*models.SessionEntry
	nextSessionID uint
	nextEntryID   uint
}

func (r *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSessionID++
	session.ID = r.nextSessionID
	copied := *session
	copied.Entries = nil
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) GetByIDWithEntries(ctx context.Context, tx *gorm.DB, id uint) (*models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *s
	for _, e := range r.sortedEntries(id) {
		copied.Entries = append(copied.Entries, *e)
	}
	return &copied, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *session
	copied.Entries = nil
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.sessions, id)
	delete(r.entries, id)
	return nil
}

func (r *fakeSessionRepo) AddEntry(ctx context.Context, tx *gorm.DB, entry *models.SessionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextEntryID++
	entry.ID = r.nextEntryID
	copied := *entry
	r.entries[entry.SessionID] = append(r.entries[entry.SessionID], &copied)
	return nil
}

func (r *fakeSessionRepo) UpdateEntry(ctx context.Context, tx *gorm.DB, entry *models.SessionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries[entry.SessionID] {
		if e.ID == entry.ID {
			copied := *entry
			r.entries[entry.SessionID][i] = &copied
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeSessionRepo) GetEntries(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.SessionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedEntries(sessionID), nil
}

func (r *fakeSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.InterviewSession
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		copied := *s
		copied.EntryCount = len(r.entries[s.ID])
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *fakeSessionRepo) GetUserStats(ctx context.Context, tx *gorm.DB, userID uint) (*repositories.SessionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &repositories.SessionStats{}
	var sum float64
	var scored int
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		stats.TotalSessions++
		stats.TotalQuestions += len(r.entries[s.ID])
		if s.Status == models.SessionCompleted {
			stats.CompletedSessions++
		}
		if s.OverallScore != nil {
			sum += *s.OverallScore
			scored++
			if *s.OverallScore > stats.BestScore {
				stats.BestScore = *s.OverallScore
			}
		}
	}
	if scored > 0 {
		stats.AverageScore = sum / float64(scored)
	}
	return stats, nil
}

func (r *fakeSessionRepo) sortedEntries(sessionID uint) []*models.SessionEntry {
	entries := append([]*models.SessionEntry(nil), r.entries[sessionID]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries
}

// fixedScorer makes scoring deterministic in session tests.
type fixedScorer struct {
	score       float64
	aggregate   AggregateScores
	followUp    bool
	followIndex int
}

func (s *fixedScorer) ScoreAnswer(question, answer string) float64 { return s.score }

func (s *fixedScorer) Aggregate(answerScores []float64) AggregateScores { return s.aggregate }

func (s *fixedScorer) ShouldFollowUp(followUpCount int) (int, bool) {
	if !s.followUp || followUpCount == 0 {
		return 0, false
	}
	idx := s.followIndex
	if idx >= followUpCount {
		idx = 0
	}
	return idx, true
}
