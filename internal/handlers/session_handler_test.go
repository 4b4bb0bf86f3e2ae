package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prep-ai/interview-service/internal/models"
	"github.com/prep-ai/interview-service/internal/repositories"
	"github.com/prep-ai/interview-service/internal/services"
	"github.com/prep-ai/interview-service/internal/utils"
)

// stubSessionService lets each test pin the service outcome.
type stubSessionService struct {
	session *services.SessionResponse
	err     error
}

func (s *stubSessionService) Create(ctx context.Context, req *services.CreateSessionRequest, userID uint) (*services.SessionResponse, error) {
	return s.session, s.err
}

func (s *stubSessionService) Get(ctx context.Context, id, userID uint) (*services.SessionResponse, error) {
	return s.session, s.err
}

func (s *stubSessionService) List(ctx context.Context, userID uint, filters repositories.SessionFilters) (*services.SessionListResponse, error) {
	return &services.SessionListResponse{Page: 1, Size: filters.Limit}, s.err
}

func (s *stubSessionService) Update(ctx context.Context, id, userID uint, req *services.UpdateSessionRequest) (*services.SessionResponse, error) {
	return s.session, s.err
}

func (s *stubSessionService) Delete(ctx context.Context, id, userID uint) error {
	return s.err
}

func (s *stubSessionService) SubmitAnswer(ctx context.Context, id, userID uint, req *services.SubmitAnswerRequest) (*services.SubmitAnswerResponse, error) {
	return nil, s.err
}

func (s *stubSessionService) Complete(ctx context.Context, id, userID uint) (*services.SessionResponse, error) {
	return s.session, s.err
}

func (s *stubSessionService) Stats(ctx context.Context, userID uint) (*repositories.SessionStats, error) {
	return &repositories.SessionStats{}, s.err
}

func (s *stubSessionService) ExportHistory(ctx context.Context, userID uint) ([]byte, error) {
	return []byte("PK"), s.err
}

func newSessionRouter(svc services.SessionService, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.Default())
	handler := NewSessionHandler(svc, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	router.DELETE("/api/sessions/:id", handler.DeleteSession)
	router.GET("/api/sessions/:id", handler.GetSession)
	router.GET("/api/sessions", handler.ListSessions)
	router.GET("/api/sessions/export", handler.ExportHistory)
	return router
}

func TestDeleteSessionNotOwned(t *testing.T) {
	svc := &stubSessionService{err: services.NewPermissionError("session", "delete", "not the session owner")}
	router := newSessionRouter(svc, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/3", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc := &stubSessionService{err: services.ErrSessionNotFound}
	router := newSessionRouter(svc, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/99", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetSessionInvalidID(t *testing.T) {
	router := newSessionRouter(&stubSessionService{}, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSessionRequiresAuthenticatedUser(t *testing.T) {
	session := &services.SessionResponse{InterviewSession: &models.InterviewSession{ID: 3}}
	router := newSessionRouter(&stubSessionService{session: session}, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/3", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestExportHistoryHeaders(t *testing.T) {
	router := newSessionRouter(&stubSessionService{}, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions/export", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "interview-history") {
		t.Errorf("Content-Disposition = %q", got)
	}
}
