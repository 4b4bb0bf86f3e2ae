package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prep-ai/interview-service/internal/services"
	"github.com/prep-ai/interview-service/internal/utils"
)

func newAuthHandlerRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.Default())
	handler := NewAuthHandler(auth, logger)

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	return router
}

func TestRegisterErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		service    *stubAuthService
		wantStatus int
	}{
		{
			name:       "duplicate email is a bad request",
			body:       `{"name":"Dana","email":"dana@example.com","password":"secret-pass"}`,
			service:    &stubAuthService{err: services.ErrEmailTaken},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed payload",
			body:       `{"name":`,
			service:    &stubAuthService{},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthHandlerRouter(tt.service)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestLoginInvalidCredentialsStatus(t *testing.T) {
	router := newAuthHandlerRouter(&stubAuthService{err: services.ErrInvalidCredentials})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"dana@example.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
