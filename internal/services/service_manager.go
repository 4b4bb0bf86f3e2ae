package services

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/prep-ai/interview-service/internal/config"
	"github.com/prep-ai/interview-service/internal/events"
	"github.com/prep-ai/interview-service/internal/llm"
	"github.com/prep-ai/interview-service/internal/repositories"
	"github.com/prep-ai/interview-service/internal/validator"
)

// DefaultServiceManager wires the concrete services over one repository,
// one LLM client and one event publisher.
type DefaultServiceManager struct {
	auth      AuthService
	interview InterviewService
	session   SessionService
	publisher events.EventPublisher
}

type ServiceManagerConfig struct {
	Repository repositories.Repository
	Config     *config.Config
	Logger     *slog.Logger
	Validator  *validator.Validator
	Publisher  events.EventPublisher

	// LLMClient overrides the HTTP client built from Config, used in tests.
	LLMClient llm.Client

	// Scorer overrides the default simulated scorer.
	Scorer Scorer
}

func NewServiceManager(smc ServiceManagerConfig) *DefaultServiceManager {
	client := smc.LLMClient
	if client == nil {
		client = llm.NewHTTPClient(smc.Config.LLM.BaseURL, smc.Config.LLM.APIKey, smc.Config.LLM.Model, smc.Config.LLM.Timeout)
	}

	scorer := smc.Scorer
	if scorer == nil {
		scorer = NewSimulatedScorer(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	return &DefaultServiceManager{
		auth:      NewAuthService(smc.Repository, smc.Logger, smc.Validator, smc.Config.JWTSecret, smc.Config.TokenTTL),
		interview: NewInterviewService(client, smc.Logger, smc.Validator),
		session:   NewSessionService(smc.Repository, scorer, smc.Publisher, smc.Logger, smc.Validator),
		publisher: smc.Publisher,
	}
}

func (m *DefaultServiceManager) Auth() AuthService           { return m.auth }
func (m *DefaultServiceManager) Interview() InterviewService { return m.interview }
func (m *DefaultServiceManager) Session() SessionService     { return m.session }

func (m *DefaultServiceManager) Shutdown(_ context.Context) error {
	if m.publisher != nil {
		return m.publisher.Close()
	}
	return nil
}
