package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prep-ai/interview-service/internal/llm"
	"github.com/prep-ai/interview-service/internal/models"
	"github.com/prep-ai/interview-service/internal/validator"
)

const (
	questionsSystemPrompt = "You are an experienced technical interviewer. " +
		"Respond only with the JSON requested, no markdown fences and no commentary."
	feedbackSystemPrompt = "You are an experienced interview coach reviewing a candidate's answers. " +
		"Respond only with the JSON requested, no markdown fences and no commentary."

	generationTemperature = 0.7
	generationMaxTokens   = 4096
)

type interviewService struct {
	llm       llm.Client
	logger    *slog.Logger
	validator *validator.Validator
}

func NewInterviewService(client llm.Client, logger *slog.Logger, v *validator.Validator) InterviewService {
	return &interviewService{
		llm:       client,
		logger:    logger,
		validator: v,
	}
}

// GenerateQuestions builds an interviewer prompt from the request, asks the
// model for a question batch and parses whatever came back. A model failure
// or an unparseable reply surfaces as ErrQuestionGeneration so the handler
// can fall back to the static batch.
func (s *interviewService) GenerateQuestions(ctx context.Context, req *GenerateQuestionsRequest) ([]models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	prompt := buildInterviewPrompt(req)

	raw, err := s.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: questionsSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  generationTemperature,
		MaxTokens:    generationMaxTokens,
	})
	if err != nil {
		s.logger.Error("question generation failed", "job_role", req.JobRole, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrQuestionGeneration, err)
	}

	questions := parseQuestions(raw)
	if len(questions) == 0 {
		s.logger.Warn("model reply contained no parseable questions", "job_role", req.JobRole)
		return nil, ErrQuestionGeneration
	}

	if count := effectiveQuestionCount(req.QuestionCount); len(questions) > count {
		questions = questions[:count]
	}

	return questions, nil
}

// GenerateFeedback asks the model to review the transcript. Structured JSON
// is passed through as-is; a prose reply is wrapped under a "summary" key
// rather than rejected.
func (s *interviewService) GenerateFeedback(ctx context.Context, req *GenerateFeedbackRequest) (*FeedbackResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	prompt := buildFeedbackPrompt(req)

	raw, err := s.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: feedbackSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  generationTemperature,
		MaxTokens:    generationMaxTokens,
	})
	if err != nil {
		s.logger.Error("feedback generation failed", "job_role", req.JobRole, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrFeedbackGeneration, err)
	}

	return &FeedbackResponse{Success: true, Feedback: parseFeedback(raw)}, nil
}

func (s *interviewService) FallbackQuestions(jobRole, experienceLevel string) []models.Question {
	return fallbackQuestions(jobRole, experienceLevel)
}
