package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prep-ai/interview-service/internal/services"
	"github.com/prep-ai/interview-service/internal/utils"
)

type InterviewHandler struct {
	BaseHandler
	interviewService services.InterviewService
}

func NewInterviewHandler(interviewService services.InterviewService, logger utils.Logger) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler:      NewBaseHandler(logger),
		interviewService: interviewService,
	}
}

// GenerateQuestions produces a tailored question batch. When the upstream
// model fails, the 500 response still carries the static fallback batch so
// the client has something to show.
func (h *InterviewHandler) GenerateQuestions(c *gin.Context) {
	var req services.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating questions", "job_role", req.JobRole)

	questions, err := h.interviewService.GenerateQuestions(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrQuestionGeneration) {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Message:  "Failed to generate questions",
				Fallback: h.interviewService.FallbackQuestions(req.JobRole, req.ExperienceLevel),
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.GenerateQuestionsResponse{
		Success:   true,
		Questions: questions,
	})
}

// GenerateFeedback reviews a finished interview transcript.
func (h *InterviewHandler) GenerateFeedback(c *gin.Context) {
	var req services.GenerateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Generating feedback", "job_role", req.JobRole, "questions", len(req.Questions))

	resp, err := h.interviewService.GenerateFeedback(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
