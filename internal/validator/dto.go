package validator

// ===== AUTH REQUESTS =====

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== INTERVIEW GENERATION REQUESTS =====

// GenerateQuestionsRequest carries the interview configuration forwarded to
// the prompt builder. Only jobRole and experienceLevel are mandatory; the
// rest substitute defaults downstream.
type GenerateQuestionsRequest struct {
	JobRole         string   `json:"jobRole" validate:"required,max=200"`
	Company         string   `json:"company" validate:"omitempty,max=200"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,experience_level"`
	InterviewType   string   `json:"interviewType" validate:"omitempty,interview_type"`
	Difficulty      string   `json:"difficulty" validate:"omitempty,difficulty_level"`
	QuestionCount   int      `json:"questionCount" validate:"omitempty,question_count"`
	Skills          []string `json:"skills" validate:"omitempty,max=20,dive,max=100"`
	SpecificTopics  []string `json:"specificTopics" validate:"omitempty,max=20,dive,max=100"`
	CustomTopics    string   `json:"customTopics" validate:"omitempty,max=1000"`
	JobDescription  string   `json:"jobDescription" validate:"omitempty,max=10000"`
	LinkContent     string   `json:"linkContent" validate:"omitempty,max=20000"`
}

type FeedbackQuestion struct {
	Question string `json:"question" validate:"required"`
}

type GenerateFeedbackRequest struct {
	Questions  []FeedbackQuestion `json:"questions" validate:"required,min=1,dive"`
	Answers    []string           `json:"answers" validate:"required"`
	JobRole    string             `json:"jobRole" validate:"required,max=200"`
	Difficulty string             `json:"difficulty" validate:"omitempty,difficulty_level"`
}

// ===== SESSION REQUESTS =====

type CreateSessionRequest struct {
	JobRole         string   `json:"jobRole" validate:"required,max=200"`
	Company         *string  `json:"company" validate:"omitempty,max=200"`
	ExperienceLevel string   `json:"experienceLevel" validate:"omitempty,experience_level"`
	InterviewType   string   `json:"interviewType" validate:"omitempty,interview_type"`
	Difficulty      string   `json:"difficulty" validate:"omitempty,difficulty_level"`
	QuestionCount   int      `json:"questionCount" validate:"omitempty,question_count"`
	Skills          []string `json:"skills" validate:"omitempty,max=20,dive,max=100"`
	Topics          []string `json:"topics" validate:"omitempty,max=20,dive,max=100"`

	// Questions selected for the session (generated or fallback).
	Questions []SessionQuestionRequest `json:"questions" validate:"omitempty,max=20,dive"`
}

type SessionQuestionRequest struct {
	Question   string   `json:"question" validate:"required"`
	Category   string   `json:"category" validate:"omitempty,max=50"`
	Difficulty string   `json:"difficulty" validate:"omitempty,max=50"`
	FollowUps  []string `json:"followUps" validate:"omitempty,max=10,dive,max=500"`
	Tags       []string `json:"tags" validate:"omitempty,max=10,dive,max=50"`
}

type UpdateSessionRequest struct {
	Company       *string  `json:"company" validate:"omitempty,max=200"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,difficulty_level"`
	InterviewType *string  `json:"interviewType" validate:"omitempty,interview_type"`
	Skills        []string `json:"skills" validate:"omitempty,max=20,dive,max=100"`
	Topics        []string `json:"topics" validate:"omitempty,max=20,dive,max=100"`
}

type SubmitAnswerRequest struct {
	Position int    `json:"position" validate:"min=0"`
	Answer   string `json:"answer" validate:"required"`
}
