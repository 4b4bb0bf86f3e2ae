package models

type QuestionCategory string

const (
	CategoryTechnical  QuestionCategory = "technical"
	CategoryBehavioral QuestionCategory = "behavioral"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// Question is a transient question produced per-request by the LLM gateway
// or the static fallback. Questions are never persisted on their own; they
// become SessionEntry rows once a session picks them up.
type Question struct {
	Question   string   `json:"question"`
	Category   string   `json:"category"`
	FollowUps  []string `json:"followUps"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}
