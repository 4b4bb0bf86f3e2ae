package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prep-ai/interview-service/internal/models"
)

const (
	defaultCompany       = "Not specified"
	defaultInterviewType = "technical"
	defaultDifficulty    = "intermediate"
	defaultQuestionCount = 5
	maxQuestionCount     = 20
)

func effectiveQuestionCount(requested int) int {
	if requested <= 0 {
		return defaultQuestionCount
	}
	if requested > maxQuestionCount {
		return maxQuestionCount
	}
	return requested
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// buildInterviewPrompt renders the candidate profile as a bullet list and
// pins the exact JSON shape the parser expects. Optional fields that were
// left empty are substituted rather than omitted so the model always sees a
// complete profile.
func buildInterviewPrompt(req *GenerateQuestionsRequest) string {
	count := effectiveQuestionCount(req.QuestionCount)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d interview questions for the following candidate profile:\n\n", count)
	fmt.Fprintf(&b, "- Job role: %s\n", req.JobRole)
	fmt.Fprintf(&b, "- Company: %s\n", orDefault(req.Company, defaultCompany))
	fmt.Fprintf(&b, "- Experience level: %s\n", req.ExperienceLevel)
	fmt.Fprintf(&b, "- Interview type: %s\n", orDefault(req.InterviewType, defaultInterviewType))
	fmt.Fprintf(&b, "- Difficulty: %s\n", orDefault(req.Difficulty, defaultDifficulty))

	if len(req.Skills) > 0 {
		fmt.Fprintf(&b, "- Key skills: %s\n", strings.Join(req.Skills, ", "))
	}
	if len(req.SpecificTopics) > 0 {
		fmt.Fprintf(&b, "- Focus topics: %s\n", strings.Join(req.SpecificTopics, ", "))
	}
	if topics := strings.TrimSpace(req.CustomTopics); topics != "" {
		fmt.Fprintf(&b, "- Additional topics: %s\n", topics)
	}
	if desc := strings.TrimSpace(req.JobDescription); desc != "" {
		fmt.Fprintf(&b, "\nJob description:\n%s\n", desc)
	}
	if link := strings.TrimSpace(req.LinkContent); link != "" {
		fmt.Fprintf(&b, "\nAdditional context from the job posting:\n%s\n", link)
	}

	b.WriteString("\nReturn a JSON array of question objects with this exact shape:\n")
	b.WriteString(`[{"question": "...", "category": "technical|behavioral|system-design|coding", ` +
		`"followUps": ["..."], "difficulty": "easy|medium|hard", "tags": ["..."]}]`)
	b.WriteString("\nDo not wrap the array in markdown fences or add any text around it.")

	return b.String()
}

// buildFeedbackPrompt pairs each question with the candidate's answer.
// Unanswered questions are marked so the model does not invent answers.
func buildFeedbackPrompt(req *GenerateFeedbackRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review this mock %s interview for a %s position and write feedback for the candidate.\n\n",
		orDefault(req.Difficulty, defaultDifficulty), req.JobRole)

	for i, q := range req.Questions {
		answer := "(no answer given)"
		if i < len(req.Answers) && strings.TrimSpace(req.Answers[i]) != "" {
			answer = req.Answers[i]
		}
		fmt.Fprintf(&b, "Question %d: %s\nAnswer %d: %s\n\n", i+1, q.Question, i+1, answer)
	}

	b.WriteString("Return a JSON object with this exact shape:\n")
	b.WriteString(`{"summary": "...", "strengths": ["..."], "areasForImprovement": ["..."], ` +
		`"score": 0, "advice": "..."}`)
	b.WriteString("\nDo not wrap the object in markdown fences or add any text around it.")

	return b.String()
}

// parseQuestions extracts a question batch from a model reply. The whole
// reply is tried as JSON first; failing that, the first balanced top-level
// array is located by scanning bracket depth with string and escape state,
// so stray brackets inside question text do not truncate the batch. Anything
// that still does not decode yields an empty slice, never a panic.
func parseQuestions(raw string) []models.Question {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var questions []models.Question
	if err := json.Unmarshal([]byte(raw), &questions); err == nil {
		return pruneQuestions(questions)
	}

	candidate, ok := extractBalanced(raw, '[', ']')
	if !ok {
		return nil
	}

	questions = nil
	if err := json.Unmarshal([]byte(candidate), &questions); err != nil {
		return nil
	}
	return pruneQuestions(questions)
}

// parseFeedback keeps structured replies structured and wraps anything else
// under a "summary" key so the caller always gets an object back.
func parseFeedback(raw string) map[string]any {
	raw = strings.TrimSpace(raw)

	var feedback map[string]any
	if err := json.Unmarshal([]byte(raw), &feedback); err == nil && len(feedback) > 0 {
		return feedback
	}

	if candidate, ok := extractBalanced(raw, '{', '}'); ok {
		feedback = nil
		if err := json.Unmarshal([]byte(candidate), &feedback); err == nil && len(feedback) > 0 {
			return feedback
		}
	}

	return map[string]any{"summary": raw}
}

// extractBalanced returns the first balanced open..close span in s, ignoring
// delimiters that occur inside JSON string literals. An unterminated span
// reports no match.
func extractBalanced(s string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case close:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// pruneQuestions drops entries with no question text, which some models emit
// as padding at the end of a batch.
func pruneQuestions(questions []models.Question) []models.Question {
	pruned := questions[:0]
	for _, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		pruned = append(pruned, q)
	}
	if len(pruned) == 0 {
		return nil
	}
	return pruned
}

// fallbackQuestions is the static batch served when generation fails. The
// job role and experience level are interpolated so the batch still reads as
// tailored to the request.
func fallbackQuestions(jobRole, experienceLevel string) []models.Question {
	jobRole = orDefault(jobRole, "software engineer")
	experienceLevel = orDefault(experienceLevel, defaultDifficulty)

	return []models.Question{
		{
			Question: fmt.Sprintf("Tell me about your background and what draws you to the %s role.", jobRole),
			Category: string(models.CategoryBehavioral),
			FollowUps: []string{
				"What accomplishment from that background are you most proud of?",
				"What would you like to do differently in your next role?",
			},
			Difficulty: "easy",
			Tags:       []string{"background", "motivation"},
		},
		{
			Question: fmt.Sprintf("Describe a challenging problem you solved as a %s %s and walk me through your approach.", experienceLevel, jobRole),
			Category: string(models.CategoryBehavioral),
			FollowUps: []string{
				"What would you do differently with hindsight?",
				"How did you communicate progress to the people affected?",
			},
			Difficulty: "medium",
			Tags:       []string{"problem-solving", "experience"},
		},
	}
}
