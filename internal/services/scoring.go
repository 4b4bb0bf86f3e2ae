package services

import (
	"math/rand"
	"sync"
)

// AggregateScores are the session-level scores computed on completion.
type AggregateScores struct {
	Technical     float64 `json:"technical"`
	Communication float64 `json:"communication"`
	Overall       float64 `json:"overall"`
}

// Scorer evaluates answers and decides follow-up insertion. The default
// implementation fabricates plausible numbers; it is explicitly a
// simulation, not an assessment. A genuine evaluator (LLM-graded or
// rubric-based) plugs in behind this interface.
type Scorer interface {
	// ScoreAnswer returns a score for a single answer.
	ScoreAnswer(question, answer string) float64

	// Aggregate returns session-level scores given the per-answer scores.
	Aggregate(answerScores []float64) AggregateScores

	// ShouldFollowUp decides whether to insert a follow-up question after
	// an answer. followUpCount is the number of candidates available.
	ShouldFollowUp(followUpCount int) (index int, ok bool)
}

const followUpProbability = 0.6

// SimulatedScorer draws scores from an injectable random source. Per-answer
// scores land in [70, 100); aggregates in [60, 100), mirroring the ranges
// the product has always shown.
type SimulatedScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedScorer(rng *rand.Rand) *SimulatedScorer {
	return &SimulatedScorer{rng: rng}
}

func (s *SimulatedScorer) ScoreAnswer(_, _ string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(70 + s.rng.Intn(30))
}

func (s *SimulatedScorer) Aggregate(answerScores []float64) AggregateScores {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The overall score uses the per-answer average when answers exist, so
	// the history view stays consistent with what the user saw live.
	overall := float64(60 + s.rng.Intn(40))
	if len(answerScores) > 0 {
		var sum float64
		for _, sc := range answerScores {
			sum += sc
		}
		overall = sum / float64(len(answerScores))
	}

	return AggregateScores{
		Technical:     float64(60 + s.rng.Intn(40)),
		Communication: float64(60 + s.rng.Intn(40)),
		Overall:       overall,
	}
}

func (s *SimulatedScorer) ShouldFollowUp(followUpCount int) (int, bool) {
	if followUpCount <= 0 {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng.Float64() >= followUpProbability {
		return 0, false
	}
	return s.rng.Intn(followUpCount), true
}
