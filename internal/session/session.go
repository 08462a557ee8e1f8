package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"biaslab/backend/internal/bias"
	"biaslab/backend/internal/classify"
	"biaslab/backend/internal/lexicon"
	"biaslab/backend/internal/question"
	"biaslab/backend/internal/scoring"
	"biaslab/backend/internal/util"
)

// Question phases, asked in order.
const (
	PhaseCognitive = "cognitive"
	PhaseOptions   = "options"
)

// Recoverable submission errors.
var (
	ErrSessionComplete  = errors.New("session has no pending questions")
	ErrQuestionMismatch = errors.New("answer does not match the current question")
	ErrAnswerRequired   = errors.New("this answer is required to continue")
)

// AnswerPayload carries one submitted answer. Scale questions use Value,
// pair questions use ValueA/ValueB (raw 0-10), free-text questions use Text.
type AnswerPayload struct {
	Value  float64 `json:"value"`
	ValueA float64 `json:"value_a"`
	ValueB float64 `json:"value_b"`
	Text   string  `json:"text"`
}

// Progress reports how far the questionnaire has advanced. Injected
// follow-ups grow the total.
type Progress struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Phase     string `json:"phase"`
}

// Result is the finalized outbound payload: signals, findings and the
// supporting labels and notes, all plain structured data.
type Result struct {
	Decision    string              `json:"decision"`
	Profile     classify.Profile    `json:"profile"`
	OptionA     string              `json:"option_a"`
	OptionB     string              `json:"option_b"`
	ChosenLabel string              `json:"chosen_label"`
	OtherLabel  string              `json:"other_label"`
	Signals     scoring.SignalSet   `json:"signals"`
	Components  []scoring.Component `json:"components"`
	RiskLabel   string              `json:"risk_label"`
	Practical   bool                `json:"practical_preference"`
	Findings    []bias.Finding      `json:"findings"`
	Notes       map[string]string   `json:"notes"`
	DurationMs  int64               `json:"duration_ms"`
}

// Session drives one adaptive analysis: classification, the two question
// phases with follow-up injection, and final scoring. Engine operations are
// sequential by contract; the mutex only guards against misbehaving callers.
type Session struct {
	mu sync.Mutex

	id       string
	decision string
	optionA  string
	optionB  string
	leaning  string
	profile  classify.Profile

	store     *AnswerStore
	cognitive *question.Queue
	options   *question.Queue
	phase     string

	completed int
	total     int

	timer  util.Timer
	result *Result
}

// New classifies the decision text and builds both question phases. Missing
// labels fall back to inferred "X or Y" options, then to generic ones;
// explicit labels always win. State is fully fresh: nothing carries over
// from prior sessions.
func New(id, decisionText, optionA, optionB, leaning string, lex *lexicon.Lexicon) *Session {
	decision := strings.TrimSpace(decisionText)
	if decision == "" {
		decision = "Undescribed decision"
	}

	inferredA, inferredB, _ := classify.InferOptions(decision)
	labelA := firstNonEmpty(strings.TrimSpace(optionA), inferredA, "Option A")
	labelB := firstNonEmpty(strings.TrimSpace(optionB), inferredB, "Option B")

	if leaning != "B" {
		leaning = "A"
	}
	chosen, other := labelA, labelB
	if leaning == "B" {
		chosen, other = labelB, labelA
	}

	profile := classify.Classify(decision, lex)
	labels := question.Labels{OptionA: labelA, OptionB: labelB, Chosen: chosen, Other: other}

	seen := question.NewSeenSet()
	cognitive := question.NewQueue(seen)
	for _, q := range question.BuildCognitive(profile.Scale, profile.Context, labels) {
		cognitive.Append(q)
	}
	options := question.NewQueue(seen)
	for _, q := range question.BuildComparison(profile.Scale, profile.Context, labels) {
		options.Append(q)
	}

	return &Session{
		id:        id,
		decision:  decision,
		optionA:   labelA,
		optionB:   labelB,
		leaning:   leaning,
		profile:   profile,
		store:     NewAnswerStore(),
		cognitive: cognitive,
		options:   options,
		phase:     PhaseCognitive,
		total:     cognitive.Len() + options.Len(),
		timer:     util.StartTimer(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Profile returns the classification result.
func (s *Session) Profile() classify.Profile { return s.profile }

// Options returns the resolved option labels.
func (s *Session) Options() (string, string) { return s.optionA, s.optionB }

// Next returns the pending question, or nil once both phases are exhausted.
func (s *Session) Next() *question.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Session) currentLocked() *question.Question {
	if s.phase == PhaseCognitive {
		if current := s.cognitive.Current(); current != nil {
			return current
		}
		s.phase = PhaseOptions
	}
	return s.options.Current()
}

// Submit records the answer for the current question, runs follow-up
// injection for cognitive scale answers, and advances. An empty required
// free-text answer is rejected with ErrAnswerRequired and the question index
// does not move.
func (s *Session) Submit(questionID string, payload AnswerPayload) (Progress, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.currentLocked()
	if current == nil {
		return s.progressLocked(), false, ErrSessionComplete
	}
	if current.ID != questionID {
		return s.progressLocked(), false, fmt.Errorf("%w: expected %s got %s", ErrQuestionMismatch, current.ID, questionID)
	}

	injected := false
	switch current.Type {
	case question.TypeSingleScale:
		normalized := scoring.Normalize(payload.Value)
		s.store.SetCognitive(current.Key, normalized)
		injected = s.injectLocked(current.Key, normalized)

	case question.TypePairScale:
		s.store.SetPair(current.Key, scoring.Normalize(payload.ValueA), scoring.Normalize(payload.ValueB))

	case question.TypeFreeText:
		text := strings.TrimSpace(payload.Text)
		if current.Required && text == "" {
			return s.progressLocked(), false, ErrAnswerRequired
		}
		s.store.SetText(current.Key, text)
	}

	s.completed++
	s.activeQueueLocked().Advance()
	s.result = nil
	return s.progressLocked(), injected, nil
}

// injectLocked appends a triggered follow-up to the active phase's queue.
// Insertion is idempotent: an id that was already queued or asked is a
// no-op and the step total does not grow.
func (s *Session) injectLocked(key string, value float64) bool {
	followup, ok := question.FollowUp(key, value)
	if !ok {
		return false
	}
	if !s.activeQueueLocked().Append(followup) {
		return false
	}
	s.total++
	return true
}

func (s *Session) activeQueueLocked() *question.Queue {
	if s.phase == PhaseCognitive {
		return s.cognitive
	}
	return s.options
}

// Progress returns the current completed/total step counts.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) progressLocked() Progress {
	return Progress{Completed: s.completed, Total: s.total, Phase: s.phase}
}

// Done reports whether every question in both phases has been answered.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked() == nil
}

// Finalize computes the signal set, bias findings and risk label from the
// answer store, defaulting unasked keys. The result is cached until a new
// answer arrives.
func (s *Session) Finalize() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return *s.result
	}

	chosenKey, otherKey := "A", "B"
	chosenLabel, otherLabel := s.optionA, s.optionB
	if s.leaning == "B" {
		chosenKey, otherKey = "B", "A"
		chosenLabel, otherLabel = s.optionB, s.optionA
	}

	cognitive := s.store.Cognitive()
	chosenScores := s.store.OptionScores(chosenKey)
	otherScores := s.store.OptionScores(otherKey)

	signals := scoring.Compute(cognitive, chosenScores, otherScores)
	practical := scoring.PracticalPreference(chosenScores, signals.JustificationGap, cognitive.Get("counter_strength"))
	findings := bias.Detect(cognitive, signals)

	result := Result{
		Decision:    s.decision,
		Profile:     s.profile,
		OptionA:     s.optionA,
		OptionB:     s.optionB,
		ChosenLabel: chosenLabel,
		OtherLabel:  otherLabel,
		Signals:     signals,
		Components:  signals.Components(),
		RiskLabel:   scoring.ClassifyRisk(signals.DistortionRisk),
		Practical:   practical,
		Findings:    findings,
		Notes:       s.store.Texts(),
		DurationMs:  s.timer.ElapsedMs(),
	}
	s.result = &result
	return result
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
