package session

import "biaslab/backend/internal/scoring"

// AnswerStore holds a session's normalized answers: one cognitive map, one
// criterion map per option, and the free-text notes. It is created fresh per
// session and discarded with it.
type AnswerStore struct {
	cognitive scoring.Answers
	optionA   scoring.Answers
	optionB   scoring.Answers
	text      map[string]string
}

// NewAnswerStore constructs an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		cognitive: scoring.Answers{},
		optionA:   scoring.Answers{},
		optionB:   scoring.Answers{},
		text:      make(map[string]string),
	}
}

// SetCognitive records a normalized cognitive answer.
func (s *AnswerStore) SetCognitive(key string, value float64) {
	s.cognitive[key] = value
}

// SetPair records the normalized criterion answer for both options.
func (s *AnswerStore) SetPair(key string, valueA, valueB float64) {
	s.optionA[key] = valueA
	s.optionB[key] = valueB
}

// SetText records a free-text answer.
func (s *AnswerStore) SetText(key, value string) {
	s.text[key] = value
}

// Cognitive exposes the cognitive answer map with default lookup.
func (s *AnswerStore) Cognitive() scoring.Answers {
	return s.cognitive
}

// OptionScores returns the criterion map for the given option key ("A"/"B").
func (s *AnswerStore) OptionScores(option string) scoring.Answers {
	if option == "B" {
		return s.optionB
	}
	return s.optionA
}

// Text returns the free-text answer for the key, if present.
func (s *AnswerStore) Text(key string) string {
	return s.text[key]
}

// Texts returns a copy of all free-text entries.
func (s *AnswerStore) Texts() map[string]string {
	out := make(map[string]string, len(s.text))
	for k, v := range s.text {
		out[k] = v
	}
	return out
}
