package session

import (
	"errors"
	"math"
	"testing"

	"biaslab/backend/internal/classify"
	"biaslab/backend/internal/lexicon"
	"biaslab/backend/internal/question"
	"biaslab/backend/internal/scoring"
)

func newTestSession(t *testing.T, decision, optionA, optionB, leaning string) *Session {
	t.Helper()
	return New("test-session", decision, optionA, optionB, leaning, lexicon.Default())
}

// answerAll drives the session to completion, answering every scale question
// with the given raw value and every free-text question with filler.
func answerAll(t *testing.T, s *Session, raw float64) {
	t.Helper()
	for {
		current := s.Next()
		if current == nil {
			return
		}
		var payload AnswerPayload
		switch current.Type {
		case question.TypeSingleScale:
			payload.Value = raw
		case question.TypePairScale:
			payload.ValueA = raw
			payload.ValueB = raw
		case question.TypeFreeText:
			payload.Text = "noted"
		}
		if _, _, err := s.Submit(current.ID, payload); err != nil {
			t.Fatalf("submit %s: %v", current.ID, err)
		}
	}
}

func TestSessionLabelFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		optionA  string
		optionB  string
		labelA   string
		labelB   string
	}{
		{"explicit labels win", "Should I quit or stay", "Leave the job", "Keep the job", "Leave the job", "Keep the job"},
		{"inferred from text", "Should I quit or stay", "", "", "Quit", "Stay"},
		{"generic fallback", "no clear split here", "", "", "Option A", "Option B"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, tc.decision, tc.optionA, tc.optionB, "A")
			a, b := s.Options()
			if a != tc.labelA || b != tc.labelB {
				t.Fatalf("expected (%q,%q) got (%q,%q)", tc.labelA, tc.labelB, a, b)
			}
		})
	}
}

func TestSessionEmptyDecision(t *testing.T) {
	s := newTestSession(t, "   ", "", "", "A")
	result := s.Finalize()
	if result.Decision != "Undescribed decision" {
		t.Fatalf("expected placeholder got %q", result.Decision)
	}
	if result.Profile.Context != classify.ContextGeneric {
		t.Fatalf("expected generic context got %s", result.Profile.Context)
	}
}

func TestFollowUpInjection(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")

	before := s.Progress()
	current := s.Next()
	if current == nil || current.ID != "emotion" {
		t.Fatalf("expected emotion first got %+v", current)
	}

	progress, injected, err := s.Submit("emotion", AnswerPayload{Value: 9})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !injected {
		t.Fatal("expected follow-up injection")
	}
	if progress.Total != before.Total+1 {
		t.Fatalf("expected total %d got %d", before.Total+1, progress.Total)
	}

	// The injected question must appear exactly once in the remaining flow.
	count := 0
	for {
		current := s.Next()
		if current == nil {
			break
		}
		if current.ID == "emotion_source_note" {
			count++
		}
		payload := AnswerPayload{Value: 5, ValueA: 5, ValueB: 5, Text: "noted"}
		if _, _, err := s.Submit(current.ID, payload); err != nil {
			t.Fatalf("submit %s: %v", current.ID, err)
		}
	}
	if count != 1 {
		t.Fatalf("expected emotion_source_note once got %d", count)
	}
}

func TestRequiredTextRejectedWithoutAdvance(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")

	if _, _, err := s.Submit("emotion", AnswerPayload{Value: 9}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Walk to the injected required note.
	for {
		current := s.Next()
		if current == nil {
			t.Fatal("ran out of questions before the injected note")
		}
		if current.ID == "emotion_source_note" {
			break
		}
		if _, _, err := s.Submit(current.ID, AnswerPayload{Value: 5, ValueA: 5, ValueB: 5, Text: "x"}); err != nil {
			t.Fatalf("submit %s: %v", current.ID, err)
		}
	}

	before := s.Progress()
	_, _, err := s.Submit("emotion_source_note", AnswerPayload{Text: "   "})
	if !errors.Is(err, ErrAnswerRequired) {
		t.Fatalf("expected ErrAnswerRequired got %v", err)
	}
	if s.Progress().Completed != before.Completed {
		t.Fatal("rejected answer advanced the question index")
	}
	if current := s.Next(); current == nil || current.ID != "emotion_source_note" {
		t.Fatalf("expected the note to remain current got %+v", current)
	}

	if _, _, err := s.Submit("emotion_source_note", AnswerPayload{Text: "deadline fear"}); err != nil {
		t.Fatalf("submit after fix: %v", err)
	}
}

func TestSubmitMismatchedQuestion(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")
	if _, _, err := s.Submit("fairness", AnswerPayload{Value: 5}); !errors.Is(err, ErrQuestionMismatch) {
		t.Fatalf("expected ErrQuestionMismatch got %v", err)
	}
}

func TestSubmitAfterComplete(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")
	answerAll(t, s, 5)
	if !s.Done() {
		t.Fatal("expected session done")
	}
	if _, _, err := s.Submit("emotion", AnswerPayload{Value: 5}); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete got %v", err)
	}
}

func TestNeutralRunProducesBalancedResult(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")
	answerAll(t, s, 5)

	result := s.Finalize()
	if math.Abs(result.Signals.DistortionRisk-0.4125) > 1e-9 {
		t.Fatalf("expected 0.4125 got %v", result.Signals.DistortionRisk)
	}
	if result.RiskLabel != scoring.RiskBalanced {
		t.Fatalf("expected %q got %q", scoring.RiskBalanced, result.RiskLabel)
	}
	if result.Signals.JustificationGap != 0 {
		t.Fatalf("expected zero gap got %v", result.Signals.JustificationGap)
	}
	if result.Practical {
		t.Fatal("neutral answers must not flag practical preference")
	}
}

func TestLeaningSelectsChosenOption(t *testing.T) {
	s := newTestSession(t, "Should I quit or stay", "", "", "B")
	result := s.Finalize()
	if result.ChosenLabel != "Stay" || result.OtherLabel != "Quit" {
		t.Fatalf("expected Stay/Quit got %s/%s", result.ChosenLabel, result.OtherLabel)
	}
}

func TestFinalizeCachedUntilNewAnswer(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")
	first := s.Finalize()

	if _, _, err := s.Submit("emotion", AnswerPayload{Value: 10}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	second := s.Finalize()
	if second.Signals.BiasPressure <= first.Signals.BiasPressure {
		t.Fatalf("expected bias pressure to rise: %v -> %v", first.Signals.BiasPressure, second.Signals.BiasPressure)
	}
}

func TestManagerIsolation(t *testing.T) {
	manager := NewManager(lexicon.Default())
	first := manager.Start("Should I quit or stay", "", "", "A")
	second := manager.Start("pick a movie tonight", "", "", "A")

	if first.ID() == second.ID() {
		t.Fatal("expected unique session ids")
	}
	if manager.Count() != 2 {
		t.Fatalf("expected 2 sessions got %d", manager.Count())
	}

	secondTotal := second.Progress().Total
	if _, _, err := first.Submit("emotion", AnswerPayload{Value: 9}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	// The injection in the first session must not leak into the second.
	if second.Progress().Total != secondTotal {
		t.Fatalf("second session total drifted: %d -> %d", secondTotal, second.Progress().Total)
	}

	if !manager.Discard(first.ID()) {
		t.Fatal("expected discard to succeed")
	}
	if _, ok := manager.Get(first.ID()); ok {
		t.Fatal("expected discarded session to be gone")
	}
	if manager.Discard(first.ID()) {
		t.Fatal("expected second discard to fail")
	}
}

func TestScaleAnswersClamped(t *testing.T) {
	s := newTestSession(t, "pick a direction", "", "", "A")
	if _, _, err := s.Submit("emotion", AnswerPayload{Value: 42}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	result := s.Finalize()
	if result.Signals.BiasPressure > 1 {
		t.Fatalf("out-of-range input leaked: %v", result.Signals.BiasPressure)
	}
}
