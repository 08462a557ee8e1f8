package bias

import (
	"math"
	"testing"

	"biaslab/backend/internal/scoring"
)

func findByName(findings []Finding, name string) *Finding {
	for i := range findings {
		if findings[i].Name == name {
			return &findings[i]
		}
	}
	return nil
}

func TestDetectSingleRules(t *testing.T) {
	tests := []struct {
		name    string
		answers scoring.Answers
		bias    string
	}{
		{"emotional reasoning", scoring.Answers{"emotion": 0.8, "counter_strength": 0.6, "alt_exploration": 0.6, "failure_preview": 0.6, "regret_preview": 0.6}, "Emotional Reasoning"},
		{"social pressure", scoring.Answers{"social_pressure": 0.7, "counter_strength": 0.6, "alt_exploration": 0.6, "failure_preview": 0.6, "regret_preview": 0.6}, "Social Pressure Bias"},
		{"sunk cost", scoring.Answers{"sunk_cost": 0.65, "counter_strength": 0.6, "alt_exploration": 0.6, "failure_preview": 0.6, "regret_preview": 0.6}, "Sunk Cost Fallacy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			signals := scoring.SignalSet{ChosenRational: 0.6, LowEvidencePenalty: 0.4}
			findings := Detect(tc.answers, signals)
			if findByName(findings, tc.bias) == nil {
				t.Fatalf("expected %s in %v", tc.bias, findings)
			}
		})
	}
}

func TestFairnessBlindSpot(t *testing.T) {
	// fairness 0.2 with harm_risk defaulting to 0.5: max(0.8, 0.5) = 0.8.
	answers := scoring.Answers{
		"fairness":         0.2,
		"counter_strength": 0.6,
		"alt_exploration":  0.6,
		"failure_preview":  0.6,
		"regret_preview":   0.6,
	}
	signals := scoring.SignalSet{ChosenRational: 0.6, LowEvidencePenalty: 0.4}
	findings := Detect(answers, signals)
	finding := findByName(findings, "Fairness Blind Spot")
	if finding == nil {
		t.Fatalf("expected fairness blind spot in %v", findings)
	}
	if math.Abs(finding.Score-0.8) > 1e-9 {
		t.Fatalf("expected score 0.8 got %v", finding.Score)
	}
}

func TestConfirmationUsesWorstOfTwo(t *testing.T) {
	answers := scoring.Answers{
		"counter_strength": 0.9, // inverted: 0.1
		"alt_exploration":  0.3, // inverted: 0.7
		"failure_preview":  0.6,
		"regret_preview":   0.6,
		"fairness":         0.8,
		"harm_risk":        0.2,
	}
	signals := scoring.SignalSet{ChosenRational: 0.6, LowEvidencePenalty: 0.4}
	finding := findByName(Detect(answers, signals), "Confirmation / Tunnel Vision")
	if finding == nil {
		t.Fatal("expected confirmation rule to fire")
	}
	if math.Abs(finding.Score-0.7) > 1e-9 {
		t.Fatalf("expected score 0.7 got %v", finding.Score)
	}
}

func TestWeakEvidenceRule(t *testing.T) {
	answers := scoring.Answers{
		"counter_strength": 0.6,
		"alt_exploration":  0.6,
		"failure_preview":  0.6,
		"regret_preview":   0.6,
		"fairness":         0.8,
		"harm_risk":        0.2,
	}
	signals := scoring.SignalSet{ChosenRational: 0.35, LowEvidencePenalty: 0.65}
	finding := findByName(Detect(answers, signals), "Weak-Evidence Decision Bias")
	if finding == nil {
		t.Fatal("expected weak-evidence rule to fire")
	}
	if math.Abs(finding.Score-0.65) > 1e-9 {
		t.Fatalf("expected score 0.65 got %v", finding.Score)
	}
}

func TestDetectCapsAtFour(t *testing.T) {
	// Push every answer to an extreme so most rules fire.
	answers := scoring.Answers{
		"emotion":             1,
		"social_pressure":     1,
		"sunk_cost":           1,
		"identity_attachment": 1,
		"loss_aversion":       1,
		"novelty_pull":        1,
		"counter_strength":    0,
		"alt_exploration":     0,
		"failure_preview":     0,
		"regret_preview":      0,
		"fairness":            0,
		"harm_risk":           1,
	}
	signals := scoring.SignalSet{ChosenRational: 0.2, LowEvidencePenalty: 0.8}
	findings := Detect(answers, signals)
	if len(findings) != 4 {
		t.Fatalf("expected 4 findings got %d", len(findings))
	}
	for i := 1; i < len(findings); i++ {
		if findings[i].Score > findings[i-1].Score {
			t.Fatalf("findings not sorted descending: %v", findings)
		}
	}
}

func TestDetectStableOnTies(t *testing.T) {
	// All maxed answers tie at 1.0; declaration order must hold.
	answers := scoring.Answers{
		"emotion":             1,
		"social_pressure":     1,
		"sunk_cost":           1,
		"identity_attachment": 1,
		"loss_aversion":       0.5,
		"novelty_pull":        0.5,
		"counter_strength":    1,
		"alt_exploration":     1,
		"failure_preview":     1,
		"regret_preview":      1,
		"fairness":            1,
		"harm_risk":           0,
	}
	signals := scoring.SignalSet{ChosenRational: 0.9, LowEvidencePenalty: 0.1}
	findings := Detect(answers, signals)
	expected := []string{"Emotional Reasoning", "Social Pressure Bias", "Sunk Cost Fallacy", "Identity Attachment Bias"}
	if len(findings) != len(expected) {
		t.Fatalf("expected %d findings got %d", len(expected), len(findings))
	}
	for i, name := range expected {
		if findings[i].Name != name {
			t.Fatalf("expected %s at %d got %s", name, i, findings[i].Name)
		}
	}
}

func TestDetectQuietAnswers(t *testing.T) {
	answers := scoring.Answers{
		"emotion":             0.2,
		"social_pressure":     0.1,
		"sunk_cost":           0.1,
		"identity_attachment": 0.2,
		"loss_aversion":       0.2,
		"novelty_pull":        0.1,
		"counter_strength":    0.8,
		"alt_exploration":     0.9,
		"failure_preview":     0.8,
		"regret_preview":      0.8,
		"fairness":            0.9,
		"harm_risk":           0.1,
	}
	signals := scoring.SignalSet{ChosenRational: 0.8, LowEvidencePenalty: 0.2}
	if findings := Detect(answers, signals); len(findings) != 0 {
		t.Fatalf("expected no findings got %v", findings)
	}
}
