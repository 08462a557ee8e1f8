package bias

import (
	"sort"

	"biaslab/backend/internal/scoring"
)

// Finding is one detected bias pattern with its score and guidance text.
type Finding struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Reality string  `json:"reality"`
	Action  string  `json:"action"`
}

// rule is a data record plus a pure scoring function. The rule set is closed
// and evaluated in declaration order.
type rule struct {
	name      string
	threshold float64
	score     func(answers scoring.Answers, signals scoring.SignalSet) float64
	reality   string
	action    string
}

// maxFindings caps the reported pattern list.
const maxFindings = 4

var rules = []rule{
	{
		name:      "Emotional Reasoning",
		threshold: 0.70,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return a.Get("emotion")
		},
		reality: "Your feelings are so strong they may be driving the choice.",
		action:  "Wait for emotions to cool down, then re-answer the questions.",
	},
	{
		name:      "Social Pressure Bias",
		threshold: 0.65,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return a.Get("social_pressure")
		},
		reality: "Other people may be pushing your choice more than your own values.",
		action:  "Decide in private first, then compare with outside opinions.",
	},
	{
		name:      "Sunk Cost Fallacy",
		threshold: 0.60,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return a.Get("sunk_cost")
		},
		reality: "Past time/money may be trapping you in this choice.",
		action:  "Ask: 'If I started today, would I still choose this?'",
	},
	{
		name:      "Identity Attachment Bias",
		threshold: 0.65,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return a.Get("identity_attachment")
		},
		reality: "Your self-image may be tied to one option.",
		action:  "Imagine you are advising a close friend with the same facts.",
	},
	{
		name:      "Loss Aversion Bias",
		threshold: 0.65,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return a.Get("loss_aversion")
		},
		reality: "Fear of loss may be louder than real upside/downside balance.",
		action:  "List likely losses and likely gains side by side.",
	},
	{
		name:      "Novelty Attraction Bias",
		threshold: 0.65,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return a.Get("novelty_pull")
		},
		reality: "Newness/excitement may be making one option look better than it is.",
		action:  "Re-score options while ignoring excitement and focusing on outcomes.",
	},
	{
		name:      "Confirmation / Tunnel Vision",
		threshold: 0.55,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return maxFloat(1-a.Get("counter_strength"), 1-a.Get("alt_exploration"))
		},
		reality: "You may be focusing too much on one side and not testing the other.",
		action:  "Write the strongest argument for the opposite option.",
	},
	{
		name:      "Outcome Blindness (Optimism Bias)",
		threshold: 0.60,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return ((1 - a.Get("failure_preview")) + (1 - a.Get("regret_preview"))) / 2
		},
		reality: "You may be underthinking how this could go wrong.",
		action:  "Write a worst-case story and how you would handle it.",
	},
	{
		name:      "Fairness Blind Spot",
		threshold: 0.60,
		score: func(a scoring.Answers, _ scoring.SignalSet) float64 {
			return maxFloat(1-a.Get("fairness"), a.Get("harm_risk"))
		},
		reality: "You may be underweighting how this affects other people.",
		action:  "List who is affected and how your choice changes their life.",
	},
	{
		name:      "Weak-Evidence Decision Bias",
		threshold: 0.60,
		score: func(_ scoring.Answers, s scoring.SignalSet) float64 {
			return maxFloat(1-s.ChosenRational, s.LowEvidencePenalty)
		},
		reality: "Your choice may not be backed by enough real proof yet.",
		action:  "Collect 2-3 concrete facts before fully committing.",
	},
}

// Detect evaluates the rule table against the answers and signals, returning
// at most the top four firing patterns sorted by score. Equal scores keep
// declaration order.
func Detect(answers scoring.Answers, signals scoring.SignalSet) []Finding {
	var hits []Finding
	for _, r := range rules {
		score := r.score(answers, signals)
		if score >= r.threshold {
			hits = append(hits, Finding{
				Name:    r.name,
				Score:   score,
				Reality: r.reality,
				Action:  r.action,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > maxFindings {
		hits = hits[:maxFindings]
	}
	return hits
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
