package question

import (
	"fmt"

	"biaslab/backend/internal/classify"
)

// Labels carries the resolved option names used when phrasing prompts.
// Chosen/Other reflect the user's stated leaning.
type Labels struct {
	OptionA string
	OptionB string
	Chosen  string
	Other   string
}

// BuildCognitive returns the ordered cognitive question set for the detected
// scale and context. Small decisions get a short baseline (plus a novelty
// probe for purchases); standard and major share a baseline, with five extra
// probes spliced in at index 3 for major decisions.
func BuildCognitive(scale, context string, labels Labels) []Question {
	if scale == classify.ScaleSmall {
		questions := []Question{
			{ID: "emotion", Type: TypeSingleScale, Key: "emotion",
				Prompt: "How emotionally loaded are you about this decision right now?",
				Hint:   "0 = calm, 10 = very emotional", Default: 3},
			{ID: "urgency", Type: TypeSingleScale, Key: "urgency",
				Prompt: "How rushed do you feel to decide now?",
				Hint:   "0 = no rush, 10 = extreme rush", Default: 3},
			{ID: "social_pressure", Type: TypeSingleScale, Key: "social_pressure",
				Prompt: "How much are others pushing you toward one option?",
				Hint:   "0 = no pressure from others, 10 = very strong pressure", Default: 2},
			{ID: "counter_strength", Type: TypeSingleScale, Key: "counter_strength",
				Prompt: "How strong is the best case for the other option?",
				Hint:   "0 = almost no case, 10 = very strong case", Default: 5},
			{ID: "alt_exploration", Type: TypeSingleScale, Key: "alt_exploration",
				Prompt: "Did you genuinely check at least one other option?",
				Hint:   "0 = not at all, 10 = yes carefully", Default: 5},
			{ID: "fairness", Type: TypeSingleScale, Key: "fairness",
				Prompt: "How respectful and fair is this choice to everyone involved?",
				Hint:   "0 = unfair/disrespectful, 10 = very fair/respectful", Default: 8},
		}
		if context == "purchase" {
			novelty := Question{ID: "novelty_pull", Type: TypeSingleScale, Key: "novelty_pull",
				Prompt: "Are you choosing mostly because it feels new/exciting?",
				Hint:   "0 = no, 10 = mostly yes", Default: 4}
			questions = append(questions[:3], append([]Question{novelty}, questions[3:]...)...)
		}
		return customizeWording(questions, context, labels)
	}

	questions := []Question{
		{ID: "emotion", Type: TypeSingleScale, Key: "emotion",
			Prompt: "How emotionally charged do you feel about this decision?",
			Hint:   "0 = calm, 10 = highly emotional", Default: 5},
		{ID: "urgency", Type: TypeSingleScale, Key: "urgency",
			Prompt: "How much pressure do you feel to decide fast?",
			Hint:   "0 = no pressure, 10 = very rushed", Default: 5},
		{ID: "social_pressure", Type: TypeSingleScale, Key: "social_pressure",
			Prompt: "How much are family/friends/society pushing your choice?",
			Hint:   "0 = no influence, 10 = very strong influence", Default: 4},
		{ID: "counter_strength", Type: TypeSingleScale, Key: "counter_strength",
			Prompt: "How strong is the best case for the opposite option?",
			Hint:   "0 = very weak, 10 = very strong", Default: 5},
		{ID: "alt_exploration", Type: TypeSingleScale, Key: "alt_exploration",
			Prompt: "How seriously did you compare other options?",
			Hint:   "0 = barely compared, 10 = compared thoroughly", Default: 5},
		{ID: "fairness", Type: TypeSingleScale, Key: "fairness",
			Prompt: "How respectful and fair is your current choice to all affected people?",
			Hint:   "0 = unfair/disrespectful, 10 = very fair/respectful", Default: 7},
		{ID: "harm_risk", Type: TypeSingleScale, Key: "harm_risk",
			Prompt: "If this choice turns out wrong, how serious could the damage be?",
			Hint:   "0 = almost no harm, 10 = severe harm", Default: 5},
	}

	if scale == classify.ScaleMajor {
		additions := []Question{
			{ID: "identity_attachment", Type: TypeSingleScale, Key: "identity_attachment",
				Prompt: "How much is your self-image attached to one option?",
				Hint:   "0 = not attached, 10 = strongly attached", Default: 5},
			{ID: "sunk_cost", Type: TypeSingleScale, Key: "sunk_cost",
				Prompt: "How much are past time/money efforts trapping you in this choice?",
				Hint:   "0 = no effect, 10 = very strong effect", Default: 5},
			{ID: "loss_aversion", Type: TypeSingleScale, Key: "loss_aversion",
				Prompt: "How much fear of losing something is driving this choice?",
				Hint:   "0 = not at all, 10 = very much", Default: 5},
			{ID: "failure_preview", Type: TypeSingleScale, Key: "failure_preview",
				Prompt: "How clearly can you imagine this choice going badly?",
				Hint:   "0 = cannot imagine, 10 = very clearly", Default: 5},
			{ID: "regret_preview", Type: TypeSingleScale, Key: "regret_preview",
				Prompt: "How clearly can you imagine regretting this later?",
				Hint:   "0 = unclear, 10 = very clear", Default: 5},
		}
		questions = append(questions[:3], append(additions, questions[3:]...)...)
	}

	return customizeWording(questions, context, labels)
}

// BuildComparison returns the pairwise criterion questions for the scale and
// context, followed by the two optional free-text reason questions.
func BuildComparison(scale, context string, labels Labels) []Question {
	var keys []string
	switch scale {
	case classify.ScaleSmall:
		keys = []string{"need_fit", "tradeoff", "evidence"}
		if context == "purchase" {
			keys = append(keys, "compatibility")
		}
	case classify.ScaleMajor:
		keys = []string{"need_fit", "evidence", "long_term", "compatibility", "tradeoff"}
	default:
		keys = []string{"need_fit", "evidence", "tradeoff", "compatibility"}
	}

	if context == "relationship" && !containsKey(keys, "long_term") {
		keys = append(keys[:2], append([]string{"long_term"}, keys[2:]...)...)
	}

	questions := make([]Question, 0, len(keys)+2)
	for _, key := range keys {
		questions = append(questions, Question{
			ID:      "pair_" + key,
			Type:    TypePairScale,
			Key:     key,
			Prompt:  criterionPrompt(key),
			Hint:    fmt.Sprintf("Rate %s and %s separately on this criterion.", labels.OptionA, labels.OptionB),
			Default: 5,
		})
	}

	questions = append(questions, Question{
		ID:     "reason_a",
		Type:   TypeFreeText,
		Key:    "reason_a",
		Prompt: fmt.Sprintf("In one sentence: best practical reason to choose %s", labels.OptionA),
		Hint:   "Use practical reasons, not vibes.",
	})
	questions = append(questions, Question{
		ID:     "reason_b",
		Type:   TypeFreeText,
		Key:    "reason_b",
		Prompt: fmt.Sprintf("In one sentence: best practical reason to choose %s", labels.OptionB),
		Hint:   "Use practical reasons, not vibes.",
	})
	return questions
}

func criterionPrompt(key string) string {
	prompts := map[string]string{
		"need_fit":      "How helpful is this option for what you actually want right now?",
		"long_term":     "How good is this option after 6-12 months?",
		"tradeoff":      "Is this option worth what you must give up (money/time/effort)?",
		"evidence":      "How much real proof supports this option (facts, patterns, data)?",
		"compatibility": "How easily does this option fit your current life/system?",
	}
	if prompt, ok := prompts[key]; ok {
		return prompt
	}
	return key
}

// customizeWording rewrites prompts for the detected context so questions
// read concretely. The counter_strength override is universal and names both
// options.
func customizeWording(questions []Question, context string, labels Labels) []Question {
	promptOverrides := map[string]string{
		"counter_strength": fmt.Sprintf("How strong is the best case for '%s' instead of '%s'?", labels.Other, labels.Chosen),
	}
	hintOverrides := map[string]string{
		"counter_strength": "0 = almost no case for the other option, 10 = very strong case for the other option",
	}

	switch context {
	case "relationship":
		promptOverrides["emotion"] = "How emotionally affected are you when you think about this person/situation?"
		promptOverrides["social_pressure"] = "How much are friends/family/social opinions shaping this choice?"
		promptOverrides["fairness"] = "How respectful is your current choice for both people involved?"
		promptOverrides["alt_exploration"] = "Have you seriously considered both paths (approach vs not approach / continue vs stop)?"
	case "career":
		promptOverrides["social_pressure"] = "How much are status/parents/society pushing this choice?"
		promptOverrides["identity_attachment"] = "How much is this tied to your image of success?"
		promptOverrides["evidence"] = "How strong are real facts (market, mentors, outcomes) supporting this?"
	case "purchase":
		promptOverrides["tradeoff"] = "How good is value-for-money in this option?"
		promptOverrides["compatibility"] = "How well does this fit your existing setup/ecosystem?"
	case "health":
		promptOverrides["emotion"] = "How much fear/anxiety is driving this health choice?"
		promptOverrides["evidence"] = "How strongly is this backed by trusted health advice/data?"
		promptOverrides["harm_risk"] = "If this choice is wrong, how much could it hurt your health?"
	case "academic":
		promptOverrides["urgency"] = "How rushed do you feel because of deadlines/exams?"
		promptOverrides["alt_exploration"] = "How much did you compare alternatives (course/plan/path) properly?"
	}

	out := make([]Question, len(questions))
	for i, q := range questions {
		if prompt, ok := promptOverrides[q.Key]; ok {
			q.Prompt = prompt
		}
		if hint, ok := hintOverrides[q.Key]; ok {
			q.Hint = hint
		}
		out[i] = q
	}
	return out
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
