package question

// followupTrigger maps an answer key and threshold onto a follow-up
// question. Direction selects whether the rule fires at-or-above or
// at-or-below the threshold.
type followupTrigger struct {
	key       string
	threshold float64
	below     bool
	build     func() Question
}

// followupTriggers is the closed trigger table evaluated after each
// cognitive answer. At most one rule exists per key.
var followupTriggers = []followupTrigger{
	{key: "emotion", threshold: 0.70, build: func() Question {
		return Question{
			ID:       "emotion_source_note",
			Type:     TypeFreeText,
			Key:      "emotion_source_note",
			Prompt:   "What exactly is creating this strong emotion?",
			Hint:     "Naming it helps reduce hidden bias.",
			Required: true,
		}
	}},
	{key: "social_pressure", threshold: 0.60, build: func() Question {
		return Question{
			ID:       "social_source_note",
			Type:     TypeFreeText,
			Key:      "social_source_note",
			Prompt:   "Who is influencing your decision the most right now?",
			Hint:     "Be specific.",
			Required: true,
		}
	}},
	{key: "urgency", threshold: 0.65, build: func() Question {
		return Question{
			ID:       "urgency_reason_note",
			Type:     TypeFreeText,
			Key:      "urgency_reason_note",
			Prompt:   "Is this urgency truly real, or are you creating it yourself?",
			Hint:     "Write one sentence.",
			Required: true,
		}
	}},
	{key: "counter_strength", threshold: 0.45, below: true, build: func() Question {
		return Question{
			ID:       "counter_text",
			Type:     TypeFreeText,
			Key:      "counter_text",
			Prompt:   "Write one strong reason your current preferred option might be wrong.",
			Hint:     "This is required for bias resistance.",
			Required: true,
		}
	}},
	{key: "fairness", threshold: 0.45, below: true, build: func() Question {
		return Question{
			ID:      "harm_risk",
			Type:    TypeSingleScale,
			Key:     "harm_risk",
			Prompt:  "If your choice is unfair, how much harm could it cause others?",
			Hint:    "0 = almost none, 10 = severe harm",
			Default: 6,
		}
	}},
}

// FollowUp returns the follow-up question triggered by the given answer key
// and normalized value, if any. Idempotency is enforced by the queue's
// identity set, not here.
func FollowUp(key string, value float64) (Question, bool) {
	for _, trigger := range followupTriggers {
		if trigger.key != key {
			continue
		}
		if trigger.below {
			if value <= trigger.threshold {
				return trigger.build(), true
			}
		} else if value >= trigger.threshold {
			return trigger.build(), true
		}
		break
	}
	return Question{}, false
}
