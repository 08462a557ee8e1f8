package scoring

// CriteriaKeys are the pairwise comparison criteria scored per option.
var CriteriaKeys = []string{"need_fit", "long_term", "tradeoff", "evidence", "compatibility"}

// RationalWeights weight each criterion in the rational-quality score.
// The weights sum to 1.0.
var RationalWeights = map[string]float64{
	"evidence":      0.35,
	"need_fit":      0.20,
	"long_term":     0.20,
	"compatibility": 0.15,
	"tradeoff":      0.10,
}

// DistortionWeights weight each penalty in the final distortion risk.
// The weights sum to 1.0.
var DistortionWeights = map[string]float64{
	"bias_pressure":        0.40,
	"foresight_gap":        0.20,
	"fairness_risk":        0.15,
	"weak_choice_penalty":  0.15,
	"low_evidence_penalty": 0.10,
}

// BiasPressureKeys are the affective/cognitive distortion signals averaged
// into bias pressure, alongside the inverted counter_strength term.
var BiasPressureKeys = []string{
	"emotion",
	"urgency",
	"social_pressure",
	"sunk_cost",
	"identity_attachment",
	"loss_aversion",
	"novelty_pull",
}

// DefaultAnswer is substituted for any key the active question set never
// asked. Sparse coverage must never fail scoring.
const DefaultAnswer = 0.5

// Answers is a sparse normalized answer map with safe default lookup.
type Answers map[string]float64

// Get returns the stored value or the default for unasked keys.
func (a Answers) Get(key string) float64 {
	if v, ok := a[key]; ok {
		return v
	}
	return DefaultAnswer
}

// Normalize maps a raw 0-10 answer onto [0,1], clamping out-of-range input.
func Normalize(raw float64) float64 {
	return Clamp01(raw / 10.0)
}

// Clamp01 bounds a value to [0,1].
func Clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// RationalQuality computes the weighted rational score for one option's
// criterion answers.
func RationalQuality(scores Answers) float64 {
	total := 0.0
	for key, weight := range RationalWeights {
		total += scores.Get(key) * weight
	}
	return total
}

// BiasPressure averages the distortion signals plus the inverted
// counter-strength term, an eight-term unweighted mean.
func BiasPressure(answers Answers) float64 {
	values := make([]float64, 0, len(BiasPressureKeys)+1)
	for _, key := range BiasPressureKeys {
		values = append(values, answers.Get(key))
	}
	values = append(values, 1-answers.Get("counter_strength"))
	return mean(values)
}

// ForesightGap measures how weakly future consequences were explored.
func ForesightGap(answers Answers) float64 {
	return mean([]float64{
		1 - answers.Get("failure_preview"),
		1 - answers.Get("regret_preview"),
		1 - answers.Get("alt_exploration"),
	})
}

// FairnessRisk blends the fairness deficit with the harm-risk answer.
func FairnessRisk(answers Answers) float64 {
	return Clamp01((1-answers.Get("fairness"))*0.60 + answers.Get("harm_risk")*0.40)
}

// DistortionRisk composes the final risk from all core penalties.
func DistortionRisk(biasPressure, foresightGap, fairnessRisk, weakChoicePenalty, chosenRational float64) float64 {
	return Clamp01(
		biasPressure*DistortionWeights["bias_pressure"] +
			foresightGap*DistortionWeights["foresight_gap"] +
			fairnessRisk*DistortionWeights["fairness_risk"] +
			weakChoicePenalty*DistortionWeights["weak_choice_penalty"] +
			(1-chosenRational)*DistortionWeights["low_evidence_penalty"])
}

// PracticalPreference reports whether the chosen option is justified by
// criteria strength rather than bias. All five conditions are conjunctive.
func PracticalPreference(chosen Answers, justificationGap, counterStrength float64) bool {
	return chosen.Get("compatibility") >= 0.70 &&
		chosen.Get("need_fit") >= 0.65 &&
		chosen.Get("evidence") >= 0.55 &&
		justificationGap >= 0.05 &&
		counterStrength >= 0.45
}

// SignalSet is the full set of derived decision signals.
type SignalSet struct {
	BiasPressure       float64 `json:"bias_pressure"`
	ForesightGap       float64 `json:"foresight_gap"`
	FairnessRisk       float64 `json:"fairness_risk"`
	WeakChoicePenalty  float64 `json:"weak_choice_penalty"`
	LowEvidencePenalty float64 `json:"low_evidence_penalty"`
	ChosenRational     float64 `json:"chosen_rational"`
	OtherRational      float64 `json:"other_rational"`
	JustificationGap   float64 `json:"justification_gap"`
	DistortionRisk     float64 `json:"distortion_risk"`
	Integrity          float64 `json:"integrity"`
}

// Compute derives the signal set from the cognitive answers and both
// options' criterion answers.
func Compute(cognitive, chosen, other Answers) SignalSet {
	chosenRational := RationalQuality(chosen)
	otherRational := RationalQuality(other)
	justificationGap := chosenRational - otherRational

	weakChoicePenalty := 0.0
	if justificationGap < 0 {
		weakChoicePenalty = -justificationGap
	}

	biasPressure := BiasPressure(cognitive)
	foresightGap := ForesightGap(cognitive)
	fairnessRisk := FairnessRisk(cognitive)
	risk := DistortionRisk(biasPressure, foresightGap, fairnessRisk, weakChoicePenalty, chosenRational)

	return SignalSet{
		BiasPressure:       biasPressure,
		ForesightGap:       foresightGap,
		FairnessRisk:       fairnessRisk,
		WeakChoicePenalty:  weakChoicePenalty,
		LowEvidencePenalty: 1 - chosenRational,
		ChosenRational:     chosenRational,
		OtherRational:      otherRational,
		JustificationGap:   justificationGap,
		DistortionRisk:     risk,
		Integrity:          1 - risk,
	}
}

// Component is one labeled distortion component for chart-style consumers.
type Component struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Components returns the five distortion components in fixed order with
// display labels.
func (s SignalSet) Components() []Component {
	return []Component{
		{Key: "bias_pressure", Label: "Pressure / Emotions", Value: s.BiasPressure},
		{Key: "foresight_gap", Label: "Future Not Considered", Value: s.ForesightGap},
		{Key: "fairness_risk", Label: "Fairness Risk", Value: s.FairnessRisk},
		{Key: "weak_choice_penalty", Label: "Other Option Looks Stronger", Value: s.WeakChoicePenalty},
		{Key: "low_evidence_penalty", Label: "Low Real Evidence", Value: s.LowEvidencePenalty},
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
