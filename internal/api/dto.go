package api

import (
	"strings"
	"time"

	"biaslab/backend/internal/bias"
	"biaslab/backend/internal/classify"
	"biaslab/backend/internal/question"
	"biaslab/backend/internal/scoring"
	"biaslab/backend/internal/session"
	"biaslab/backend/internal/store"
)

// StartSessionRequest opens a new analysis session.
type StartSessionRequest struct {
	Decision string `json:"decision"`
	OptionA  string `json:"option_a"`
	OptionB  string `json:"option_b"`
	Leaning  string `json:"leaning"`
}

// StartSessionResponse returns the classified profile and the first question.
type StartSessionResponse struct {
	SessionID string             `json:"session_id"`
	Profile   classify.Profile   `json:"profile"`
	OptionA   string             `json:"option_a"`
	OptionB   string             `json:"option_b"`
	Question  *question.Question `json:"question"`
	Progress  session.Progress   `json:"progress"`
}

// NextResponse carries the pending question, or done once both phases finish.
type NextResponse struct {
	SessionID string             `json:"session_id"`
	Done      bool               `json:"done"`
	Question  *question.Question `json:"question,omitempty"`
	Progress  session.Progress   `json:"progress"`
}

// AnswerRequest submits one answer for the identified question.
type AnswerRequest struct {
	QuestionID string  `json:"question_id"`
	Value      float64 `json:"value"`
	ValueA     float64 `json:"value_a"`
	ValueB     float64 `json:"value_b"`
	Text       string  `json:"text"`
}

// AnswerResponse reports progress after an accepted answer. Injected is true
// when the answer triggered a follow-up question.
type AnswerResponse struct {
	SessionID string             `json:"session_id"`
	Progress  session.Progress   `json:"progress"`
	Injected  bool               `json:"injected"`
	Done      bool               `json:"done"`
	Question  *question.Question `json:"question,omitempty"`
}

// ResultDTO is the API representation for a finalized session.
type ResultDTO struct {
	SessionID   string              `json:"session_id"`
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

// ResultFromSession converts a finalized result into the DTO representation.
func ResultFromSession(sessionID string, r session.Result) ResultDTO {
	return ResultDTO{
		SessionID:   sessionID,
		Decision:    r.Decision,
		Profile:     r.Profile,
		OptionA:     r.OptionA,
		OptionB:     r.OptionB,
		ChosenLabel: r.ChosenLabel,
		OtherLabel:  r.OtherLabel,
		Signals:     r.Signals,
		Components:  r.Components,
		RiskLabel:   r.RiskLabel,
		Practical:   r.Practical,
		Findings:    r.Findings,
		Notes:       r.Notes,
		DurationMs:  r.DurationMs,
	}
}

// SessionStatusResponse describes the most recent broadcast activity.
type SessionStatusResponse struct {
	ActiveSessions int    `json:"active_sessions"`
	State          string `json:"state"`
	SessionID      string `json:"session_id"`
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	Phase          string `json:"phase"`
	RiskLabel      string `json:"risk_label"`
}

// HistoryDTO is the API representation for a stored session record.
type HistoryDTO struct {
	ID               uint           `json:"id"`
	SessionID        string         `json:"session_id"`
	Decision         string         `json:"decision"`
	Context          string         `json:"context"`
	Scale            string         `json:"scale"`
	Confidence       string         `json:"confidence"`
	OptionA          string         `json:"option_a"`
	OptionB          string         `json:"option_b"`
	ChosenOption     string         `json:"chosen_option"`
	OtherOption      string         `json:"other_option"`
	DistortionRisk   float64        `json:"distortion_risk"`
	IntegrityScore   float64        `json:"integrity_score"`
	ChosenRational   float64        `json:"chosen_rational"`
	OtherRational    float64        `json:"other_rational"`
	JustificationGap float64        `json:"justification_gap"`
	BiasPressure     float64        `json:"bias_pressure"`
	ForesightGap     float64        `json:"foresight_gap"`
	FairnessRisk     float64        `json:"fairness_risk"`
	RiskLabel        string         `json:"risk_label"`
	Practical        bool           `json:"practical_preference"`
	Findings         []bias.Finding `json:"findings"`
	DurationMs       int64          `json:"duration_ms"`
	CreatedAt        time.Time      `json:"created_at"`
}

// HistoryResponse is the paginated response for stored sessions.
type HistoryResponse struct {
	Items []HistoryDTO `json:"items"`
	Total int64        `json:"total"`
}

// FromRecord converts a store.SessionRecord into the DTO representation.
func FromRecord(r store.SessionRecord) HistoryDTO {
	findings := r.Findings()
	if findings == nil {
		findings = []bias.Finding{}
	}
	return HistoryDTO{
		ID:               r.ID,
		SessionID:        r.SessionID,
		Decision:         strings.TrimSpace(r.Decision),
		Context:          r.Context,
		Scale:            r.Scale,
		Confidence:       r.Confidence,
		OptionA:          r.OptionA,
		OptionB:          r.OptionB,
		ChosenOption:     r.ChosenOption,
		OtherOption:      r.OtherOption,
		DistortionRisk:   round2(r.DistortionRisk),
		IntegrityScore:   round2(r.IntegrityScore),
		ChosenRational:   round2(r.ChosenRational),
		OtherRational:    round2(r.OtherRational),
		JustificationGap: round2(r.JustificationGap),
		BiasPressure:     round2(r.BiasPressure),
		ForesightGap:     round2(r.ForesightGap),
		FairnessRisk:     round2(r.FairnessRisk),
		RiskLabel:        r.RiskLabel,
		Practical:        r.PracticalPreference,
		Findings:         findings,
		DurationMs:       r.DurationMs,
		CreatedAt:        r.CreatedAt,
	}
}

// RecordFromResult builds the persistable row for a finalized session.
func RecordFromResult(sessionID string, r session.Result) *store.SessionRecord {
	record := &store.SessionRecord{
		SessionID:           sessionID,
		Decision:            r.Decision,
		Context:             r.Profile.Context,
		Scale:               r.Profile.Scale,
		Confidence:          r.Profile.Confidence,
		OptionA:             r.OptionA,
		OptionB:             r.OptionB,
		ChosenOption:        r.ChosenLabel,
		OtherOption:         r.OtherLabel,
		DistortionRisk:      r.Signals.DistortionRisk,
		IntegrityScore:      r.Signals.Integrity,
		ChosenRational:      r.Signals.ChosenRational,
		OtherRational:       r.Signals.OtherRational,
		JustificationGap:    r.Signals.JustificationGap,
		BiasPressure:        r.Signals.BiasPressure,
		ForesightGap:        r.Signals.ForesightGap,
		FairnessRisk:        r.Signals.FairnessRisk,
		RiskLabel:           r.RiskLabel,
		PracticalPreference: r.Practical,
		DurationMs:          r.DurationMs,
	}
	record.SetFindings(r.Findings)
	record.SetNotes(r.Notes)
	return record
}

func round2(v float64) float64 {
	if v < 0 {
		return -float64(int(-v*100+0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}
