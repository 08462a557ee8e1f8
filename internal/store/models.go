package store

import (
	"encoding/json"
	"strings"
	"time"

	"biaslab/backend/internal/bias"
)

// SessionRecord is the persisted summary of a finalized analysis session.
// In-flight question history is deliberately not stored.
type SessionRecord struct {
	ID                  uint   `gorm:"primaryKey"`
	SessionID           string `gorm:"size:64;uniqueIndex"`
	Decision            string `gorm:"type:text"`
	Context             string `gorm:"size:32;index"`
	Scale               string `gorm:"size:16;index"`
	Confidence          string `gorm:"size:16"`
	OptionA             string `gorm:"size:255"`
	OptionB             string `gorm:"size:255"`
	ChosenOption        string `gorm:"size:255"`
	OtherOption         string `gorm:"size:255"`
	DistortionRisk      float64
	IntegrityScore      float64
	ChosenRational      float64
	OtherRational       float64
	JustificationGap    float64
	BiasPressure        float64
	ForesightGap        float64
	FairnessRisk        float64
	RiskLabel           string `gorm:"size:64;index"`
	PracticalPreference bool
	FindingsJSON        string `gorm:"type:text"`
	NotesJSON           string `gorm:"type:text"`
	DurationMs          int64
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

// SetFindings persists the bias findings as JSON.
func (r *SessionRecord) SetFindings(findings []bias.Finding) {
	if findings == nil {
		r.FindingsJSON = "[]"
		return
	}
	payload, _ := json.Marshal(findings)
	r.FindingsJSON = string(payload)
}

// Findings returns the decoded bias findings.
func (r *SessionRecord) Findings() []bias.Finding {
	if strings.TrimSpace(r.FindingsJSON) == "" {
		return nil
	}
	var out []bias.Finding
	if err := json.Unmarshal([]byte(r.FindingsJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetNotes persists the free-text answers as JSON.
func (r *SessionRecord) SetNotes(notes map[string]string) {
	if notes == nil {
		r.NotesJSON = "{}"
		return
	}
	payload, _ := json.Marshal(notes)
	r.NotesJSON = string(payload)
}

// Notes returns the decoded free-text answers.
func (r *SessionRecord) Notes() map[string]string {
	if strings.TrimSpace(r.NotesJSON) == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(r.NotesJSON), &out); err != nil {
		return nil
	}
	return out
}
