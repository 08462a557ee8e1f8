package store

import (
	"path/filepath"
	"testing"

	"biaslab/backend/internal/bias"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "biaslab-test.db"), true)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRecord(sessionID string) *SessionRecord {
	record := &SessionRecord{
		SessionID:           sessionID,
		Decision:            "Should I take the new job or stay",
		Context:             "career",
		Scale:               "major",
		Confidence:          "high",
		OptionA:             "Take the new job",
		OptionB:             "Stay",
		ChosenOption:        "Take the new job",
		OtherOption:         "Stay",
		DistortionRisk:      0.4125,
		IntegrityScore:      0.5875,
		ChosenRational:      0.5,
		OtherRational:       0.5,
		JustificationGap:    0,
		BiasPressure:        0.5,
		ForesightGap:        0.5,
		FairnessRisk:        0.5,
		RiskLabel:           "Balanced but Needs Reflection",
		PracticalPreference: false,
		DurationMs:          1200,
	}
	record.SetFindings([]bias.Finding{
		{Name: "Emotional Reasoning", Score: 0.8, Reality: "reality", Action: "action"},
	})
	record.SetNotes(map[string]string{"counter_text": "the other role pays better"})
	return record
}

func TestSaveSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveSession(sampleRecord("s-1")); err != nil {
		t.Fatalf("save session: %v", err)
	}

	stored, err := db.GetSession("s-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if stored.Decision != "Should I take the new job or stay" {
		t.Fatalf("expected decision round-trip got %q", stored.Decision)
	}
	if stored.DistortionRisk != 0.4125 {
		t.Fatalf("expected 0.4125 got %v", stored.DistortionRisk)
	}
	findings := stored.Findings()
	if len(findings) != 1 || findings[0].Name != "Emotional Reasoning" {
		t.Fatalf("expected decoded findings got %+v", findings)
	}
	if findings[0].Score != 0.8 {
		t.Fatalf("expected finding score 0.8 got %v", findings[0].Score)
	}
	notes := stored.Notes()
	if notes["counter_text"] != "the other role pays better" {
		t.Fatalf("expected decoded notes got %+v", notes)
	}
}

func TestSaveSessionUpsert(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveSession(sampleRecord("s-1")); err != nil {
		t.Fatalf("save session: %v", err)
	}

	// Re-finalizing after a late answer replaces the existing row.
	updated := sampleRecord("s-1")
	updated.DistortionRisk = 0.71
	updated.RiskLabel = "Elevated Distortion Risk"
	updated.SetFindings(nil)
	if err := db.SaveSession(updated); err != nil {
		t.Fatalf("re-save session: %v", err)
	}

	count, err := db.CountSessions()
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after upsert got %d", count)
	}

	stored, err := db.GetSession("s-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if stored.RiskLabel != "Elevated Distortion Risk" {
		t.Fatalf("expected updated risk label got %q", stored.RiskLabel)
	}
	if stored.DistortionRisk != 0.71 {
		t.Fatalf("expected updated risk got %v", stored.DistortionRisk)
	}
	if len(stored.Findings()) != 0 {
		t.Fatalf("expected cleared findings got %+v", stored.Findings())
	}
}

func TestSaveSessionRejectsEmptyID(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveSession(&SessionRecord{SessionID: "  "}); err == nil {
		t.Fatal("expected error for empty session id")
	}
	if err := db.SaveSession(nil); err == nil {
		t.Fatal("expected error for nil record")
	}
}

func TestListSessionsFilters(t *testing.T) {
	db := openTestDB(t)

	career := sampleRecord("s-career")
	purchase := sampleRecord("s-purchase")
	purchase.Decision = "Should I buy the new phone or save the money"
	purchase.Context = "purchase"
	purchase.Scale = "standard"
	purchase.DistortionRisk = 0.12
	purchase.RiskLabel = "High Decision Integrity"
	purchase.PracticalPreference = true
	for _, record := range []*SessionRecord{career, purchase} {
		if err := db.SaveSession(record); err != nil {
			t.Fatalf("save session %s: %v", record.SessionID, err)
		}
	}

	tests := []struct {
		name  string
		query SessionQuery
		want  []string
	}{
		{"no filter risk desc", SessionQuery{Sort: "risk_desc"}, []string{"s-career", "s-purchase"}},
		{"context filter", SessionQuery{Context: "purchase"}, []string{"s-purchase"}},
		{"scale filter", SessionQuery{Scale: "major"}, []string{"s-career"}},
		{"risk label filter", SessionQuery{RiskLabel: "High Decision Integrity"}, []string{"s-purchase"}},
		{"practical filter", SessionQuery{Practical: "true"}, []string{"s-purchase"}},
		{"text search", SessionQuery{Query: "phone"}, []string{"s-purchase"}},
		{"no match", SessionQuery{Query: "vacation"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, total, err := db.ListSessions(tc.query)
			if err != nil {
				t.Fatalf("list sessions: %v", err)
			}
			if int(total) != len(tc.want) {
				t.Fatalf("expected total %d got %d", len(tc.want), total)
			}
			if len(rows) != len(tc.want) {
				t.Fatalf("expected %d rows got %d", len(tc.want), len(rows))
			}
			for i, id := range tc.want {
				if rows[i].SessionID != id {
					t.Fatalf("expected %s at %d got %s", id, i, rows[i].SessionID)
				}
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveSession(sampleRecord("s-1")); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := db.DeleteSession("s-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := db.GetSession("s-1"); err == nil {
		t.Fatal("expected error for deleted session")
	}

	var count int64
	if err := db.GORM().Model(&SessionRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("raw count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 rows got %d", count)
	}
}
