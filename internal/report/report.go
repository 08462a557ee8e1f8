package report

import (
	"fmt"
	"sort"
	"strings"

	"biaslab/backend/internal/scoring"
	"biaslab/backend/internal/session"
)

// Build assembles the plain-text decision report from a finalized result.
// This layer only formats; it never computes signals.
func Build(result session.Result) string {
	lines := []string{
		"BiasLab Practical Decision Report",
		strings.Repeat("=", 40),
		fmt.Sprintf("Decision: %s", result.Decision),
		fmt.Sprintf("Current leaning: %s", result.ChosenLabel),
		fmt.Sprintf("Alternative: %s", result.OtherLabel),
		"",
	}
	lines = append(lines, summaryLines(result)...)
	lines = append(lines, realityCheckLines(result)...)
	lines = append(lines, driverLines(result)...)
	lines = append(lines, biasPatternLines(result)...)
	lines = append(lines, biasSolutionLines(result)...)
	lines = append(lines, interpretationLines(result)...)
	lines = append(lines, actionProtocolLines(result)...)
	lines = append(lines, reflectionLines(result)...)
	return strings.Join(lines, "\n")
}

func summaryLines(result session.Result) []string {
	s := result.Signals
	return []string{
		"1) Quick Summary",
		fmt.Sprintf("- Overall signal: %s", result.RiskLabel),
		fmt.Sprintf("- Bias risk: %.2f | Clarity score: %.2f", s.DistortionRisk, s.Integrity),
		fmt.Sprintf("- Strength of %s: %.2f", result.ChosenLabel, s.ChosenRational),
		fmt.Sprintf("- Strength of %s: %.2f", result.OtherLabel, s.OtherRational),
		fmt.Sprintf("- Gap between options: %.2f", s.JustificationGap),
		"",
	}
}

func realityCheckLines(result session.Result) []string {
	s := result.Signals
	lines := []string{"2) Reality Check"}
	switch {
	case s.JustificationGap >= 0.10 && s.DistortionRisk <= 0.45:
		lines = append(lines, "- Reality: your current option is backed more by real reasons than by pressure.")
	case s.JustificationGap < 0 && s.DistortionRisk >= 0.50:
		lines = append(lines, "- Reality: your current leaning looks more driven by pressure than by real reasons.")
	default:
		lines = append(lines, "- Reality: the decision is mixed; some reasons are solid, some are shaky.")
	}
	lines = append(lines, fmt.Sprintf("- Snapshot: gap between options = %.2f, bias risk = %.2f.", s.JustificationGap, s.DistortionRisk))
	lines = append(lines, "")
	return lines
}

func driverLines(result session.Result) []string {
	lines := []string{"3) What is pushing your choice"}

	components := append([]scoring.Component(nil), result.Components...)
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Value > components[j].Value
	})
	if len(components) > 4 {
		components = components[:4]
	}
	for _, component := range components {
		level := "low"
		if component.Value >= 0.70 {
			level = "high"
		} else if component.Value >= 0.45 {
			level = "moderate"
		}
		lines = append(lines, fmt.Sprintf("- %s: %.2f (%s impact)", component.Label, component.Value, level))
	}
	lines = append(lines, "")
	return lines
}

func biasPatternLines(result session.Result) []string {
	lines := []string{"4) Likely Biases"}
	if len(result.Findings) == 0 {
		return append(lines, "- No strong bias pattern detected. Still verify real evidence.", "")
	}
	for _, finding := range result.Findings {
		lines = append(lines, fmt.Sprintf("- %s (%.2f): %s", finding.Name, finding.Score, finding.Reality))
	}
	lines = append(lines, "")
	return lines
}

func biasSolutionLines(result session.Result) []string {
	lines := []string{"5) What You Should Do Next"}
	if len(result.Findings) > 0 {
		findings := result.Findings
		if len(findings) > 3 {
			findings = findings[:3]
		}
		for _, finding := range findings {
			lines = append(lines, fmt.Sprintf("- For %s: %s", finding.Name, finding.Action))
		}
	} else {
		lines = append(lines, "- Keep your plan, but confirm at least one more real fact first.")
	}
	lines = append(lines, "- Re-run BiasLab after applying the steps above and compare distortion risk change.")
	lines = append(lines, "")
	return lines
}

func interpretationLines(result session.Result) []string {
	lines := []string{"6) Plain-English Verdict"}
	switch {
	case result.Practical:
		lines = append(lines,
			fmt.Sprintf("- Your choice of %s looks reasonable, not just emotional.", result.ChosenLabel),
			"- It matches your needs, evidence, and fit with your life.")
	case result.Signals.JustificationGap >= 0:
		lines = append(lines, "- Your choice has some good reasons, but there is also strong pressure.")
	default:
		lines = append(lines, "- The other option looks stronger on real reasons; this is a warning sign.")
	}
	lines = append(lines, "")
	return lines
}

func actionProtocolLines(result session.Result) []string {
	s := result.Signals
	lines := []string{"7) Simple Next Steps"}
	if s.BiasPressure > 0.60 {
		lines = append(lines, "- Wait 24 hours, then answer the same questions again with a calm mind.")
	}
	if s.ForesightGap > 0.50 {
		lines = append(lines, "- Write a best-case and worst-case story for both options.")
	}
	if s.FairnessRisk > 0.50 {
		lines = append(lines, "- Check if your choice is respectful to everyone involved.")
	}
	if s.WeakChoicePenalty > 0.40 {
		lines = append(lines, "- Seriously test the other option before committing.")
	}
	lines = append(lines, "- Re-run BiasLab after you learn 1-2 new facts.")
	lines = append(lines, "")
	return lines
}

func reflectionLines(result session.Result) []string {
	lines := []string{"8) Your Notes"}
	if note := result.Notes["counter_text"]; note != "" {
		lines = append(lines, fmt.Sprintf("- Strongest counter-argument captured: %s", note))
	}
	if note := result.Notes["reason_a"]; note != "" {
		lines = append(lines, fmt.Sprintf("- Practical reason for %s: %s", result.OptionA, note))
	}
	if note := result.Notes["reason_b"]; note != "" {
		lines = append(lines, fmt.Sprintf("- Practical reason for %s: %s", result.OptionB, note))
	}
	return lines
}
