package classify

import (
	"regexp"
	"strings"
	"unicode"

	"biaslab/backend/internal/lexicon"
)

// Decision scales ordered by magnitude.
const (
	ScaleSmall    = "small"
	ScaleStandard = "standard"
	ScaleMajor    = "major"
)

// Confidence levels for the detected context.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ContextGeneric is the fallback when no keyword list matches.
const ContextGeneric = "generic"

var (
	whitespaceCollapser = regexp.MustCompile(`\s+`)
	optionSplitter      = regexp.MustCompile(`(?i)\b(.+?)\s+or\s+(.+)$`)
	stemPrefixStripper  = regexp.MustCompile(`(?i)^(should i|do i|is it better to|would it be better to)\s+`)
)

// majorContexts force the major scale regardless of keyword hits. This
// override runs before the keyword scan and its precedence is intentional.
var majorContexts = []string{"relationship", "career", "finance", "health"}

// Profile captures the classification output for a decision statement.
type Profile struct {
	Context    string `json:"context"`
	Scale      string `json:"scale"`
	Confidence string `json:"confidence"`
	Summary    string `json:"summary"`
}

// DetectContext maps free-text onto the lexicon context with the most
// keyword hits. Ties resolve to the first context in declaration order, and
// a zero best count falls back to the generic context with low confidence.
func DetectContext(decisionText string, lex *lexicon.Lexicon) (string, string) {
	text := strings.ToLower(decisionText)

	best := ContextGeneric
	bestCount := 0
	secondCount := 0
	for _, entry := range lex.Contexts {
		count := 0
		for _, word := range entry.Keywords {
			if strings.Contains(text, word) {
				count++
			}
		}
		if count > bestCount {
			secondCount = bestCount
			bestCount = count
			best = entry.Name
		} else if count > secondCount {
			secondCount = count
		}
	}

	if bestCount == 0 {
		return ContextGeneric, ConfidenceLow
	}
	if bestCount-secondCount >= 2 {
		return best, ConfidenceHigh
	}
	return best, ConfidenceMedium
}

// DetectScale resolves the decision magnitude. Check order matters: the
// major-context override short-circuits first, then major keywords, then
// small keywords.
func DetectScale(decisionText, context string, lex *lexicon.Lexicon) string {
	text := strings.ToLower(decisionText)

	for _, name := range majorContexts {
		if context == name {
			return ScaleMajor
		}
	}
	for _, word := range lex.MajorKeywords {
		if strings.Contains(text, word) {
			return ScaleMajor
		}
	}
	for _, word := range lex.SmallKeywords {
		if strings.Contains(text, word) {
			return ScaleSmall
		}
	}
	return ScaleStandard
}

// InferOptions extracts candidate option labels from "X or Y" phrasing.
// Question stems like "should i" are stripped from the left side; both sides
// are trimmed of trailing punctuation and capitalized. Returns false when
// either side collapses to empty.
func InferOptions(decisionText string) (string, string, bool) {
	clean := whitespaceCollapser.ReplaceAllString(strings.TrimSpace(decisionText), " ")
	match := optionSplitter.FindStringSubmatch(clean)
	if match == nil {
		return "", "", false
	}

	left := stemPrefixStripper.ReplaceAllString(match[1], "")
	left = strings.Trim(left, " ?.,")
	right := strings.Trim(match[2], " ?.,")

	if left == "" || right == "" {
		return "", "", false
	}
	return capitalize(left), capitalize(right), true
}

// Classify runs context and scale detection and assembles a profile. The
// result is a pure function of the input text and lexicon.
func Classify(decisionText string, lex *lexicon.Lexicon) Profile {
	context, confidence := DetectContext(decisionText, lex)
	scale := DetectScale(decisionText, context, lex)
	return Profile{
		Context:    context,
		Scale:      scale,
		Confidence: confidence,
		Summary:    titleWord(context) + " / " + titleWord(scale) + "-impact",
	}
}

func capitalize(value string) string {
	runes := []rune(strings.ToLower(value))
	if len(runes) == 0 {
		return value
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func titleWord(value string) string {
	return capitalize(value)
}
