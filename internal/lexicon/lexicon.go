package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContextEntry pairs a decision context with its keyword list. Entries are
// kept in a slice because declaration order is the tie-break when two
// contexts score the same keyword count.
type ContextEntry struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Lexicon holds the keyword tables driving context and scale detection.
type Lexicon struct {
	Contexts      []ContextEntry `json:"contexts"`
	MajorKeywords []string       `json:"major"`
	SmallKeywords []string       `json:"small"`
}

// NewFromFile constructs a lexicon from the provided JSON file.
func NewFromFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("unmarshal lexicon: %w", err)
	}
	lex.normalize()
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

func (l *Lexicon) normalize() {
	for i := range l.Contexts {
		l.Contexts[i].Name = strings.ToLower(strings.TrimSpace(l.Contexts[i].Name))
		l.Contexts[i].Keywords = cleanTerms(l.Contexts[i].Keywords)
	}
	l.MajorKeywords = cleanTerms(l.MajorKeywords)
	l.SmallKeywords = cleanTerms(l.SmallKeywords)
}

func cleanTerms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, term := range in {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}

// Validate ensures the lexicon has at least baseline configuration.
func (l *Lexicon) Validate() error {
	if l == nil {
		return errors.New("lexicon is nil")
	}
	if len(l.Contexts) == 0 {
		return errors.New("lexicon contexts missing")
	}
	for _, entry := range l.Contexts {
		if entry.Name == "" {
			return errors.New("lexicon context with empty name")
		}
		if len(entry.Keywords) == 0 {
			return fmt.Errorf("lexicon context %q has no keywords", entry.Name)
		}
	}
	return nil
}

// Default returns the built-in lexicon used when no override file is
// configured.
func Default() *Lexicon {
	return &Lexicon{
		Contexts: []ContextEntry{
			{Name: "purchase", Keywords: []string{
				"buy", "price", "cost", "deal", "discount", "sale", "order",
				"purchase", "shop", "shopping", "product", "item", "phone",
				"laptop", "tablet", "headphone", "earbuds", "camera", "car",
				"bike", "scooter", "house", "apartment", "rent",
			}},
			{Name: "relationship", Keywords: []string{
				"date", "dating", "relationship", "partner", "boyfriend",
				"girlfriend", "crush", "love", "like", "approach", "confess",
				"ask out", "proposal", "marry", "marriage", "breakup",
				"divorce", "commit", "commitment", "situationship",
			}},
			{Name: "career", Keywords: []string{
				"job", "career", "work", "internship", "promotion", "resign",
				"quit", "switch", "role", "company", "startup", "business",
				"degree", "masters", "mba",
			}},
			{Name: "finance", Keywords: []string{
				"money", "budget", "save", "saving", "invest", "investment",
				"stock", "crypto", "fund", "loan", "emi", "rent", "debt",
				"credit", "interest",
			}},
			{Name: "academic", Keywords: []string{
				"exam", "study", "college", "school", "course", "major",
				"minor", "university", "gpa", "assignment", "project",
				"thesis", "research",
			}},
			{Name: "health", Keywords: []string{
				"health", "diet", "sleep", "workout", "exercise", "gym",
				"doctor", "therapy", "mental", "stress", "anxiety",
				"medicine", "treatment",
			}},
			{Name: "social", Keywords: []string{
				"friend", "friends", "party", "group", "hangout", "meet",
				"text", "call", "message", "event", "invite", "social",
			}},
		},
		MajorKeywords: []string{
			"marry", "marriage", "breakup", "divorce", "career", "job",
			"degree", "business", "house", "loan", "move", "relocate",
			"commit", "commitment", "investment", "proposal", "mortgage",
			"visa", "abroad", "relocation", "surgery", "diagnosis",
			"treatment", "insurance",
		},
		SmallKeywords: []string{
			"ice cream", "snack", "food", "drink", "movie", "shirt",
			"weekend", "today", "tonight", "coffee", "tea", "dessert",
			"game", "music", "playlist", "meme", "post", "reply",
			"text back", "call back", "outfit", "order food",
		},
	}
}
