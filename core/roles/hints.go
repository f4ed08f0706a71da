package roles

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const minHintRatio = .8

// Hint reports a header that nearly matches a role synonym while the role itself was not found.
type Hint struct {
	Role    string `json:"role"`
	Header  string `json:"header"`
	Synonym string `json:"synonym"`
}

func (h Hint) String() string {
	return fmt.Sprintf("column %q was not recognised as the %s column; did you mean %q?", h.Header, h.Role, h.Synonym)
}

type roleSynonyms struct {
	name     string
	synonyms []string
}

var (
	cardRoleSet = []roleSynonyms{
		{"reference", ReferenceSynonyms},
		{"title", TitleSynonyms},
		{"description", DescriptionSynonyms},
	}
	quizRoleSet = []roleSynonyms{
		{"reference", ReferenceSynonyms},
		{"question", QuestionSynonyms},
		{"correct answer", CorrectSynonyms},
		{"explanation", WhySynonyms},
	}
)

// CardHints returns near-miss hints for the flashcard roles. They never change the resolved roles.
func CardHints(headers []string) []Hint { return hints(headers, cardRoleSet) }

// QuizHints returns near-miss hints for the quiz roles. They never change the resolved roles.
func QuizHints(headers []string) []Hint { return hints(headers, quizRoleSet) }

func hints(headers []string, set []roleSynonyms) []Hint {
	hs := newHeaderSet(headers)

	// headers that are exact synonyms of any role are taken
	taken := map[string]bool{}
	for _, r := range set {
		for _, syn := range r.synonyms {
			taken[syn] = true
		}
	}

	var out []Hint
	for _, r := range set {
		if _, ok := hs.find(r.synonyms); ok {
			continue
		}
		best := Hint{}
		bestRatio := 0.0
		for i, h := range hs.lowered {
			if taken[h] {
				continue
			}
			for _, syn := range r.synonyms {
				if ratio := similarity(h, syn); ratio >= minHintRatio && ratio > bestRatio {
					best = Hint{Role: r.name, Header: hs.headers[i], Synonym: syn}
					bestRatio = ratio
				}
			}
		}
		if bestRatio > 0 {
			out = append(out, best)
		}
	}
	return out
}

func similarity(a, b string) float64 {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
