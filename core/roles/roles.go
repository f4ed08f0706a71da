// Package roles infers which CSV columns hold the reference, the prompt, the answer and the explanation.
package roles

import "strings"

// Synonyms are matched case-insensitively, in priority order.
var (
	ReferenceSynonyms   = []string{"reference", "ref", "référence", "id", "code"}
	TitleSynonyms       = []string{"title", "titre", "name", "nom"}
	DescriptionSynonyms = []string{"description", "desc", "texte", "text", "details"}
	QuestionSynonyms    = []string{"question", "titre", "intitulé", "prompt"}
	CorrectSynonyms     = []string{"correct", "bonne reponse", "bonne réponse", "answer", "solution"}
	WhySynonyms         = []string{"pourquoi", "why", "explication", "raison"}
)

// CardRoles tells which header feeds each side of a flashcard.
type CardRoles struct {
	Reference   string `json:"reference"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QuizRoles tells which header feeds each part of a multiple-choice question.
// Correct and Why are empty when no header matches them.
type QuizRoles struct {
	Reference string   `json:"reference"`
	Question  string   `json:"question"`
	Correct   string   `json:"correct,omitempty"`
	Why       string   `json:"why,omitempty"`
	Choices   []string `json:"choices"`
}

type headerSet struct {
	headers []string
	lowered []string
}

func newHeaderSet(headers []string) headerSet {
	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(h)
	}
	return headerSet{headers: headers, lowered: lowered}
}

// find returns the first header equal to a synonym, trying synonyms in order.
func (hs headerSet) find(synonyms []string) (string, bool) {
	for _, syn := range synonyms {
		for i, h := range hs.lowered {
			if h == syn {
				return hs.headers[i], true
			}
		}
	}
	return "", false
}

// findOr falls back to the header at position pos, clamped to the available headers.
func (hs headerSet) findOr(synonyms []string, pos int) string {
	if h, ok := hs.find(synonyms); ok {
		return h
	}
	n := len(hs.headers)
	if n == 0 {
		return ""
	}
	if pos > n-1 {
		pos = n - 1
	}
	if pos < 0 {
		pos = 0
	}
	return hs.headers[pos]
}

// ResolveCardRoles maps headers to flashcard roles.
func ResolveCardRoles(headers []string) CardRoles {
	hs := newHeaderSet(headers)
	return CardRoles{
		Reference:   hs.findOr(ReferenceSynonyms, 0),
		Title:       hs.findOr(TitleSynonyms, 1),
		Description: hs.findOr(DescriptionSynonyms, 2),
	}
}

// ResolveQuizRoles maps headers to quiz roles.
// Every header not used by another role is an answer choice, in header order.
func ResolveQuizRoles(headers []string) QuizRoles {
	hs := newHeaderSet(headers)
	qr := QuizRoles{
		Reference: hs.findOr(ReferenceSynonyms, 0),
		Question:  hs.findOr(QuestionSynonyms, 1),
	}
	qr.Correct, _ = hs.find(CorrectSynonyms)
	qr.Why, _ = hs.find(WhySynonyms)

	claimed := map[string]bool{}
	for _, h := range []string{qr.Reference, qr.Question, qr.Correct, qr.Why} {
		if h != "" {
			claimed[h] = true
		}
	}
	qr.Choices = make([]string, 0, len(headers))
	for _, h := range headers {
		if !claimed[h] {
			qr.Choices = append(qr.Choices, h)
		}
	}
	return qr
}
