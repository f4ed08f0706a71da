// Package qcm implements the multiple-choice quiz state machine: shuffling, answering, revealing and scoring.
package qcm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/trezcool/revisioncam/core/roles"
	"github.com/trezcool/revisioncam/core/table"
)

// State is the lifecycle of a quiz, from empty to revealed.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateAnswering
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateAnswering:
		return "answering"
	case StateRevealed:
		return "revealed"
	default:
		return "empty"
	}
}

var (
	ErrNotLoaded       = errors.New("no questions loaded")
	ErrLocked          = errors.New("answers are revealed; selections are locked")
	ErrNoChoices       = errors.New("question has no choices")
	ErrOutOfRange      = errors.New("index out of range")
	ErrNothingToReveal = errors.New("no question has selectable answers")
	ErrAlreadyRevealed = errors.New("answers are already revealed")
	ErrIncomplete      = errors.New("not every question has an answer")
)

// Choice is one non-blank answer cell with the header it came from.
type Choice struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

// QuestionState is one shuffled question with its current selection.
type QuestionState struct {
	Index         int
	Reference     string
	Question      string
	CorrectValue  string
	WhyText       string
	Choices       []Choice
	SelectedIndex *int
	HasChoices    bool
}

func (q QuestionState) IsAnswered() bool { return q.SelectedIndex != nil }

func (q QuestionState) HasCorrectValue() bool { return q.CorrectValue != "" }

// Engine owns the questions of one quiz. It is not safe for concurrent use.
type Engine struct {
	src        Source
	state      State
	questions  []QuestionState
	answerable int
	score      int
}

// NewEngine returns an empty engine. A nil src uses a time-seeded math/rand source.
func NewEngine(src Source) *Engine {
	if src == nil {
		src = NewRandomSource()
	}
	return &Engine{src: src}
}

// Load replaces the current quiz with one question per record.
// Questions and each question's choices are shuffled independently; records is left untouched.
func (e *Engine) Load(records []table.Record, qr roles.QuizRoles) {
	e.Clear()

	shuffled := make([]table.Record, len(records))
	copy(shuffled, records)
	Shuffle(e.src, len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	e.questions = make([]QuestionState, len(shuffled))
	for i, rec := range shuffled {
		pos := i + 1
		q := QuestionState{
			Index:     i,
			Reference: cellOr(rec, qr.Reference, fmt.Sprintf("QCM-%d", pos)),
			Question:  cellOr(rec, qr.Question, fmt.Sprintf("Question %d", pos)),
		}
		if qr.Correct != "" {
			q.CorrectValue = strings.TrimSpace(rec[qr.Correct])
		}
		if qr.Why != "" {
			q.WhyText = strings.TrimSpace(rec[qr.Why])
		}
		for _, col := range qr.Choices {
			if label := strings.TrimSpace(rec[col]); label != "" {
				q.Choices = append(q.Choices, Choice{Column: col, Label: label})
			}
		}
		Shuffle(e.src, len(q.Choices), func(a, b int) { q.Choices[a], q.Choices[b] = q.Choices[b], q.Choices[a] })

		q.HasChoices = len(q.Choices) > 0
		if q.HasChoices {
			e.answerable++
		}
		e.questions[i] = q
	}

	if len(e.questions) > 0 {
		e.state = StateLoaded
	}
}

func cellOr(rec table.Record, header, fallback string) string {
	if v := strings.TrimSpace(rec[header]); v != "" {
		return v
	}
	return fallback
}

// Clear drops the quiz.
func (e *Engine) Clear() {
	e.state = StateEmpty
	e.questions = nil
	e.answerable = 0
	e.score = 0
}

func (e *Engine) State() State { return e.state }
func (e *Engine) Len() int     { return len(e.questions) }

// Answerable is the number of questions with at least one choice.
func (e *Engine) Answerable() int { return e.answerable }

// Answered is the number of answerable questions with a selection.
func (e *Engine) Answered() int {
	n := 0
	for _, q := range e.questions {
		if q.HasChoices && q.IsAnswered() {
			n++
		}
	}
	return n
}

// Remaining is the number of answerable questions still without a selection.
func (e *Engine) Remaining() int {
	if r := e.answerable - e.Answered(); r > 0 {
		return r
	}
	return 0
}

// Questions returns a copy of the question states.
func (e *Engine) Questions() []QuestionState {
	out := make([]QuestionState, len(e.questions))
	for i, q := range e.questions {
		out[i] = q
		out[i].Choices = append([]Choice(nil), q.Choices...)
		if q.SelectedIndex != nil {
			sel := *q.SelectedIndex
			out[i].SelectedIndex = &sel
		}
	}
	return out
}

// Select records choice c for question q, replacing any previous selection.
func (e *Engine) Select(q, c int) error {
	if e.state == StateRevealed {
		return ErrLocked
	}
	if q < 0 || q >= len(e.questions) {
		return ErrOutOfRange
	}
	question := &e.questions[q]
	if !question.HasChoices {
		return ErrNoChoices
	}
	if c < 0 || c >= len(question.Choices) {
		return ErrOutOfRange
	}
	question.SelectedIndex = &c
	e.state = StateAnswering
	return nil
}

// AllQuestionsAnswered is false for a quiz without answerable questions.
func (e *Engine) AllQuestionsAnswered() bool {
	if e.answerable == 0 {
		return false
	}
	for _, q := range e.questions {
		if q.HasChoices && !q.IsAnswered() {
			return false
		}
	}
	return true
}

func (e *Engine) CanReveal() bool { return e.revealErr() == nil }

func (e *Engine) revealErr() error {
	switch {
	case len(e.questions) == 0:
		return ErrNotLoaded
	case e.answerable == 0:
		return ErrNothingToReveal
	case e.state == StateRevealed:
		return ErrAlreadyRevealed
	case !e.AllQuestionsAnswered():
		return ErrIncomplete
	}
	return nil
}

// Reveal scores the quiz and locks the selections.
func (e *Engine) Reveal() error {
	if err := e.revealErr(); err != nil {
		return err
	}
	e.score = 0
	for _, q := range e.questions {
		if !q.HasChoices || !q.HasCorrectValue() || !q.IsAnswered() {
			continue
		}
		sel := q.Choices[*q.SelectedIndex]
		if IsCorrectChoice(sel.Label, sel.Column, q.CorrectValue) {
			e.score++
		}
	}
	e.state = StateRevealed
	return nil
}

// IsCorrectChoice compares, trimmed and case-insensitively, the correct value with the choice label or its column.
// A correct value made of several `|` separated parts matches any of them.
func IsCorrectChoice(label, column, correct string) bool {
	correct = strings.ToLower(strings.TrimSpace(correct))
	label = strings.ToLower(strings.TrimSpace(label))
	column = strings.ToLower(strings.TrimSpace(column))
	if correct == "" || label == "" {
		return false
	}
	if correct == label || correct == column {
		return true
	}

	var parts []string
	for _, p := range strings.Split(correct, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if p == label || p == column {
			return true
		}
	}
	return false
}

// Summary counts answered and correct questions.
type Summary struct {
	Answered         int  `json:"answered"`
	Answerable       int  `json:"answerable"`
	Scorable         int  `json:"scorable"`
	Score            int  `json:"score"`
	Percentage       int  `json:"percentage"`
	MissingSolutions int  `json:"missingSolutions"`
	Revealed         bool `json:"revealed"`
	ScoreComputed    bool `json:"scoreComputed"`
}

// Summary reports progress; score fields are only filled once answers are revealed.
func (e *Engine) Summary() Summary {
	s := Summary{
		Answered:   e.Answered(),
		Answerable: e.answerable,
		Revealed:   e.state == StateRevealed,
	}
	for _, q := range e.questions {
		if q.HasChoices && q.HasCorrectValue() {
			s.Scorable++
		}
	}
	if s.MissingSolutions = s.Answerable - s.Scorable; s.MissingSolutions < 0 {
		s.MissingSolutions = 0
	}
	if s.Revealed && s.Scorable > 0 {
		s.ScoreComputed = true
		s.Score = e.score
		s.Percentage = int(math.Round(float64(e.score) / float64(s.Scorable) * 100))
	}
	return s
}
