package study

import (
	"context"
	"fmt"
	"io"

	"github.com/trezcool/revisioncam/core/qcm"
	"github.com/trezcool/revisioncam/core/roles"
)

// Quiz is the multiple-choice mode of a workspace.
type Quiz struct {
	source
	roles  roles.QuizRoles
	hints  []roles.Hint
	engine *qcm.Engine
}

func newQuiz(opts Options) *Quiz {
	q := &Quiz{
		source: source{livePreview: opts.LivePreview, maxBytes: opts.MaxFileSize},
		engine: qcm.NewEngine(opts.Source),
	}
	q.setStatus(info("Import a CSV file to start."))
	return q
}

func (q *Quiz) Engine() *qcm.Engine { return q.engine }

// Import reads a CSV file and renders it right away when live preview is on.
// The returned error is the import failure, also reported by the status.
func (q *Quiz) Import(ctx context.Context, name string, r io.Reader) (Status, error) {
	ok, err := q.read(ctx, name, r)
	if !ok {
		return q.status, err
	}
	if !q.hasRecords() {
		q.setStatus(warning("The file “%s” contains no question.", q.fileName).withCode(CodeEmptyData))
		q.clearDisplay()
		return q.status, nil
	}

	q.setStatus(success("Import succeeded: %s from “%s”.", plural(len(q.table.Records), "question", "questions"), q.fileName))
	if q.livePreview {
		q.render()
	} else {
		q.clearDisplay()
	}
	return q.status, nil
}

// Render shuffles a new quiz out of the last imported file, dropping any answer.
func (q *Quiz) Render() Status {
	if !q.hasRecords() {
		q.setStatus(warning("Import a CSV file before showing the quiz.").withCode(CodeNotImported))
		return q.status
	}
	q.render()
	return q.status
}

func (q *Quiz) render() {
	q.roles = roles.ResolveQuizRoles(q.table.Headers)
	q.hints = roles.QuizHints(q.table.Headers)
	q.engine.Load(q.table.Records, q.roles)
}

func (q *Quiz) clearDisplay() {
	q.engine.Clear()
	q.roles = roles.QuizRoles{}
	q.hints = nil
}

func (q *Quiz) SetLivePreview(on bool) Status {
	q.livePreview = on
	switch {
	case on && q.hasRecords():
		q.render()
		q.setStatus(success("Live preview enabled for “%s”.", q.displayName()))
	case !on:
		q.setStatus(info("Live preview disabled. Use “Show quiz” after an import."))
	}
	return q.status
}

// Clear forgets the imported file and the quiz.
func (q *Quiz) Clear() Status {
	q.reset()
	q.clearDisplay()
	q.setStatus(info("Quiz cleared. Import a new file to start again."))
	return q.status
}

// Select answers question qi with choice ci and reports the progress.
// Invalid indexes leave the status untouched and return the engine error.
func (q *Quiz) Select(qi, ci int) (Status, error) {
	switch err := q.engine.Select(qi, ci); err {
	case nil:
	case qcm.ErrLocked:
		q.setStatus(info("Reset or re-import the quiz to answer again.").withCode(CodeLocked))
		return q.status, nil
	default:
		return q.status, err
	}

	answered, answerable := q.engine.Answered(), q.engine.Answerable()
	if answered < answerable {
		q.setStatus(info("%d/%d question(s) answered. %d remaining.", answered, answerable, answerable-answered))
	} else {
		q.setStatus(success("Every question has an answer. Use “Show answers”."))
	}
	return q.status, nil
}

// Reveal shows the answers and the score once every answerable question has a selection.
func (q *Quiz) Reveal() Status {
	switch err := q.engine.Reveal(); err {
	case nil:
	case qcm.ErrNotLoaded:
		q.setStatus(warning("Import a CSV file before showing the answers.").withCode(CodeNotImported))
		return q.status
	case qcm.ErrNothingToReveal:
		q.setStatus(info(noSelectableText).withCode(CodeNoSelectableAnswers))
		return q.status
	case qcm.ErrAlreadyRevealed:
		q.setStatus(info("The answers are already shown. Use “Clear” to start again.").withCode(CodeAlreadyRevealed))
		return q.status
	default: // qcm.ErrIncomplete
		var suffix string
		if remaining := q.engine.Remaining(); remaining > 0 {
			suffix = fmt.Sprintf(" %d question(s) remaining.", remaining)
		}
		q.setStatus(warning("Answer every question before showing the answers.%s", suffix).withCode(CodeIncomplete))
		return q.status
	}

	if s := q.engine.Summary(); s.ScoreComputed {
		q.setStatus(success("Score: %d/%d correct question(s).", s.Score, s.Scorable))
	} else {
		q.setStatus(info("No correct answer was defined in this quiz.").withCode(CodeScoreNotComputed))
	}
	return q.status
}

// SummaryLines describes the progress, or the results once revealed. It is empty without questions.
func (q *Quiz) SummaryLines() []string {
	if q.engine.Len() == 0 {
		return nil
	}
	s := q.engine.Summary()
	if !s.Revealed {
		if s.Answerable == 0 {
			return []string{"This quiz has no answer to select."}
		}
		return []string{fmt.Sprintf("%d/%d question(s) answered.", s.Answered, s.Answerable)}
	}

	var lines []string
	if s.ScoreComputed {
		lines = append(lines, fmt.Sprintf("Score: %d/%d (%d%%)", s.Score, s.Scorable, s.Percentage))
	} else {
		lines = append(lines, "Score not computed: no correct answer provided.")
	}
	if s.Answerable > 0 {
		lines = append(lines, fmt.Sprintf("%d/%d question(s) answered.", s.Answered, s.Answerable))
	}
	if s.MissingSolutions > 0 {
		lines = append(lines, fmt.Sprintf("%d question(s) without a defined correct answer.", s.MissingSolutions))
	}
	return lines
}

// CountLabel is the number of displayed questions, e.g. "3 questions".
func (q *Quiz) CountLabel() string {
	return plural(q.engine.Len(), "question", "questions")
}

const (
	noSelectableText = "This quiz has no selectable answer."
	revealLabel      = "Show answers"
	revealedLabel    = "Answers shown"
	revealTitle      = "Answer every question to show the answers."
	revealedTitle    = "Use “Clear” to start again with this quiz."
)

// QuizView is what the quiz mode displays.
type QuizView struct {
	Status       Status             `json:"status"`
	FileName     string             `json:"fileName,omitempty"`
	LivePreview  bool               `json:"livePreview"`
	CanRender    bool               `json:"canRender"`
	RenderTitle  string             `json:"renderTitle,omitempty"`
	Headers      []string           `json:"headers"`
	Roles        roles.QuizRoles    `json:"roles"`
	Hints        []string           `json:"hints,omitempty"`
	State        string             `json:"state"`
	Count        string             `json:"count"`
	Questions    []qcm.QuestionView `json:"questions"`
	Summary      qcm.Summary        `json:"summary"`
	SummaryLines []string           `json:"summaryLines,omitempty"`
	CanReveal    bool               `json:"canReveal"`
	RevealLabel  string             `json:"revealLabel"`
	RevealTitle  string             `json:"revealTitle,omitempty"`
}

func (q *Quiz) View() QuizView {
	v := QuizView{
		Status:       q.status,
		FileName:     q.fileName,
		LivePreview:  q.livePreview,
		CanRender:    q.canRender(),
		Headers:      append([]string{}, q.table.Headers...),
		Roles:        q.roles,
		Hints:        hintStrings(q.hints),
		State:        q.engine.State().String(),
		Count:        q.CountLabel(),
		Questions:    q.engine.View(),
		Summary:      q.engine.Summary(),
		SummaryLines: q.SummaryLines(),
		CanReveal:    q.engine.CanReveal(),
		RevealLabel:  revealLabel,
	}
	if !v.CanRender {
		v.RenderTitle = renderLockedTitle
	}

	switch {
	case q.engine.State() == qcm.StateRevealed:
		v.RevealLabel = revealedLabel
		v.RevealTitle = revealedTitle
	case v.CanReveal:
	case q.engine.Answerable() == 0:
		v.RevealTitle = noSelectableText
	default:
		v.RevealTitle = revealTitle
	}
	return v
}
