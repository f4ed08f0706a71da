package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/trezcool/revisioncam/core/qcm"
	"github.com/trezcool/revisioncam/core/study"
)

var statusPrefixes = map[study.Variant]string{
	study.VariantInfo:    "i",
	study.VariantSuccess: "+",
	study.VariantWarning: "!",
	study.VariantError:   "x",
}

func printStatus(w io.Writer, st study.Status) {
	if st.Message == "" {
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", statusPrefixes[st.Variant], st.Message)
}

func printHints(w io.Writer, hints []string) {
	for _, h := range hints {
		fmt.Fprintf(w, "hint: %s\n", h)
	}
}

func printCards(w io.Writer, v study.CardsView) {
	printHints(w, v.Hints)
	if v.Placeholder != "" {
		fmt.Fprintln(w, v.Placeholder)
		return
	}

	d := v.Deck
	fmt.Fprintf(w, "%s  [%s]\n", d.Position, d.Card.Reference)
	fmt.Fprintf(w, "  %s\n", d.Card.Title)
	if d.Flipped {
		fmt.Fprintf(w, "  %s\n", d.Description)
	}

	actions := make([]string, 0, 4)
	if d.CanPrevious {
		actions = append(actions, "[p]revious")
	}
	if d.CanNext {
		actions = append(actions, "[n]ext")
	}
	actions = append(actions, "[f] "+d.FlipLabel, "[q]uit")
	fmt.Fprintln(w, strings.Join(actions, "  "))
}

func printCardsHelp(w io.Writer) {
	fmt.Fprintln(w, "commands: n (next), p (previous), f (flip), g NUMBER (go to card), q (quit)")
}

func printQuiz(w io.Writer, v study.QuizView) {
	printHints(w, v.Hints)
	if len(v.Questions) == 0 {
		fmt.Fprintln(w, "No question to show.")
		return
	}

	fmt.Fprintf(w, "%s:\n", v.Count)
	for i, q := range v.Questions {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, q.Reference, q.Question)
		if !q.HasChoices {
			fmt.Fprintf(w, "     %s\n", q.EmptyText)
		}
		for _, c := range q.Choices {
			fmt.Fprintf(w, "   %s %s) %s\n", choiceMark(c), c.Marker, c.Label)
		}
		if q.CorrectValue != "" {
			fmt.Fprintf(w, "     correct: %s\n", q.CorrectValue)
		}
		if q.WhyText != "" {
			fmt.Fprintf(w, "     why: %s\n", q.WhyText)
		}
	}
	for _, line := range v.SummaryLines {
		fmt.Fprintln(w, line)
	}
}

func choiceMark(c qcm.ChoiceView) string {
	switch {
	case c.Correct:
		return "✓"
	case c.Incorrect:
		return "✗"
	case c.Selected:
		return "*"
	default:
		return " "
	}
}

func printQuizHelp(w io.Writer) {
	fmt.Fprintln(w, "commands: NUMBER LETTER (answer, e.g. 1 a), r (show answers), s (shuffle a new quiz), q (quit)")
}
