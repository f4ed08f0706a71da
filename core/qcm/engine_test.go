package qcm

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/revisioncam/core/roles"
	"github.com/trezcool/revisioncam/core/table"
)

// inOrder never swaps, so questions and choices keep their file order.
type inOrder struct{}

func (inOrder) Intn(n int) int { return n - 1 }

type recordingSource struct{ calls []int }

func (s *recordingSource) Intn(n int) int {
	s.calls = append(s.calls, n)
	return 0
}

var quizRoles = roles.QuizRoles{
	Reference: "reference",
	Question:  "question",
	Correct:   "correct",
	Why:       "why",
	Choices:   []string{"A", "B", "C"},
}

func threeQuestions() []table.Record {
	return []table.Record{
		{"reference": "Q1", "question": "First?", "A": "one", "B": "two", "C": "three", "correct": "A", "why": "because"},
		{"reference": "Q2", "question": "Second?", "A": "one", "B": "two", "C": "three", "correct": "", "why": ""},
		{"reference": "Q3", "question": "Third?", "A": "one", "B": "two", "C": "three", "correct": "B|C", "why": ""},
	}
}

func TestShuffle(t *testing.T) {
	src := new(recordingSource)
	items := []int{1, 2, 3, 4, 5}
	Shuffle(src, len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	assert.Equal(t, []int{5, 4, 3, 2}, src.calls)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, items)
}

func TestNewRandomSource_concurrent(t *testing.T) {
	src := NewRandomSource()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				n := src.Intn(5)
				assert.True(t, n >= 0 && n < 5)
			}
		}()
	}
	wg.Wait()
}

func TestEngine_Load(t *testing.T) {
	t.Run("shuffle is a permutation", func(t *testing.T) {
		recs := make([]table.Record, 20)
		want := make([]string, 20)
		for i := range recs {
			want[i] = fmt.Sprintf("Q%d", i)
			recs[i] = table.Record{"reference": want[i], "question": "?", "A": "a", "B": "b", "C": "c"}
		}
		e := NewEngine(rand.New(rand.NewSource(42)))
		e.Load(recs, quizRoles)

		got := make([]string, 0, e.Len())
		for _, q := range e.Questions() {
			got = append(got, q.Reference)
			labels := make([]string, 0, len(q.Choices))
			for _, c := range q.Choices {
				labels = append(labels, c.Label)
			}
			sort.Strings(labels)
			assert.Equal(t, []string{"a", "b", "c"}, labels)
		}
		assert.ElementsMatch(t, want, got)
		assert.Equal(t, "Q0", recs[0]["reference"], "input records are not reordered")
	})

	t.Run("defaults and blank choices", func(t *testing.T) {
		e := NewEngine(inOrder{})
		e.Load([]table.Record{
			{"reference": "", "question": " ", "A": "", "B": "x", "C": " "},
			{"reference": "R2", "question": "Q?", "A": "", "B": "", "C": ""},
		}, quizRoles)

		qs := e.Questions()
		require.Len(t, qs, 2)
		assert.Equal(t, "QCM-1", qs[0].Reference)
		assert.Equal(t, "Question 1", qs[0].Question)
		assert.Equal(t, []Choice{{Column: "B", Label: "x"}}, qs[0].Choices)
		assert.True(t, qs[0].HasChoices)
		assert.False(t, qs[1].HasChoices)
		assert.Equal(t, 1, e.Answerable())
		assert.Equal(t, StateLoaded, e.State())
	})

	t.Run("no records", func(t *testing.T) {
		e := NewEngine(inOrder{})
		e.Load(nil, quizRoles)
		assert.Equal(t, StateEmpty, e.State())
		assert.Equal(t, ErrNotLoaded, e.Reveal())
	})
}

func TestEngine_Select(t *testing.T) {
	e := NewEngine(inOrder{})
	e.Load(threeQuestions(), quizRoles)

	tests := []struct {
		name    string
		q, c    int
		wantErr error
	}{
		{name: "ok", q: 0, c: 1},
		{name: "overwrite", q: 0, c: 2},
		{name: "bad question", q: 7, c: 0, wantErr: ErrOutOfRange},
		{name: "negative choice", q: 1, c: -1, wantErr: ErrOutOfRange},
		{name: "bad choice", q: 1, c: 3, wantErr: ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.Select(tt.q, tt.c); err != tt.wantErr {
				t.Errorf("Select() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	assert.Equal(t, 2, *e.Questions()[0].SelectedIndex)
	assert.Equal(t, StateAnswering, e.State())
	assert.Equal(t, 1, e.Answered())
	assert.Equal(t, 2, e.Remaining())

	t.Run("no choices", func(t *testing.T) {
		e := NewEngine(inOrder{})
		e.Load([]table.Record{{"reference": "R", "question": "Q"}}, quizRoles)
		assert.Equal(t, ErrNoChoices, e.Select(0, 0))
		assert.False(t, e.AllQuestionsAnswered())
		assert.Equal(t, ErrNothingToReveal, e.Reveal())
	})
}

func TestEngine_Reveal(t *testing.T) {
	e := NewEngine(inOrder{})
	e.Load(threeQuestions(), quizRoles)

	require.NoError(t, e.Select(0, 0))
	require.NoError(t, e.Select(1, 1))
	assert.False(t, e.AllQuestionsAnswered())
	assert.False(t, e.CanReveal())
	assert.Equal(t, ErrIncomplete, e.Reveal())

	require.NoError(t, e.Select(2, 0))
	assert.True(t, e.AllQuestionsAnswered())
	require.NoError(t, e.Reveal())
	assert.Equal(t, StateRevealed, e.State())

	assert.Equal(t, Summary{
		Answered:         3,
		Answerable:       3,
		Scorable:         2,
		Score:            1,
		Percentage:       50,
		MissingSolutions: 1,
		Revealed:         true,
		ScoreComputed:    true,
	}, e.Summary())

	t.Run("selections are locked and kept", func(t *testing.T) {
		assert.Equal(t, ErrLocked, e.Select(2, 1))
		assert.Equal(t, 0, *e.Questions()[2].SelectedIndex)
		assert.Equal(t, ErrAlreadyRevealed, e.Reveal())
	})

	t.Run("view after reveal", func(t *testing.T) {
		views := e.View()
		require.Len(t, views, 3)

		q1 := views[0]
		assert.Equal(t, "because", q1.WhyText)
		assert.Equal(t, "A", q1.CorrectValue)
		assert.True(t, q1.Choices[0].Correct)
		assert.True(t, q1.Choices[0].Selected)
		assert.False(t, q1.Choices[0].Incorrect)

		// no correct value: nothing is flagged
		for _, c := range views[1].Choices {
			assert.False(t, c.Correct)
			assert.False(t, c.Incorrect)
		}

		q3 := views[2]
		assert.Equal(t, []bool{false, true, true}, []bool{q3.Choices[0].Correct, q3.Choices[1].Correct, q3.Choices[2].Correct})
		assert.True(t, q3.Choices[0].Incorrect)
		assert.Equal(t, "A", q3.Choices[0].Marker)
		assert.Equal(t, "C", q3.Choices[2].Marker)
	})

	t.Run("clear", func(t *testing.T) {
		e.Clear()
		assert.Equal(t, StateEmpty, e.State())
		assert.Equal(t, Summary{}, e.Summary())
		assert.Empty(t, e.View())
	})
}

func TestEngine_View_hidesAnswersBeforeReveal(t *testing.T) {
	e := NewEngine(inOrder{})
	e.Load(threeQuestions(), quizRoles)
	require.NoError(t, e.Select(0, 0))

	for _, v := range e.View() {
		assert.Empty(t, v.WhyText)
		assert.Empty(t, v.CorrectValue)
		for _, c := range v.Choices {
			assert.False(t, c.Correct)
			assert.False(t, c.Incorrect)
		}
	}
	s := e.Summary()
	assert.False(t, s.ScoreComputed)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 2, s.Scorable)
}

func TestEngine_Summary_noSolutions(t *testing.T) {
	e := NewEngine(inOrder{})
	e.Load([]table.Record{{"reference": "R", "question": "Q", "A": "yes", "B": "no"}}, quizRoles)
	require.NoError(t, e.Select(0, 1))
	require.NoError(t, e.Reveal())

	s := e.Summary()
	assert.True(t, s.Revealed)
	assert.False(t, s.ScoreComputed)
	assert.Equal(t, 1, s.MissingSolutions)
}

func TestIsCorrectChoice(t *testing.T) {
	tests := []struct {
		name                   string
		label, column, correct string
		want                   bool
	}{
		{name: "label", label: "Paris", column: "A", correct: " paris ", want: true},
		{name: "column", label: "Paris", column: "A", correct: "a", want: true},
		{name: "alternative label", label: "Lyon", column: "B", correct: "Paris | Lyon", want: true},
		{name: "alternative column", label: "x", column: "C", correct: "B|C", want: true},
		{name: "not in alternatives", label: "x", column: "A", correct: "B|C", want: false},
		{name: "single alternative is not split", label: "b", column: "B", correct: "B|", want: false},
		{name: "blank correct", label: "Paris", column: "A", correct: "  ", want: false},
		{name: "blank label", label: " ", column: "A", correct: "A", want: false},
		{name: "different", label: "Paris", column: "A", correct: "Rome", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCorrectChoice(tt.label, tt.column, tt.correct); got != tt.want {
				t.Errorf("IsCorrectChoice() = %v, want %v", got, tt.want)
			}
		})
	}
}
