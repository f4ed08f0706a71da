package qcm

const NoChoicesText = "No answer provided in this CSV."

type ChoiceView struct {
	Index     int    `json:"index"`
	Marker    string `json:"marker"`
	Column    string `json:"column"`
	Label     string `json:"label"`
	Selected  bool   `json:"selected"`
	Correct   bool   `json:"correct"`
	Incorrect bool   `json:"incorrect"`
}

// QuestionView is the read-only projection of a question.
// CorrectValue and WhyText stay empty until answers are revealed.
type QuestionView struct {
	Index        int          `json:"index"`
	Reference    string       `json:"reference"`
	Question     string       `json:"question"`
	Choices      []ChoiceView `json:"choices"`
	HasChoices   bool         `json:"hasChoices"`
	EmptyText    string       `json:"emptyText,omitempty"`
	Answered     bool         `json:"answered"`
	CorrectValue string       `json:"correctValue,omitempty"`
	WhyText      string       `json:"whyText,omitempty"`
}

func marker(i int) string { return string(rune('A' + i)) }

func (e *Engine) View() []QuestionView {
	revealed := e.state == StateRevealed
	views := make([]QuestionView, len(e.questions))
	for i, q := range e.questions {
		v := QuestionView{
			Index:      q.Index,
			Reference:  q.Reference,
			Question:   q.Question,
			HasChoices: q.HasChoices,
			Answered:   q.IsAnswered(),
			Choices:    make([]ChoiceView, len(q.Choices)),
		}
		if !q.HasChoices {
			v.EmptyText = NoChoicesText
		}
		if revealed {
			v.CorrectValue = q.CorrectValue
			v.WhyText = q.WhyText
		}
		for ci, c := range q.Choices {
			cv := ChoiceView{
				Index:    ci,
				Marker:   marker(ci),
				Column:   c.Column,
				Label:    c.Label,
				Selected: q.SelectedIndex != nil && *q.SelectedIndex == ci,
			}
			if revealed {
				cv.Correct = IsCorrectChoice(c.Label, c.Column, q.CorrectValue)
				cv.Incorrect = cv.Selected && !cv.Correct && q.HasCorrectValue()
			}
			v.Choices[ci] = cv
		}
		views[i] = v
	}
	return views
}
