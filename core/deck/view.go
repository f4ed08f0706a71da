package deck

import "fmt"

const (
	FlipLabel            = "Flip card"
	ShowDescriptionLabel = "Show description"
	BackLabel            = "Back to card"
	NoDescriptionText    = "No description provided for this card."
)

// View is what a presentation layer needs to draw the deck.
type View struct {
	Card        *Card  `json:"card,omitempty"`
	Index       int    `json:"index"`
	Total       int    `json:"total"`
	Flipped     bool   `json:"flipped"`
	Position    string `json:"position"`
	FlipLabel   string `json:"flipLabel"`
	Description string `json:"description"`
	CanPrevious bool   `json:"canPrevious"`
	CanNext     bool   `json:"canNext"`
	CanFlip     bool   `json:"canFlip"`
}

func (d *Deck) View() View {
	total := d.Len()
	v := View{Total: total, FlipLabel: FlipLabel, Position: "0 cards"}
	card, ok := d.Current()
	if !ok {
		return v
	}

	v.Card = &card
	v.Index = d.current
	v.Flipped = d.flipped
	v.Position = fmt.Sprintf("Card %d / %d", d.current+1, total)
	v.CanPrevious = total > 1 && d.current > 0
	v.CanNext = total > 1 && d.current < total-1
	v.CanFlip = true

	switch {
	case d.flipped:
		v.FlipLabel = BackLabel
	case card.HasDescription():
		v.FlipLabel = ShowDescriptionLabel
	}
	v.Description = card.Description
	if !card.HasDescription() {
		v.Description = NoDescriptionText
	}
	return v
}
