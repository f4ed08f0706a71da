// Package deck holds the flashcard cursor.
package deck

import (
	"fmt"
	"strings"

	"github.com/trezcool/revisioncam/core/roles"
	"github.com/trezcool/revisioncam/core/table"
)

// Card is one flashcard row.
type Card struct {
	Reference   string `json:"reference"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (c Card) HasDescription() bool { return c.Description != "" }

// Deck is a list of cards with a current position and a flip flag.
// The zero value is an empty deck; every operation on it is a no-op.
type Deck struct {
	cards   []Card
	current int
	flipped bool
}

// New builds one card per record, in record order.
func New(records []table.Record, cr roles.CardRoles) *Deck {
	cards := make([]Card, len(records))
	for i, rec := range records {
		pos := i + 1
		cards[i] = Card{
			Reference:   cellOr(rec, cr.Reference, fmt.Sprintf("REF-%d", pos)),
			Title:       cellOr(rec, cr.Title, fmt.Sprintf("Card %d", pos)),
			Description: cellOr(rec, cr.Description, ""),
		}
	}
	return &Deck{cards: cards}
}

func cellOr(rec table.Record, header, fallback string) string {
	if v := strings.TrimSpace(rec[header]); v != "" {
		return v
	}
	return fallback
}

func (d *Deck) Len() int        { return len(d.cards) }
func (d *Deck) Index() int      { return d.current }
func (d *Deck) IsFlipped() bool { return d.flipped }
func (d *Deck) IsEmpty() bool   { return len(d.cards) == 0 }

func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Current returns the card under the cursor.
func (d *Deck) Current() (Card, bool) {
	if d.IsEmpty() {
		return Card{}, false
	}
	return d.cards[d.current], true
}

// GoTo moves to idx clamped to the deck bounds.
// Landing on another card shows its front side.
func (d *Deck) GoTo(idx int) {
	if d.IsEmpty() {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if last := len(d.cards) - 1; idx > last {
		idx = last
	}
	if idx == d.current {
		return
	}
	d.current = idx
	d.flipped = false
}

func (d *Deck) Next()     { d.GoTo(d.current + 1) }
func (d *Deck) Previous() { d.GoTo(d.current - 1) }

func (d *Deck) Flip() {
	if d.IsEmpty() {
		return
	}
	d.flipped = !d.flipped
}

func (d *Deck) SetFlipped(flipped bool) {
	if d.IsEmpty() {
		return
	}
	d.flipped = flipped
}

// Reset puts the cursor back on the first card, front side up.
func (d *Deck) Reset() {
	d.current = 0
	d.flipped = false
}
