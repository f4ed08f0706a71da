package study

import (
	"context"
	"io"

	"github.com/trezcool/revisioncam/core/deck"
	"github.com/trezcool/revisioncam/core/roles"
)

// Cards is the flashcard mode of a workspace.
type Cards struct {
	source
	roles roles.CardRoles
	hints []roles.Hint
	deck  *deck.Deck // nil until rendered
}

func newCards(opts Options) *Cards {
	c := &Cards{source: source{livePreview: opts.LivePreview, maxBytes: opts.MaxFileSize}}
	c.setStatus(info("No file imported yet."))
	return c
}

// Deck returns the rendered deck, nil when nothing is displayed.
func (c *Cards) Deck() *deck.Deck { return c.deck }

// Import reads a CSV file and renders it right away when live preview is on.
// The returned error is the import failure, also reported by the status.
func (c *Cards) Import(ctx context.Context, name string, r io.Reader) (Status, error) {
	ok, err := c.read(ctx, name, r)
	if !ok {
		return c.status, err
	}
	if !c.hasRecords() {
		c.setStatus(warning("The file “%s” contains no usable row.", c.fileName).withCode(CodeEmptyData))
		c.clearDisplay()
		return c.status, nil
	}

	c.setStatus(success("Import succeeded: %s from “%s”.", plural(len(c.table.Records), "card", "cards"), c.fileName))
	if c.livePreview {
		c.render()
	} else {
		c.clearDisplay()
	}
	return c.status, nil
}

// Render builds the deck from the last imported file.
func (c *Cards) Render() Status {
	if !c.hasRecords() {
		c.setStatus(warning("Import a CSV file before showing the cards.").withCode(CodeNotImported))
		return c.status
	}
	c.render()
	return c.status
}

func (c *Cards) render() {
	c.roles = roles.ResolveCardRoles(c.table.Headers)
	c.hints = roles.CardHints(c.table.Headers)
	c.deck = deck.New(c.table.Records, c.roles)
}

func (c *Cards) clearDisplay() {
	c.deck = nil
	c.roles = roles.CardRoles{}
	c.hints = nil
}

func (c *Cards) SetLivePreview(on bool) Status {
	c.livePreview = on
	switch {
	case on && c.hasRecords():
		c.render()
		c.setStatus(success("Live preview enabled for “%s”.", c.displayName()))
	case !on:
		c.setStatus(info("Live preview disabled. Use “Show cards” after an import."))
	}
	return c.status
}

// Clear forgets the imported file and the deck.
func (c *Cards) Clear() Status {
	c.reset()
	c.clearDisplay()
	c.setStatus(info("Cards cleared. Import a new file to start again."))
	return c.status
}

func (c *Cards) Next() {
	if c.deck != nil {
		c.deck.Next()
	}
}

func (c *Cards) Previous() {
	if c.deck != nil {
		c.deck.Previous()
	}
}

func (c *Cards) GoTo(idx int) {
	if c.deck != nil {
		c.deck.GoTo(idx)
	}
}

func (c *Cards) Flip() {
	if c.deck != nil {
		c.deck.Flip()
	}
}

func (c *Cards) SetFlipped(flipped bool) {
	if c.deck != nil {
		c.deck.SetFlipped(flipped)
	}
}

const (
	noCardsText       = "No card to show. Import a CSV file to start."
	emptyDeckText     = "The imported file contains no usable card."
	renderLockedTitle = "Turn off live preview to use this button."
)

// CardsView is what the cards mode displays.
type CardsView struct {
	Status      Status          `json:"status"`
	FileName    string          `json:"fileName,omitempty"`
	LivePreview bool            `json:"livePreview"`
	CanRender   bool            `json:"canRender"`
	RenderTitle string          `json:"renderTitle,omitempty"`
	Headers     []string        `json:"headers"`
	Roles       roles.CardRoles `json:"roles"`
	Hints       []string        `json:"hints,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Deck        deck.View       `json:"deck"`
}

func (c *Cards) View() CardsView {
	v := CardsView{
		Status:      c.status,
		FileName:    c.fileName,
		LivePreview: c.livePreview,
		CanRender:   c.canRender(),
		Headers:     append([]string{}, c.table.Headers...),
		Roles:       c.roles,
		Hints:       hintStrings(c.hints),
	}
	if !v.CanRender {
		v.RenderTitle = renderLockedTitle
	}

	switch {
	case c.deck == nil:
		v.Deck = new(deck.Deck).View()
		v.Placeholder = noCardsText
	case c.deck.IsEmpty():
		v.Deck = c.deck.View()
		v.Placeholder = emptyDeckText
	default:
		v.Deck = c.deck.View()
	}
	return v
}

func hintStrings(hints []roles.Hint) []string {
	if len(hints) == 0 {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = h.String()
	}
	return out
}
