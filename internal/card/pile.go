package card

import (
	"fmt"

	"xbitocom/internal/rng"
)

// Piles are the three zones a battle moves cards through. Deck draws from
// the front; Discard is unordered.
type Piles struct {
	Deck    []Card `json:"deck"`
	Hand    []Card `json:"hand"`
	Discard []Card `json:"discard"`
}

func (p *Piles) Total() int {
	return len(p.Deck) + len(p.Hand) + len(p.Discard)
}

// Shuffle permutes deck in place (Fisher–Yates).
func Shuffle(deck []Card, src rng.Source) {
	for i := len(deck) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Draw moves up to count cards from the deck into the hand, recycling the
// discard pile once the deck runs dry. It returns how many were drawn, which
// is less than count only when both deck and discard are empty.
func Draw(p *Piles, count int, src rng.Source) int {
	drawn := 0
	for drawn < count {
		if len(p.Deck) == 0 {
			if len(p.Discard) == 0 {
				break
			}
			p.Deck = p.Discard
			p.Discard = []Card{}
			Shuffle(p.Deck, src)
		}
		p.Hand = append(p.Hand, p.Deck[0])
		p.Deck = p.Deck[1:]
		drawn++
	}
	return drawn
}

// IndexInHand returns the position of the first card with id, or -1.
func (p *Piles) IndexInHand(id string) int {
	for i, c := range p.Hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Discard moves the first hand card with id onto the discard pile.
func Discard(p *Piles, id string) error {
	i := p.IndexInHand(id)
	if i < 0 {
		return fmt.Errorf("card not in hand: %s", id)
	}
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	p.Discard = append(p.Discard, c)
	return nil
}
