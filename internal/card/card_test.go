package card

import (
	"sort"
	"testing"

	"xbitocom/internal/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func sortedIDs(cards []Card) []string {
	out := ids(cards)
	sort.Strings(out)
	return out
}

func TestCatalog(t *testing.T) {
	t.Run("embedded catalog parses", func(t *testing.T) {
		all := Catalog()
		require.NotEmpty(t, all)

		c, ok := Lookup("cannon_burst")
		require.True(t, ok)
		assert.Equal(t, 2, c.Cost)
		assert.Equal(t, EffectDamage, c.Effects[0].Type)
	})

	t.Run("starter deck is common action cards only", func(t *testing.T) {
		starter := StarterDeck()
		require.NotEmpty(t, starter)
		for _, c := range starter {
			assert.Equal(t, RarityCommon, c.Rarity)
			assert.Equal(t, TypeAction, c.Type)
		}
		assert.Equal(t, ids(starter), ids(StarterDeck()), "deterministic")
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		_, err := ParseCatalog([]byte("cards:\n  - {id: a, name: A}\n  - {id: a, name: B}\n"))
		assert.Error(t, err)
	})

	t.Run("requirements filter by vehicle type", func(t *testing.T) {
		landing, ok := Lookup("emergency_landing")
		require.True(t, ok)
		assert.False(t, landing.Usable("interceptor"))
		assert.True(t, landing.Usable("transport"))

		usable := UsableBy(Catalog(), "interceptor")
		assert.NotContains(t, ids(usable), "emergency_landing")
		assert.Contains(t, ids(usable), "afterburner")
	})
}

func TestShuffle(t *testing.T) {
	t.Run("empty and singleton are no-ops", func(t *testing.T) {
		var empty []Card
		Shuffle(empty, rng.New(1))
		assert.Empty(t, empty)

		one := []Card{{ID: "x"}}
		Shuffle(one, rng.New(1))
		assert.Equal(t, "x", one[0].ID)
	})

	t.Run("result is a permutation", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			deck := append(StarterDeck(), StarterDeck()...)
			before := sortedIDs(deck)
			Shuffle(deck, rng.New(seed))
			assert.Equal(t, before, sortedIDs(deck))
		}
	})
}

func TestDraw(t *testing.T) {
	deckOf := func(idList ...string) []Card {
		out := make([]Card, len(idList))
		for i, id := range idList {
			out[i] = Card{ID: id}
		}
		return out
	}

	t.Run("draws from the front in order", func(t *testing.T) {
		p := &Piles{Deck: deckOf("a", "b", "c")}
		n := Draw(p, 2, rng.New(1))
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"a", "b"}, ids(p.Hand))
		assert.Equal(t, []string{"c"}, ids(p.Deck))
	})

	t.Run("reshuffles discard when deck runs out", func(t *testing.T) {
		p := &Piles{Deck: deckOf("a"), Discard: deckOf("b", "c")}
		n := Draw(p, 3, rng.New(7))
		assert.Equal(t, 3, n)
		assert.Empty(t, p.Discard)
		assert.Empty(t, p.Deck)
		assert.Equal(t, "a", p.Hand[0].ID)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, ids(p.Hand))
	})

	t.Run("stops early without padding", func(t *testing.T) {
		p := &Piles{Deck: deckOf("a")}
		n := Draw(p, 5, rng.New(1))
		assert.Equal(t, 1, n)
		assert.Len(t, p.Hand, 1)
	})

	t.Run("total is conserved across draws and discards", func(t *testing.T) {
		src := rng.New(99)
		p := &Piles{Deck: append(StarterDeck(), StarterDeck()...)}
		total := p.Total()
		for round := 0; round < 25; round++ {
			Draw(p, round%4+1, src)
			assert.Equal(t, total, p.Total())
			for len(p.Hand) > 0 && src.Intn(3) > 0 {
				require.NoError(t, Discard(p, p.Hand[0].ID))
				assert.Equal(t, total, p.Total())
			}
		}
	})

	t.Run("discard of unknown card fails", func(t *testing.T) {
		p := &Piles{Hand: deckOf("a")}
		assert.Error(t, Discard(p, "zzz"))
		assert.Len(t, p.Hand, 1)
	})
}
