package card

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var catalogYAML []byte

type catalogFile struct {
	Cards []Card `yaml:"cards"`
}

var catalog = mustParseCatalog(catalogYAML)

func mustParseCatalog(b []byte) []Card {
	cards, err := ParseCatalog(b)
	if err != nil {
		panic(fmt.Sprintf("card: embedded catalog: %v", err))
	}
	return cards
}

// ParseCatalog decodes a YAML card list and rejects duplicate or blank ids.
func ParseCatalog(b []byte) ([]Card, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(f.Cards))
	for _, c := range f.Cards {
		if c.ID == "" {
			return nil, fmt.Errorf("card without id: %q", c.Name)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate card id: %s", c.ID)
		}
		seen[c.ID] = true
		if c.Cost < 0 {
			return nil, fmt.Errorf("card %s: negative cost", c.ID)
		}
	}
	return f.Cards, nil
}

// Catalog returns a copy of every known card in catalog order.
func Catalog() []Card {
	out := make([]Card, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id string) (Card, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// StarterDeck is every common action card, in catalog order.
func StarterDeck() []Card {
	out := []Card{}
	for _, c := range catalog {
		if c.Rarity == RarityCommon && c.Type == TypeAction {
			out = append(out, c)
		}
	}
	return out
}

// UsableBy filters cards to those a vehicle type may carry.
func UsableBy(cards []Card, vehicleType string) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Usable(vehicleType) {
			out = append(out, c)
		}
	}
	return out
}
