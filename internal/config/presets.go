package config

import "sort"

var Presets = map[string]*Config{
	"classroom": {
		Deck:      DeckConfig{Size: 13, Order: "random"},
		Algorithm: "bubble",
	},
	"worst-case": {
		Deck:      DeckConfig{Size: 10, Order: "reverse"},
		Algorithm: "insertion",
	},
	"best-case": {
		Deck:      DeckConfig{Size: 10, Order: "as-found"},
		Algorithm: "insertion",
	},
	"tiny": {
		Deck:      DeckConfig{Size: 4, Order: "reverse"},
		Algorithm: "bubble",
	},
	"counting-demo": {
		Deck:      DeckConfig{Keys: []int{3, 1, 2}, Order: "as-found"},
		Algorithm: "counting",
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the deck and algorithm of preset p onto c, keeping c's
// timers, theme and paths.
func (c *Config) Apply(p *Config) {
	c.Deck.Size = p.Deck.Size
	c.Deck.Order = p.Deck.Order
	c.Deck.Keys = append([]int(nil), p.Deck.Keys...)
	if p.Deck.Seed != 0 {
		c.Deck.Seed = p.Deck.Seed
	}
	if p.Algorithm != "" {
		c.Algorithm = p.Algorithm
	}
}
