package config

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/cardsort/internal/deck"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble" {
		t.Errorf("expected algorithm bubble, got %s", cfg.Algorithm)
	}
	if cfg.Autoplay <= 0 {
		t.Error("autoplay interval should be positive")
	}
	if cfg.Deck.Size < MinUISize || cfg.Deck.Size > MaxUISize {
		t.Errorf("default size %d outside UI range", cfg.Deck.Size)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardsort.yaml")
	data := []byte("deck:\n  size: 5\n  order: reverse\nautoplay_interval: 250ms\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Deck.Size != 5 || cfg.Deck.Order != "reverse" {
		t.Errorf("deck = %+v", cfg.Deck)
	}
	if cfg.Autoplay != 250*time.Millisecond {
		t.Errorf("autoplay = %s", cfg.Autoplay)
	}
	if cfg.HighlightClear != DefaultHighlightClear {
		t.Errorf("unset highlight_clear should keep default, got %s", cfg.HighlightClear)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Deck.Seed = 99
	cfg.Theme = "neon"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero size", func(c *Config) { c.Deck.Size = 0 }, deck.ErrInvalidSize},
		{"bad order", func(c *Config) { c.Deck.Order = "zigzag" }, deck.ErrInvalidOrder},
		{"keys override size", func(c *Config) { c.Deck.Size = 0; c.Deck.Keys = []int{2, 1} }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Autoplay = 0
	if cfg.Validate() == nil {
		t.Error("expected error for zero autoplay interval")
	}
}

func TestBuildDeck(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Deck = DeckConfig{Size: 6, Order: "random", Seed: 5}
	a, err := cfg.BuildDeck()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := cfg.BuildDeck()
	if diff := cmp.Diff(a.Keys(), b.Keys()); diff != "" {
		t.Errorf("same seed, different decks:\n%s", diff)
	}

	cfg.Deck.Keys = []int{3, 1, 2}
	d, err := cfg.BuildDeck()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{3, 1, 2}, d.Keys()); diff != "" {
		t.Errorf("explicit keys ignored:\n%s", diff)
	}
}

func TestBuildDeckKeysUseSeed(t *testing.T) {
	keys := []int{5, 3, 1, 2, 4, 6, 9, 8, 7, 10, 13, 12, 11}
	cfg := DefaultConfig()
	cfg.Deck = DeckConfig{Keys: keys}
	if _, err := cfg.BuildDeck(); err != nil {
		t.Fatal(err)
	}
	if cfg.Deck.Seed == 0 {
		t.Error("BuildDeck left a zero seed for an explicit deck")
	}

	cfg.Deck.Seed = 99
	d, err := cfg.BuildDeck()
	if err != nil {
		t.Fatal(err)
	}
	want, _ := deck.FromKeysRand(keys, rand.New(rand.NewSource(99)))
	d.Shuffle()
	want.Shuffle()
	if diff := cmp.Diff(want.Keys(), d.Keys()); diff != "" {
		t.Errorf("shuffle ignored the configured seed:\n%s", diff)
	}
}

func TestResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	seed := cfg.ResolveSeed()
	if seed == 0 || cfg.Deck.Seed != seed {
		t.Errorf("ResolveSeed = %d, stored %d", seed, cfg.Deck.Seed)
	}
	if again := cfg.ResolveSeed(); again != seed {
		t.Error("ResolveSeed changed an already set seed")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tiny")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Deck.Size != 4 || cfg.Deck.Order != "reverse" {
		t.Errorf("tiny preset = %+v", cfg.Deck)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme = "neon"
	cfg.Apply(GetPreset("counting-demo"))

	if cfg.Algorithm != "counting" {
		t.Errorf("algorithm = %s", cfg.Algorithm)
	}
	if cfg.Theme != "neon" {
		t.Error("Apply overwrote the theme")
	}
	d, err := cfg.BuildDeck()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{3, 1, 2}, d.Keys()); diff != "" {
		t.Errorf("preset deck (-want +got):\n%s", diff)
	}
}
