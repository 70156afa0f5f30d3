package config

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cardsort/internal/deck"
)

const (
	DefaultSize           = 8
	DefaultOrder          = "random"
	DefaultAlgorithm      = "bubble"
	DefaultAutoplay       = time.Second
	DefaultHighlightClear = 500 * time.Millisecond
	DefaultTheme          = "classic"
	DefaultDataDir        = ".cardsort"
	DefaultAddr           = ":8080"

	// MinUISize and MaxUISize bound the deck sizes the views offer.
	MinUISize = 2
	MaxUISize = 13
)

type Config struct {
	Deck           DeckConfig    `yaml:"deck"`
	Algorithm      string        `yaml:"algorithm"`
	Autoplay       time.Duration `yaml:"autoplay_interval"`
	HighlightClear time.Duration `yaml:"highlight_clear"`
	Theme          string        `yaml:"theme"`
	DataDir        string        `yaml:"data_dir"`
	Serve          ServeConfig   `yaml:"serve"`
}

type DeckConfig struct {
	Size  int    `yaml:"size"`
	Order string `yaml:"order"`
	Seed  int64  `yaml:"seed"`
	// Keys, when set, fixes the exact starting order and overrides Size and Order.
	Keys []int `yaml:"keys,omitempty"`
}

type ServeConfig struct {
	Addr      string `yaml:"addr"`
	PublicURL string `yaml:"public_url"`
}

func DefaultConfig() *Config {
	return &Config{
		Deck: DeckConfig{
			Size:  DefaultSize,
			Order: DefaultOrder,
		},
		Algorithm:      DefaultAlgorithm,
		Autoplay:       DefaultAutoplay,
		HighlightClear: DefaultHighlightClear,
		Theme:          DefaultTheme,
		DataDir:        DefaultDataDir,
		Serve:          ServeConfig{Addr: DefaultAddr},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields a deck or a timer is built from.
func (c *Config) Validate() error {
	if len(c.Deck.Keys) == 0 && c.Deck.Size < 1 {
		return &deck.ConfigurationError{Field: "size", Value: c.Deck.Size, Wrapped: deck.ErrInvalidSize}
	}
	if _, err := deck.ParseOrder(c.Deck.Order); err != nil {
		return err
	}
	if c.Autoplay <= 0 {
		return fmt.Errorf("config: autoplay_interval must be positive, got %s", c.Autoplay)
	}
	if c.HighlightClear < 0 {
		return fmt.Errorf("config: highlight_clear must not be negative, got %s", c.HighlightClear)
	}
	return nil
}

// ResolveSeed fixes a zero seed to the current time so the run can be replayed.
func (c *Config) ResolveSeed() int64 {
	if c.Deck.Seed == 0 {
		c.Deck.Seed = time.Now().UnixNano()
	}
	return c.Deck.Seed
}

// BuildDeck creates the starting deck described by c.Deck.
func (c *Config) BuildDeck() (*deck.Deck, error) {
	rng := rand.New(rand.NewSource(c.ResolveSeed()))
	if len(c.Deck.Keys) > 0 {
		return deck.FromKeysRand(c.Deck.Keys, rng)
	}
	order, err := deck.ParseOrder(c.Deck.Order)
	if err != nil {
		return nil, err
	}
	return deck.New(c.Deck.Size, order, rng)
}
