package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cardsort/internal/deck"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Table     lipgloss.Color
	CardFace  lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	RedInk    lipgloss.Color
	BlackInk  lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:      "classic",
		Primary:   lipgloss.Color("#f5f5dc"),
		Secondary: lipgloss.Color("#a3d9a5"),
		Accent:    lipgloss.Color("#ffd966"), // brass
		Table:     lipgloss.Color("#0a5c36"), // felt
		CardFace:  lipgloss.Color("#fdfdfd"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#7f9f8a"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
		RedInk:    lipgloss.Color("#c0392b"),
		BlackInk:  lipgloss.Color("#1e1e1e"),
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"), // Magenta
		Secondary: lipgloss.Color("#00ffff"), // Cyan
		Accent:    lipgloss.Color("#ffff00"), // Yellow
		Table:     lipgloss.Color("#0a0a0a"),
		CardFace:  lipgloss.Color("#1a001a"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
		RedInk:    lipgloss.Color("#ff4488"),
		BlackInk:  lipgloss.Color("#00ffff"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Table:     lipgloss.Color("#001100"),
		CardFace:  lipgloss.Color("#002200"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		RedInk:    lipgloss.Color("#88ff88"),
		BlackInk:  lipgloss.Color("#00ff00"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Table:     lipgloss.Color("#000000"),
		CardFace:  lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
		RedInk:    lipgloss.Color("#cc0000"),
		BlackInk:  lipgloss.Color("#000000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"), // Ocean blue
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Table:     lipgloss.Color("#001a33"),
		CardFace:  lipgloss.Color("#e0f0ff"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
		RedInk:    lipgloss.Color("#d62828"),
		BlackInk:  lipgloss.Color("#001a33"),
	}

	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// HighlightColor is the border color a card gets for h.
func (t Theme) HighlightColor(h deck.Highlight) lipgloss.Color {
	switch h {
	case deck.Comparing:
		return t.Accent
	case deck.Current:
		return t.Secondary
	case deck.Swapping:
		return t.Error
	case deck.Sorted:
		return t.Success
	default:
		return t.Muted
	}
}

func (t Theme) Ink(c deck.Color) lipgloss.Color {
	if c == deck.Red {
		return t.RedInk
	}
	return t.BlackInk
}
