package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cardsort/internal/config"
	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/storage"
	"github.com/san-kum/cardsort/internal/trace"
)

type Options struct {
	Algorithm      sorting.Algorithm
	Autoplay       time.Duration
	HighlightClear time.Duration
	Theme          string
	Store          *storage.Store
	Seed           int64
}

type (
	clearMsg    struct{ gen int }
	autoplayMsg struct{ gen int }
	savedMsg    struct {
		id  string
		err error
	}
)

var orderCycle = []deck.Order{deck.AsFound, deck.Reverse, deck.Random}

// Model is the terminal view of one controller. It keeps its own copy of
// the cards so highlight fading never touches the deck.
type Model struct {
	ctrl     *run.Controller
	rec      *trace.Recorder
	opts     Options
	tabs     []sorting.Algorithm
	cards    []deck.CardView
	help     help.Model
	showHelp bool
	bars     bool
	autoplay bool
	playGen  int
	clearGen int
	status   string
	err      error
	width    int
	height   int
}

func New(ctrl *run.Controller, opts Options) Model {
	if opts.Autoplay <= 0 {
		opts.Autoplay = config.DefaultAutoplay
	}
	if opts.Theme != "" {
		SetTheme(opts.Theme)
	}

	rec := trace.NewRecorder()
	ctrl.AddObserver(rec)

	m := Model{
		ctrl:   ctrl,
		rec:    rec,
		opts:   opts,
		tabs:   ctrl.Algorithms(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	if opts.Algorithm != "" {
		if _, err := ctrl.Select(opts.Algorithm); err != nil {
			m.err = err
		}
	}
	m.cards = ctrl.Snapshot()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) active() sorting.Algorithm { return m.ctrl.State().Active }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case clearMsg:
		if msg.gen == m.clearGen {
			for i := range m.cards {
				if m.cards[i].Highlight == deck.Swapping {
					m.cards[i].Highlight = deck.None
				}
			}
		}
		return m, nil
	case autoplayMsg:
		if !m.autoplay || msg.gen != m.playGen {
			return m, nil
		}
		r, err := m.ctrl.Step(m.active())
		cmd := m.apply(r, err)
		if !m.ctrl.State().Running {
			m.autoplay = false
			return m, cmd
		}
		return m, tea.Batch(cmd, m.autoplayTick())
	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "saved " + msg.id
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	alg := m.active()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, keys.Start):
		r, err := m.ctrl.Start(alg)
		return m, m.apply(r, err)
	case key.Matches(msg, keys.Step):
		r, err := m.ctrl.Step(alg)
		return m, m.apply(r, err)
	case key.Matches(msg, keys.Reset):
		m.stopAutoplay()
		r, err := m.ctrl.Reset(alg)
		return m, m.apply(r, err)
	case key.Matches(msg, keys.Autoplay):
		if m.autoplay {
			m.stopAutoplay()
			return m, nil
		}
		var cmd tea.Cmd
		if !m.ctrl.State().Running {
			r, err := m.ctrl.Start(alg)
			cmd = m.apply(r, err)
		}
		if m.ctrl.State().Running && m.active() == alg {
			m.autoplay = true
			m.playGen++
			return m, tea.Batch(cmd, m.autoplayTick())
		}
		return m, cmd
	case key.Matches(msg, keys.NextTab):
		return m, m.apply(m.ctrl.Select(m.tabAt(1)))
	case key.Matches(msg, keys.PrevTab):
		return m, m.apply(m.ctrl.Select(m.tabAt(-1)))
	case key.Matches(msg, keys.Shuffle):
		m.stopAutoplay()
		return m, m.apply(m.ctrl.Shuffle())
	case key.Matches(msg, keys.Bigger):
		m.stopAutoplay()
		return m, m.reconfigure(min(m.ctrl.Size()+1, config.MaxUISize), m.ctrl.Order())
	case key.Matches(msg, keys.Smaller):
		m.stopAutoplay()
		return m, m.reconfigure(max(m.ctrl.Size()-1, config.MinUISize), m.ctrl.Order())
	case key.Matches(msg, keys.Order):
		m.stopAutoplay()
		return m, m.reconfigure(m.ctrl.Size(), nextOrder(m.ctrl.Order()))
	case key.Matches(msg, keys.View):
		m.bars = !m.bars
		return m, nil
	case key.Matches(msg, keys.Save):
		return m, m.save()
	case key.Matches(msg, keys.Theme):
		NextTheme()
		return m, nil
	}
	return m, nil
}

func (m *Model) reconfigure(size int, order deck.Order) tea.Cmd {
	return m.apply(m.ctrl.Configure(size, order))
}

// apply refreshes the local cards after a controller call and arms the
// highlight fade when a swap is on screen.
func (m *Model) apply(r run.Report, err error) tea.Cmd {
	m.cards = m.ctrl.Snapshot()
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.status = ""
	if r.Completed {
		m.status = fmt.Sprintf("%s finished: %s", r.Algorithm, r.Stats)
	}

	m.clearGen++
	if m.opts.HighlightClear <= 0 || !hasHighlight(m.cards, deck.Swapping) {
		return nil
	}
	gen := m.clearGen
	return tea.Tick(m.opts.HighlightClear, func(time.Time) tea.Msg { return clearMsg{gen: gen} })
}

func (m *Model) stopAutoplay() {
	m.autoplay = false
	m.playGen++
}

func (m Model) autoplayTick() tea.Cmd {
	gen := m.playGen
	return tea.Tick(m.opts.Autoplay, func(time.Time) tea.Msg { return autoplayMsg{gen: gen} })
}

func (m Model) tabAt(delta int) sorting.Algorithm {
	if len(m.tabs) == 0 {
		return m.active()
	}
	idx := 0
	for i, alg := range m.tabs {
		if alg == m.active() {
			idx = i
		}
	}
	return m.tabs[(idx+delta+len(m.tabs))%len(m.tabs)]
}

func (m Model) save() tea.Cmd {
	if m.opts.Store == nil {
		return func() tea.Msg { return savedMsg{err: errors.New("no data directory configured")} }
	}
	frames := m.rec.Frames()
	if len(frames) == 0 {
		return func() tea.Msg { return savedMsg{err: errors.New("nothing to save: start a run first")} }
	}
	alg := m.rec.Algorithm()
	last := frames[len(frames)-1]
	meta := storage.RunMetadata{
		Algorithm:   string(alg),
		Seed:        m.opts.Seed,
		Size:        len(last.Keys),
		Order:       string(m.ctrl.Order()),
		InitialKeys: frames[0].Keys,
		FinalKeys:   last.Keys,
		Stats:       last.Stats,
		Completed:   last.Completed,
		Sorted:      trace.Displacement(last.Keys) == 0,
		Source:      "tui",
	}
	store := m.opts.Store
	return func() tea.Msg {
		id, err := store.Save(meta, frames)
		return savedMsg{id: id, err: err}
	}
}

func nextOrder(o deck.Order) deck.Order {
	for i, x := range orderCycle {
		if x == o {
			return orderCycle[(i+1)%len(orderCycle)]
		}
	}
	return deck.AsFound
}

func hasHighlight(cards []deck.CardView, h deck.Highlight) bool {
	for _, c := range cards {
		if c.Highlight == h {
			return true
		}
	}
	return false
}

// Sortedness is 1 for a sorted order and 0 for the reversed one.
func Sortedness(keys []int) float64 {
	n := len(keys)
	worst := n * n / 2
	if worst == 0 {
		return 1
	}
	return 1 - float64(trace.Displacement(keys))/float64(worst)
}

func (m Model) View() string {
	t := CurrentTheme
	alg := m.active()
	state := m.ctrl.State()
	var s strings.Builder

	s.WriteString(GradientText("CARDSORT", t.Primary, t.Secondary))
	s.WriteString(Subtle.Render(fmt.Sprintf("  %d cards · %s · theme %s", m.ctrl.Size(), m.ctrl.Order(), t.Name)) + "\n\n")
	tabs := m.viewTabs(t)
	s.WriteString(tabs + "\n")
	s.WriteString(Separator(max(lipgloss.Width(tabs), 20)) + "\n")

	info := sorting.Describe(alg)
	s.WriteString(Subtle.Render(fmt.Sprintf("%s: %s, %s", info.Title, info.Summary, info.Cost)) + "\n\n")

	cardKeys := make([]int, len(m.cards))
	for i, c := range m.cards {
		cardKeys[i] = c.Key
	}
	if m.bars {
		c := NewCanvas(max(len(cardKeys)*3/2+1, 4), 4)
		c.DrawBars(cardKeys)
		s.WriteString(lipgloss.NewStyle().Foreground(t.Secondary).Render(c.String()))
	} else {
		s.WriteString(RenderCards(m.cards, t) + "\n")
	}
	s.WriteString("\n")

	st := m.ctrl.Stats(alg)
	var panel strings.Builder
	if alg == sorting.Counting {
		panel.WriteString(Metric("Operations", st.Operations) + "\n")
	} else {
		panel.WriteString(Metric("Comparisons", st.Comparisons) + "\n")
		panel.WriteString(Metric("Swaps", st.Swaps) + "\n")
	}
	panel.WriteString(Metric("Steps", st.Steps) + "\n")
	panel.WriteString(MetricLabel.Render("Sortedness") + ProgressBar(Sortedness(cardKeys), 20))
	s.WriteString(GlassPanel.Render(panel.String()) + "\n")

	if frames := m.rec.Frames(); len(frames) > 1 && m.rec.Algorithm() == alg {
		chart := asciigraph.Plot(trace.Costs(frames), asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("cost per step"))
		s.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Render(chart) + "\n")
		s.WriteString(MetricLabel.Render("Displacement") + SparklineChart(trace.Displacements(frames), 40) + "\n")
	}

	s.WriteString("\n" + Separator(40) + "\n")
	s.WriteString(m.viewStatus(state, st.Steps) + "\n")
	s.WriteString(m.help.View(keys) + "\n")
	return s.String()
}

func (m Model) viewTabs(t Theme) string {
	state := m.ctrl.State()
	tabs := make([]string, len(m.tabs))
	for i, alg := range m.tabs {
		label := " " + sorting.Describe(alg).Title + " "
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(t.Muted)
		if alg == state.Active {
			style = style.Bold(true).Foreground(t.Text).Background(t.Table).Underline(true)
			if state.Running {
				label = "● " + label
			}
		}
		tabs[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus(state run.State, steps int) string {
	var status string
	switch {
	case m.autoplay:
		status = StatusRunning.Render(AnimatedSpinner(steps) + " AUTOPLAY")
	case state.Running:
		status = StatusRunning.Render("RUNNING")
	default:
		status = StatusIdle.Render("IDLE")
	}
	if m.err != nil {
		return status + "  " + StatusError.Render(m.err.Error())
	}
	if m.status != "" {
		status += "  " + Subtle.Render(m.status)
	}
	return status
}

// Run starts the terminal UI and blocks until it exits.
func Run(ctrl *run.Controller, opts Options) error {
	_, err := tea.NewProgram(New(ctrl, opts), tea.WithAltScreen()).Run()
	return err
}
