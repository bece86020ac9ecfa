package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/logmux/logmux/internal/config"
	"github.com/logmux/logmux/internal/debuglog"
	"github.com/logmux/logmux/internal/render"
	"github.com/logmux/logmux/internal/source"
	"github.com/logmux/logmux/internal/view"
	"github.com/logmux/logmux/pkg/logline"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeHelp
)

const (
	frameInterval = 16 * time.Millisecond
	maxEventBatch = 500
	statusTTL     = 3 * time.Second
)

// sourceEventsMsg carries a drained batch from the multiplexer
type sourceEventsMsg []source.SourcedEvent

// tickMsg drives debounce checks and status expiry
type tickMsg time.Time

// Model is the main application model
type Model struct {
	state    *view.State
	mux      *source.Mux
	renderer *render.Renderer
	cfg      *config.Config

	filterInput textinput.Model

	mode   Mode
	width  int
	height int
}

// NewModel creates the application model over an already-populated
// multiplexer.
func NewModel(cfg *config.Config, mux *source.Mux, sources []source.Descriptor) *Model {
	st := view.NewState(view.Options{
		Capacity: cfg.Buffer.MaxLines,
		Debounce: cfg.Debounce(),
	}, sources)
	st.LevelColors = cfg.Display.LevelColors
	st.LineNumbers = cfg.Display.LineNumbers
	st.LineWrap = cfg.Display.WrapLines
	st.RelativeTime = cfg.Display.RelativeTime
	st.JSONPretty = cfg.Display.JSONPretty
	st.SidePanel = cfg.Display.SidePanel

	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 256
	ti.Prompt = "/"

	return &Model{
		state:       st,
		mux:         mux,
		renderer:    render.New(&cfg.Theme),
		cfg:         cfg,
		filterInput: ti,
	}
}

// State exposes the view state for tests
func (m *Model) State() *view.State { return m.state }

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvents(), m.tick())
}

// waitForEvents blocks until the multiplexer delivers something, then
// drains whatever else is ready, up to maxEventBatch.
func (m *Model) waitForEvents() tea.Cmd {
	ch := m.mux.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		batch := sourceEventsMsg{ev}
		for len(batch) < maxEventBatch {
			select {
			case ev, ok := <-ch:
				if !ok {
					return batch
				}
				batch = append(batch, ev)
			default:
				return batch
			}
		}
		return batch
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sourceEventsMsg:
		m.applyEvents(msg)
		return m, m.waitForEvents()

	case tickMsg:
		m.state.CheckDebounce()
		m.state.ExpireStatus(statusTTL)
		m.state.TickThroughput()
		return m, m.tick()
	}

	return m, nil
}

// applyEvents folds a drained batch into the state. Consecutive line
// events are pushed as one batch so scroll settles once.
func (m *Model) applyEvents(events []source.SourcedEvent) {
	var lines []logline.Record
	flush := func() {
		if len(lines) > 0 {
			m.state.PushBatch(lines)
			lines = nil
		}
	}
	for _, ev := range events {
		switch ev.Event.Kind {
		case source.EventLine:
			lines = append(lines, ev.Event.Record)
		case source.EventError:
			flush()
			m.state.SetStatus(fmt.Sprintf("[%s] Error: %s", m.sourceName(ev.SourceID), ev.Event.Err))
			debuglog.Warn("source error", "source", ev.SourceID, "err", ev.Event.Err)
		case source.EventEnd:
			flush()
			m.state.SetStatus(fmt.Sprintf("[%s] Stream ended", m.sourceName(ev.SourceID)))
			debuglog.Info("stream ended", "source", ev.SourceID)
		}
	}
	flush()
}

func (m *Model) sourceName(id int) string {
	for _, d := range m.state.Sources() {
		if d.ID == id {
			return d.Name
		}
	}
	return fmt.Sprintf("source-%d", id)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeFilter {
		return m.handleFilterKey(msg)
	}
	if m.mode == ModeHelp {
		m.mode = ModeNormal
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.state.ScrollDown()
	case "k", "up":
		m.state.ScrollUp()
	case "ctrl+d", "pgdown", "f":
		m.state.PageDown()
	case "ctrl+u", "pgup":
		m.state.PageUp()
	case "g", "home":
		m.state.GoToTop()
	case "G", "end":
		m.state.GoToBottom()

	case "h", "left":
		m.state.ScrollLeft()
	case "l", "right":
		m.state.ScrollRight()
	case "0":
		m.state.ScrollHome()

	case "/":
		m.mode = ModeFilter
		p := m.state.ActivePane()
		p.FilterEditing = true
		m.filterInput.SetValue(p.FilterInput)
		m.filterInput.CursorEnd()
		m.filterInput.Focus()
		return m, textinput.Blink
	case "esc":
		m.state.CancelFilter()

	case "b":
		m.state.ToggleBookmark()
	case "m":
		m.state.NextBookmark()
	case "M":
		m.state.PrevBookmark()
	case "n":
		m.state.NextMatch()
	case "N":
		m.state.PrevMatch()

	case "tab":
		m.state.CyclePane()
	case "s":
		m.state.Split(view.SplitVertical)
	case "S":
		m.state.Split(view.SplitHorizontal)
	case "x":
		m.state.ClosePane()
	case "v":
		m.state.CycleViewMode()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.state.ToggleSourceVisible(int(msg.String()[0] - '1'))

	case "e":
		m.exportActivePane()

	case "T":
		m.cycleTheme()

	case "J":
		m.state.JSONPretty = !m.state.JSONPretty
	case "t":
		m.state.RelativeTime = !m.state.RelativeTime
	case "c":
		m.state.LevelColors = !m.state.LevelColors
	case "w":
		m.state.LineWrap = !m.state.LineWrap
	case "#":
		m.state.LineNumbers = !m.state.LineNumbers
	case "o":
		m.state.SidePanel = !m.state.SidePanel

	case "?":
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.state.SetFilterInput(m.filterInput.Value())
		m.state.ApplyFilter()
		m.mode = ModeNormal
		m.filterInput.Blur()
		return m, nil

	case "esc":
		m.state.CancelFilter()
		m.filterInput.SetValue("")
		m.mode = ModeNormal
		m.filterInput.Blur()
		return m, nil

	case "ctrl+r":
		m.state.ToggleRegexMode()
		return m, nil

	case "up":
		if pat, ok := m.state.HistoryPrev(); ok {
			m.filterInput.SetValue(pat)
			m.filterInput.CursorEnd()
		}
		return m, nil

	case "down":
		if pat, ok := m.state.HistoryNext(); ok {
			m.filterInput.SetValue(pat)
			m.filterInput.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.state.SetFilterInput(m.filterInput.Value())
	return m, cmd
}

func (m *Model) cycleTheme() {
	next := config.NextThemeName(m.cfg.Theme.Name)
	if theme, ok := config.NamedTheme(next); ok {
		m.cfg.Theme = theme
		m.renderer = render.New(&m.cfg.Theme)
		m.state.SetStatus("Theme: " + next)
	}
}

func (m *Model) exportActivePane() {
	path := view.DefaultExportPath(m.cfg.Export.Dir)
	n, err := m.state.ExportToFile(path)
	if err != nil {
		m.state.SetStatus(fmt.Sprintf("Export failed: %v", err))
		return
	}
	m.state.SetStatus(fmt.Sprintf("Exported %d lines to %s", n, path))
}

// Close shuts the ingestion side down
func (m *Model) Close() {
	m.mux.Close()
}
