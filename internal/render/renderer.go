package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/logmux/logmux/internal/config"
	"github.com/logmux/logmux/internal/filter"
	"github.com/logmux/logmux/pkg/logline"
)

// Renderer styles records for display
type Renderer struct {
	levelStyles map[logline.Level]lipgloss.Style
	matchStyle  lipgloss.Style
	bookmark    lipgloss.Style
	lineNumber  lipgloss.Style
	timestamp   lipgloss.Style

	StatusBar    lipgloss.Style
	StatusText   lipgloss.Style
	PaneBorder   lipgloss.Style
	ActiveBorder lipgloss.Style
}

// LineOptions selects per-line decorations
type LineOptions struct {
	Filter           *filter.Filter
	Bookmarked       bool
	LineNumber       int // -1 to omit
	Width            int
	HorizontalScroll int
	Wrap             bool
	LevelColors      bool
	JSONPretty       bool
	RelativeTime     bool
	Now              time.Time
}

// New creates a renderer from the theme config
func New(theme *config.ThemeConfig) *Renderer {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Renderer{
		levelStyles: map[logline.Level]lipgloss.Style{
			logline.LevelNone:  lipgloss.NewStyle(),
			logline.LevelTrace: fg(theme.Levels.Trace),
			logline.LevelDebug: fg(theme.Levels.Debug),
			logline.LevelInfo:  fg(theme.Levels.Info),
			logline.LevelWarn:  fg(theme.Levels.Warn),
			logline.LevelError: fg(theme.Levels.Error),
		},
		matchStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color(theme.FilterMatch)),
		bookmark:   fg(theme.Bookmark).Bold(true),
		lineNumber: fg(theme.LineNumbers),
		timestamp:  fg(theme.LineNumbers),
		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StatusBar)).
			Foreground(lipgloss.Color(theme.StatusBarText)),
		StatusText:   fg(theme.StatusBarText),
		PaneBorder:   fg(theme.PaneBorder),
		ActiveBorder: fg(theme.ActiveBorder),
	}
}

// Line renders one record as a display row (or several when wrapping).
func (r *Renderer) Line(rec logline.Record, opts LineOptions) string {
	text := rec.Raw
	if rec.HasANSI && (opts.Filter != nil || opts.LevelColors) {
		// Embedded escapes fight our own styling; drop them when we
		// add any of our own.
		text = ansi.Strip(text)
	}

	switch {
	case opts.JSONPretty && rec.IsJSON:
		text = highlightJSON(text)
	case opts.Filter != nil:
		text = r.highlightMatches(text, opts.Filter, rec)
	default:
		if opts.LevelColors && rec.Level != logline.LevelNone && !rec.HasANSI {
			text = r.levelStyles[rec.Level].Render(text)
		}
	}

	text = r.prefix(rec, opts) + text

	if opts.HorizontalScroll > 0 {
		text = ansi.Cut(text, opts.HorizontalScroll, opts.HorizontalScroll+opts.Width)
	} else if opts.Width > 0 {
		if opts.Wrap {
			text = wordwrap.String(text, opts.Width)
		} else {
			text = ansi.Truncate(text, opts.Width, "")
		}
	}
	return text
}

func (r *Renderer) prefix(rec logline.Record, opts LineOptions) string {
	var b strings.Builder
	if opts.Bookmarked {
		b.WriteString(r.bookmark.Render("●") + " ")
	}
	if opts.LineNumber >= 0 {
		b.WriteString(r.lineNumber.Render(fmt.Sprintf("%5d ", opts.LineNumber)))
	}
	if opts.RelativeTime && rec.Timestamp != nil {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		b.WriteString(r.timestamp.Render(fmt.Sprintf("%-8s ", logline.RelativeTime(*rec.Timestamp, now))))
	}
	return b.String()
}

// highlightMatches styles every filter match range in text. Level
// color fills the stretches between matches.
func (r *Renderer) highlightMatches(text string, f *filter.Filter, rec logline.Record) string {
	ranges := f.FindMatches(text)
	if len(ranges) == 0 {
		return r.levelStyles[rec.Level].Render(text)
	}
	base := r.levelStyles[rec.Level]
	var b strings.Builder
	last := 0
	for _, m := range ranges {
		if m.Start > last {
			b.WriteString(base.Render(text[last:m.Start]))
		}
		b.WriteString(r.matchStyle.Render(text[m.Start:m.End]))
		last = m.End
	}
	if last < len(text) {
		b.WriteString(base.Render(text[last:]))
	}
	return b.String()
}
