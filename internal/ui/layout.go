package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/logmux/logmux/internal/render"
	"github.com/logmux/logmux/internal/view"
)

const sidePanelWidth = 24

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.mode == ModeHelp {
		return m.helpView()
	}

	contentWidth := m.width
	if m.state.SidePanel {
		contentWidth -= sidePanelWidth
	}
	// Two rows stay reserved for the status and help lines.
	contentHeight := m.height - 2

	panes := m.renderPanes(contentWidth, contentHeight)
	if m.state.SidePanel {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, panes, m.sidePanelView(contentHeight))
	}

	var b strings.Builder
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.statusBarView())
	b.WriteString("\n")
	b.WriteString(m.helpLineView())
	return b.String()
}

func (m *Model) renderPanes(width, height int) string {
	panes := m.state.Panes()
	if len(panes) == 1 || m.state.Layout() == view.SplitNone {
		return m.renderPane(0, width, height)
	}

	n := len(panes)
	rendered := make([]string, n)
	if m.state.Layout() == view.SplitVertical {
		w := width / n
		for i := range panes {
			pw := w
			if i == n-1 {
				pw = width - w*(n-1)
			}
			rendered[i] = m.renderPane(i, pw, height)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	h := height / n
	for i := range panes {
		ph := h
		if i == n-1 {
			ph = height - h*(n-1)
		}
		rendered[i] = m.renderPane(i, width, ph)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m *Model) renderPane(idx, width, height int) string {
	p := m.state.Panes()[idx]
	border := m.renderer.PaneBorder
	if idx == m.state.ActiveIndex() && len(m.state.Panes()) > 1 {
		border = m.renderer.ActiveBorder
	}

	innerWidth := width - 2
	innerHeight := height - 3 // border rows plus header
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	header := m.paneHeader(idx, innerWidth)
	body := m.paneBody(idx, p, innerWidth, innerHeight)

	frame := border.Border(lipgloss.RoundedBorder()).
		Width(innerWidth).
		Height(innerHeight + 1)
	return frame.Render(header + "\n" + body)
}

func (m *Model) paneHeader(idx, width int) string {
	p := m.state.Panes()[idx]
	title := "merged"
	if p.Mode.Single {
		title = m.sourceName(p.Mode.SourceID)
	}
	if p.ActiveFilter != nil {
		kind := "filter"
		if p.ActiveFilter.IsRegex {
			kind = "regex"
		}
		title += fmt.Sprintf("  %s:%s", kind, p.ActiveFilter.Pattern)
	}
	total, filtered := m.state.LineCountsForPane(idx)
	counts := fmt.Sprintf("%d/%d", filtered, total)

	pad := width - lipgloss.Width(title) - lipgloss.Width(counts)
	if pad < 1 {
		return m.renderer.StatusText.Render(truncatePad(title, width))
	}
	return m.renderer.StatusText.Render(title + strings.Repeat(" ", pad) + counts)
}

func (m *Model) paneBody(idx int, p *view.Pane, width, height int) string {
	lines := m.state.VisibleLinesForPane(idx, height)
	rows := make([]string, 0, height)
	lineNo := p.Scroll
	for _, vl := range lines {
		n := -1
		if m.state.LineNumbers {
			n = lineNo + 1
		}
		rows = append(rows, m.renderer.Line(vl.Record, render.LineOptions{
			Filter:           p.ActiveFilter,
			Bookmarked:       p.IsBookmarked(vl.Index),
			LineNumber:       n,
			Width:            width,
			HorizontalScroll: p.HorizontalScroll,
			Wrap:             m.state.LineWrap,
			LevelColors:      m.state.LevelColors,
			JSONPretty:       m.state.JSONPretty,
			RelativeTime:     m.state.RelativeTime,
		}))
		lineNo++
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	// Wrapped rows can overflow the pane; trim from the top so the
	// newest content stays visible.
	if len(rows) > height {
		rows = rows[len(rows)-height:]
	}
	return strings.Join(rows, "\n")
}

func (m *Model) statusBarView() string {
	if m.mode == ModeFilter {
		indicator := "literal"
		if m.state.ActivePane().FilterIsRegex {
			indicator = "regex"
		}
		return m.renderer.StatusBar.Width(m.width).
			Render(fmt.Sprintf("%s  [%s] (ctrl+r toggles, up/down history)", m.filterInput.View(), indicator))
	}

	total, filtered := m.state.LineCountsForPane(m.state.ActiveIndex())
	left := fmt.Sprintf(" %d/%d lines  %d l/s", filtered, total, m.state.LinesPerSecond())
	if m.state.StatusMessage != "" {
		left += "  " + m.state.StatusMessage
	}
	return m.renderer.StatusBar.Width(m.width).Render(left)
}

func (m *Model) helpLineView() string {
	help := "j/k:scroll  /:filter  n/N:match  b:bookmark  m/M:jump  s/S:split  tab:pane  e:export  ?:help  q:quit"
	return m.renderer.PaneBorder.Render(truncatePad(help, m.width))
}

func (m *Model) sidePanelView(height int) string {
	var b strings.Builder
	b.WriteString("Sources\n")
	p := m.state.ActivePane()
	for _, d := range m.state.Sources() {
		mark := "[x]"
		if !p.SourceVisible(d.ID) {
			mark = "[ ]"
		}
		b.WriteString(fmt.Sprintf("%s %d %s\n", mark, d.ID+1, d.Name))
	}
	return m.renderer.PaneBorder.Border(lipgloss.RoundedBorder()).
		Width(sidePanelWidth - 2).
		Height(height - 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) helpView() string {
	rows := []string{
		"logmux keys",
		"",
		"  j/k, up/down     scroll",
		"  ctrl+d/ctrl+u    page down / up",
		"  g/G              top / bottom",
		"  h/l, 0           horizontal scroll, reset",
		"  /                edit filter (enter applies, esc clears)",
		"  ctrl+r           toggle regex while editing",
		"  up/down          filter history while editing",
		"  n/N              next / previous match",
		"  b                toggle bookmark",
		"  m/M              next / previous bookmark",
		"  s/S              split vertical / horizontal",
		"  tab              next pane",
		"  x                close pane",
		"  v                cycle view mode (merged / single source)",
		"  1-9              toggle source visibility",
		"  e                export filtered view",
		"  T                cycle theme",
		"  J t c w # o      toggle json, time, colors, wrap, numbers, panel",
		"  q                quit",
		"",
		"press any key to close",
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.renderer.PaneBorder.Border(lipgloss.RoundedBorder()).Padding(0, 2).
			Render(strings.Join(rows, "\n")))
}

func truncatePad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) > width {
		return s[:width]
	}
	return s
}
