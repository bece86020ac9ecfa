package view

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/logmux/logmux/internal/filter"
	"github.com/logmux/logmux/internal/source"
	"github.com/logmux/logmux/pkg/logline"
)

// SplitLayout describes how panes divide the screen.
type SplitLayout int

const (
	SplitNone SplitLayout = iota
	SplitVertical
	SplitHorizontal
)

const maxPanes = 4

// Options configures a new State.
type Options struct {
	Capacity int
	Debounce time.Duration
}

// State holds everything the event loop owns: the record store, the
// panes viewing it, the shared filter history, and display settings.
// It is not safe for concurrent use; a single goroutine drives it.
type State struct {
	store   *Store
	sources []source.Descriptor
	panes   []*Pane
	active  int
	layout  SplitLayout

	history  filter.History
	debounce time.Duration

	StatusMessage string
	statusSetAt   time.Time

	linesPerSec  int
	linesThisSec int
	secStart     time.Time

	// Display preferences, shared across panes.
	JSONPretty   bool
	RelativeTime bool
	LevelColors  bool
	LineWrap     bool
	LineNumbers  bool
	SidePanel    bool
}

// NewState builds a state over the given sources with one pane.
func NewState(opts Options, sources []source.Descriptor) *State {
	if opts.Debounce <= 0 {
		opts.Debounce = 150 * time.Millisecond
	}
	s := &State{
		store:       NewStore(opts.Capacity),
		sources:     append([]source.Descriptor(nil), sources...),
		debounce:    opts.Debounce,
		LevelColors: true,
	}
	s.panes = []*Pane{NewPane(len(sources))}
	return s
}

func (s *State) Store() *Store { return s.store }

func (s *State) Sources() []source.Descriptor { return s.sources }

func (s *State) Panes() []*Pane { return s.panes }

func (s *State) ActivePane() *Pane { return s.panes[s.active] }

func (s *State) ActiveIndex() int { return s.active }

func (s *State) Layout() SplitLayout { return s.layout }

func (s *State) History() *filter.History { return &s.history }

// AddSource registers a source discovered after startup. Every pane
// shows it by default.
func (s *State) AddSource(desc source.Descriptor) {
	s.sources = append(s.sources, desc)
	for _, p := range s.panes {
		p.VisibleSources = append(p.VisibleSources, true)
	}
}

// Push ingests a single record.
func (s *State) Push(rec logline.Record) {
	s.pushAt(rec, time.Now())
	s.settleScroll()
}

// PushBatch ingests a batch of records, updating each pane's scroll
// once at the end. The resulting state is identical to pushing the
// records one at a time.
func (s *State) PushBatch(recs []logline.Record) {
	now := time.Now()
	for _, rec := range recs {
		s.pushAt(rec, now)
	}
	if len(recs) > 0 {
		s.settleScroll()
	}
}

// settleScroll re-clamps every pane once after ingestion.
func (s *State) settleScroll() {
	for _, p := range s.panes {
		p.clampScroll()
	}
}

func (s *State) pushAt(rec logline.Record, now time.Time) {
	evicted := s.store.Push(rec)
	if evicted {
		for _, p := range s.panes {
			shiftIndices(&p.FilteredIndices)
			shiftIndices(&p.Bookmarks)
		}
	}
	idx := s.store.Len() - 1
	for _, p := range s.panes {
		if s.recordInPane(p, rec) {
			p.FilteredIndices = append(p.FilteredIndices, idx)
		}
	}
	s.countLineAt(now)
}

// shiftIndices drops position 0 if present and decrements the rest,
// tracking a head eviction.
func shiftIndices(indices *[]int) {
	in := *indices
	out := in[:0]
	for _, idx := range in {
		if idx == 0 {
			continue
		}
		out = append(out, idx-1)
	}
	*indices = out
}

// recordInPane is the pane membership test: source visibility, view
// mode, and active filter must all pass.
func (s *State) recordInPane(p *Pane, rec logline.Record) bool {
	if !p.SourceVisible(rec.SourceID) {
		return false
	}
	if p.ActiveFilter != nil && !p.ActiveFilter.Matches(rec.Raw) {
		return false
	}
	return true
}

// recomputePane rebuilds a pane's filtered view from the full store
// and re-clamps its scroll.
func (s *State) recomputePane(p *Pane) {
	p.FilteredIndices = p.FilteredIndices[:0]
	s.store.Each(func(i int, rec logline.Record) bool {
		if s.recordInPane(p, rec) {
			p.FilteredIndices = append(p.FilteredIndices, i)
		}
		return true
	})
	p.clampScroll()
}

// SetFilterInput replaces the active pane's staged filter text and
// starts the debounce window.
func (s *State) SetFilterInput(text string) {
	s.setFilterInputAt(text, time.Now())
}

func (s *State) setFilterInputAt(text string, now time.Time) {
	p := s.ActivePane()
	p.FilterInput = text
	p.HistoryIdx = -1
	p.markFilterChanged(now)
}

// ToggleRegexMode flips the staged filter between literal and regex
// interpretation and restages it.
func (s *State) ToggleRegexMode() {
	p := s.ActivePane()
	p.FilterIsRegex = !p.FilterIsRegex
	p.markFilterChanged(time.Now())
}

// ApplyFilter applies the staged filter immediately and commits the
// pattern to the shared history.
func (s *State) ApplyFilter() {
	p := s.ActivePane()
	s.applyStagedFilter(p)
	if p.FilterInput != "" {
		s.history.Add(p.FilterInput)
		if p.ActiveFilter != nil && p.ActiveFilter.Fallback() {
			s.SetStatus(fmt.Sprintf("Invalid regex, matching literally: %s", p.FilterInput))
		}
	}
	p.FilterEditing = false
	p.HistoryIdx = -1
}

func (s *State) applyStagedFilter(p *Pane) {
	if p.FilterInput == "" {
		p.ActiveFilter = nil
	} else {
		p.ActiveFilter = filter.New(p.FilterInput, p.FilterIsRegex)
	}
	p.filterDirty = false
	s.recomputePane(p)
}

// CancelFilter discards the staged pattern and clears the active
// filter.
func (s *State) CancelFilter() {
	p := s.ActivePane()
	p.FilterInput = ""
	p.ActiveFilter = nil
	p.filterDirty = false
	p.FilterEditing = false
	p.HistoryIdx = -1
	s.recomputePane(p)
}

// CheckDebounce applies any staged filter whose debounce window has
// elapsed. It reports whether a recompute happened.
func (s *State) CheckDebounce() bool {
	return s.checkDebounceAt(time.Now())
}

func (s *State) checkDebounceAt(now time.Time) bool {
	applied := false
	for _, p := range s.panes {
		if !p.filterDirty {
			continue
		}
		if now.Sub(p.filterChanged) < s.debounce {
			continue
		}
		s.applyStagedFilter(p)
		applied = true
	}
	return applied
}

// HistoryPrev steps the active pane to the next older history entry
// and returns the recalled pattern.
func (s *State) HistoryPrev() (string, bool) {
	p := s.ActivePane()
	if p.HistoryIdx+1 >= s.history.Len() {
		return "", false
	}
	p.HistoryIdx++
	pat, _ := s.history.At(p.HistoryIdx)
	p.FilterInput = pat
	p.markFilterChanged(time.Now())
	return pat, true
}

// HistoryNext steps back toward the newest entry. Stepping past the
// newest clears the staged input.
func (s *State) HistoryNext() (string, bool) {
	p := s.ActivePane()
	if p.HistoryIdx < 0 {
		return "", false
	}
	p.HistoryIdx--
	if p.HistoryIdx < 0 {
		p.FilterInput = ""
		p.markFilterChanged(time.Now())
		return "", true
	}
	pat, _ := s.history.At(p.HistoryIdx)
	p.FilterInput = pat
	p.markFilterChanged(time.Now())
	return pat, true
}

// ScrollUp moves the active pane up one row and unsticks it from the
// bottom.
func (s *State) ScrollUp() {
	p := s.ActivePane()
	p.StickToBottom = false
	p.Scroll--
	p.clampScroll()
}

// ScrollDown moves down one row, re-sticking when the bottom is
// reached.
func (s *State) ScrollDown() {
	p := s.ActivePane()
	p.Scroll++
	max := len(p.FilteredIndices) - p.ViewportHeight
	if max < 0 {
		max = 0
	}
	if p.Scroll >= max {
		p.Scroll = max
		p.StickToBottom = true
	}
}

func (s *State) PageUp() {
	p := s.ActivePane()
	p.StickToBottom = false
	p.Scroll -= p.ViewportHeight
	p.clampScroll()
}

func (s *State) PageDown() {
	p := s.ActivePane()
	p.Scroll += p.ViewportHeight
	max := len(p.FilteredIndices) - p.ViewportHeight
	if max < 0 {
		max = 0
	}
	if p.Scroll >= max {
		p.Scroll = max
		p.StickToBottom = true
	}
}

func (s *State) GoToTop() {
	p := s.ActivePane()
	p.StickToBottom = false
	p.Scroll = 0
}

func (s *State) GoToBottom() {
	p := s.ActivePane()
	p.StickToBottom = true
	p.clampScroll()
}

// ScrollLeft and ScrollRight pan long lines horizontally.
func (s *State) ScrollLeft() {
	p := s.ActivePane()
	p.HorizontalScroll -= 10
	if p.HorizontalScroll < 0 {
		p.HorizontalScroll = 0
	}
}

func (s *State) ScrollRight() {
	p := s.ActivePane()
	p.HorizontalScroll += 10
}

func (s *State) ScrollHome() {
	s.ActivePane().HorizontalScroll = 0
}

// ToggleBookmark bookmarks the record on the active pane's current
// row, or removes the bookmark if it already has one.
func (s *State) ToggleBookmark() {
	p := s.ActivePane()
	row := p.Scroll
	if row < 0 || row >= len(p.FilteredIndices) {
		return
	}
	p.toggleBookmark(p.FilteredIndices[row])
}

// NextBookmark jumps to the next bookmarked record below the current
// row that is still in the filtered view, wrapping to the first one.
func (s *State) NextBookmark() {
	s.jumpBookmark(true)
}

// PrevBookmark jumps to the previous visible bookmark, wrapping to the
// last one.
func (s *State) PrevBookmark() {
	s.jumpBookmark(false)
}

func (s *State) jumpBookmark(forward bool) {
	p := s.ActivePane()
	if len(p.Bookmarks) == 0 {
		s.SetStatus("No bookmarks")
		return
	}

	// The nearest bookmark strictly beyond the current absolute index,
	// wrapping to the first or last one.
	cur := -1
	if p.Scroll >= 0 && p.Scroll < len(p.FilteredIndices) {
		cur = p.FilteredIndices[p.Scroll]
	}
	target := -1
	wrapped := false
	if forward {
		for _, idx := range p.Bookmarks {
			if idx > cur {
				target = idx
				break
			}
		}
		if target < 0 {
			target = p.Bookmarks[0]
			wrapped = true
		}
	} else {
		for i := len(p.Bookmarks) - 1; i >= 0; i-- {
			if p.Bookmarks[i] < cur {
				target = p.Bookmarks[i]
				break
			}
		}
		if target < 0 {
			target = p.Bookmarks[len(p.Bookmarks)-1]
			wrapped = true
		}
	}

	// A target hidden by the filter has no row to scroll to.
	row := sort.SearchInts(p.FilteredIndices, target)
	if row >= len(p.FilteredIndices) || p.FilteredIndices[row] != target {
		return
	}

	pos := sort.SearchInts(p.Bookmarks, target) + 1
	p.StickToBottom = false
	p.Scroll = row
	p.clampScroll()
	if wrapped {
		s.SetStatus(fmt.Sprintf("Bookmark %d/%d (wrapped)", pos, len(p.Bookmarks)))
	} else {
		s.SetStatus(fmt.Sprintf("Bookmark %d/%d", pos, len(p.Bookmarks)))
	}
}

// NextMatch steps to the next row of the filtered view; with a filter
// active every visible row is a match. Wraps to the top.
func (s *State) NextMatch() { s.jumpMatch(true) }

// PrevMatch steps to the previous filtered row, wrapping to the bottom.
func (s *State) PrevMatch() { s.jumpMatch(false) }

func (s *State) jumpMatch(forward bool) {
	p := s.ActivePane()
	if p.ActiveFilter == nil {
		return
	}
	n := len(p.FilteredIndices)
	if n == 0 {
		s.SetStatus("No matches")
		return
	}
	row := p.Scroll
	wrapped := false
	if forward {
		row++
		if row >= n {
			row = 0
			wrapped = true
		}
	} else {
		row--
		if row < 0 {
			row = n - 1
			wrapped = true
		}
	}
	pos := row + 1
	p.StickToBottom = false
	p.Scroll = row
	p.clampScroll()
	if wrapped {
		s.SetStatus(fmt.Sprintf("Match %d/%d (wrapped)", pos, n))
	} else {
		s.SetStatus(fmt.Sprintf("Match %d/%d", pos, n))
	}
}

// ToggleSourceVisible flips one source in the active pane's visibility
// mask and rebuilds its view.
func (s *State) ToggleSourceVisible(id int) {
	p := s.ActivePane()
	if id < 0 || id >= len(p.VisibleSources) {
		return
	}
	p.VisibleSources[id] = !p.VisibleSources[id]
	s.recomputePane(p)
}

// SetSingleSource switches the active pane to showing one source only.
func (s *State) SetSingleSource(id int) {
	p := s.ActivePane()
	p.Mode = ViewMode{Single: true, SourceID: id}
	s.recomputePane(p)
}

// CycleViewMode steps merged -> source 0 -> source 1 -> ... -> merged.
func (s *State) CycleViewMode() {
	p := s.ActivePane()
	switch {
	case len(s.sources) == 0:
		return
	case !p.Mode.Single:
		p.Mode = ViewMode{Single: true, SourceID: 0}
	case p.Mode.SourceID+1 < len(s.sources):
		p.Mode = ViewMode{Single: true, SourceID: p.Mode.SourceID + 1}
	default:
		p.Mode = ViewMode{}
	}
	s.recomputePane(p)
}

// Split duplicates the active pane. The new pane becomes active.
func (s *State) Split(layout SplitLayout) {
	if len(s.panes) >= maxPanes {
		s.SetStatus("Pane limit reached")
		return
	}
	clone := s.ActivePane().Clone()
	s.panes = append(s.panes, clone)
	s.active = len(s.panes) - 1
	if s.layout == SplitNone {
		s.layout = layout
	}
}

// ClosePane removes the active pane, keeping at least one.
func (s *State) ClosePane() {
	if len(s.panes) == 1 {
		return
	}
	s.panes = append(s.panes[:s.active], s.panes[s.active+1:]...)
	if s.active >= len(s.panes) {
		s.active = len(s.panes) - 1
	}
	if len(s.panes) == 1 {
		s.layout = SplitNone
	}
}

// CyclePane moves focus to the next pane.
func (s *State) CyclePane() {
	s.active = (s.active + 1) % len(s.panes)
}

// VisibleLine pairs a record with its position in the store.
type VisibleLine struct {
	Index  int
	Record logline.Record
}

// VisibleLinesForPane returns the window of records pane paneIdx
// currently shows in a viewport of the given height, updating the
// pane's remembered height and re-clamping its scroll when the height
// changed.
func (s *State) VisibleLinesForPane(paneIdx, height int) []VisibleLine {
	if paneIdx < 0 || paneIdx >= len(s.panes) {
		return nil
	}
	p := s.panes[paneIdx]
	if height < 1 {
		height = 1
	}
	if p.ViewportHeight != height {
		p.ViewportHeight = height
		p.clampScroll()
	}
	end := p.Scroll + height
	if end > len(p.FilteredIndices) {
		end = len(p.FilteredIndices)
	}
	if p.Scroll >= end {
		return nil
	}
	out := make([]VisibleLine, 0, end-p.Scroll)
	for _, idx := range p.FilteredIndices[p.Scroll:end] {
		rec, ok := s.store.Get(idx)
		if !ok {
			continue
		}
		out = append(out, VisibleLine{Index: idx, Record: rec})
	}
	return out
}

// LineCountsForPane returns the total store size and the pane's
// filtered view size.
func (s *State) LineCountsForPane(paneIdx int) (total, filtered int) {
	if paneIdx < 0 || paneIdx >= len(s.panes) {
		return s.store.Len(), 0
	}
	return s.store.Len(), len(s.panes[paneIdx].FilteredIndices)
}

// ExportLines returns the raw text of the active pane's filtered view,
// oldest first.
func (s *State) ExportLines() []string {
	p := s.ActivePane()
	out := make([]string, 0, len(p.FilteredIndices))
	for _, idx := range p.FilteredIndices {
		if rec, ok := s.store.Get(idx); ok {
			out = append(out, rec.Raw)
		}
	}
	return out
}

// ExportToFile writes the active pane's filtered view to path and
// returns the number of lines written.
func (s *State) ExportToFile(path string) (int, error) {
	lines := s.ExportLines()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	return len(lines), nil
}

// DefaultExportPath builds a timestamped filename under dir.
func DefaultExportPath(dir string) string {
	name := fmt.Sprintf("logmux-export-%s.log", time.Now().Format("20060102-150405"))
	return filepath.Join(dir, name)
}

// SetStatus replaces the transient status message.
func (s *State) SetStatus(msg string) {
	s.StatusMessage = msg
	s.statusSetAt = time.Now()
}

// ExpireStatus clears the status message once it has been shown for
// ttl.
func (s *State) ExpireStatus(ttl time.Duration) {
	if s.StatusMessage != "" && time.Since(s.statusSetAt) >= ttl {
		s.StatusMessage = ""
	}
}

// LinesPerSecond reports the ingest rate over the last completed
// second.
func (s *State) LinesPerSecond() int { return s.linesPerSec }

func (s *State) countLineAt(now time.Time) {
	if s.secStart.IsZero() || now.Sub(s.secStart) >= time.Second {
		s.linesPerSec = s.linesThisSec
		s.linesThisSec = 0
		s.secStart = now
	}
	s.linesThisSec++
}

// TickThroughput rolls the rate window forward when no lines arrive.
func (s *State) TickThroughput() {
	now := time.Now()
	if !s.secStart.IsZero() && now.Sub(s.secStart) >= time.Second {
		s.linesPerSec = s.linesThisSec
		s.linesThisSec = 0
		s.secStart = now
	}
}
