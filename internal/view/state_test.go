package view

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/logmux/logmux/internal/source"
	"github.com/logmux/logmux/pkg/logline"
)

func newTestState(capacity, numSources int) *State {
	descs := make([]source.Descriptor, numSources)
	for i := range descs {
		descs[i] = source.DescribeFile(i, "test.log")
	}
	return NewState(Options{Capacity: capacity}, descs)
}

func pushRaw(s *State, lines ...string) {
	for _, l := range lines {
		s.Push(logline.New(l, 0))
	}
}

func TestEvictionShiftsIndicesAndBookmarks(t *testing.T) {
	s := newTestState(3, 1)
	pushRaw(s, "A", "B", "C")
	p := s.ActivePane()
	if got, want := p.FilteredIndices, []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}

	// Bookmark B and C, then push past capacity.
	p.toggleBookmark(1)
	p.toggleBookmark(2)
	pushRaw(s, "D")
	if got, want := p.FilteredIndices, []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("indices after first eviction = %v, want %v", got, want)
	}
	if got, want := p.Bookmarks, []int{0, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("bookmarks = %v, want %v (bookmarks follow B and C)", got, want)
	}

	// Evicting B drops its bookmark; C's survives at index 0.
	pushRaw(s, "E")
	if got, want := p.Bookmarks, []int{0}; !reflect.DeepEqual(got, want) {
		t.Errorf("bookmarks after B evicted = %v, want %v", got, want)
	}
	if got, want := storeContents(s.Store()), []string{"C", "D", "E"}; !reflect.DeepEqual(got, want) {
		t.Errorf("store = %v, want %v", got, want)
	}
}

func TestEvictionAdjustsEveryPane(t *testing.T) {
	s := newTestState(3, 1)
	pushRaw(s, "A", "B", "C")
	s.Split(SplitVertical)
	s.CyclePane() // back to pane 0
	pushRaw(s, "D", "E")
	for i, p := range s.Panes() {
		if got, want := p.FilteredIndices, []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
			t.Errorf("pane %d indices = %v, want %v", i, got, want)
		}
	}
}

func TestIncrementalFilterMatchesRecompute(t *testing.T) {
	s := newTestState(4, 2)
	s.SetFilterInput("err")
	s.ApplyFilter()
	records := []logline.Record{
		logline.New("ok line", 0),
		logline.New("ERROR one", 1),
		logline.New("fine", 0),
		logline.New("error two", 1),
		logline.New("err three", 0),
		logline.New("nothing", 1),
	}
	for _, rec := range records {
		s.Push(rec)
		p := s.ActivePane()
		incremental := append([]int(nil), p.FilteredIndices...)
		s.recomputePane(p)
		if !reflect.DeepEqual(incremental, p.FilteredIndices) {
			t.Fatalf("after %q: incremental %v != recompute %v",
				rec.Raw, incremental, p.FilteredIndices)
		}
	}
}

func TestBatchEquivalentToSingles(t *testing.T) {
	records := make([]logline.Record, 0, 12)
	for _, raw := range []string{
		"alpha", "ERROR beta", "gamma", "error delta", "epsilon",
		"zeta", "ERR eta", "theta", "iota", "error kappa", "lambda", "mu",
	} {
		records = append(records, logline.New(raw, 0))
	}

	single := newTestState(5, 1)
	batch := newTestState(5, 1)
	for _, s := range []*State{single, batch} {
		pushRaw(s, "seed-error")
		s.ActivePane().toggleBookmark(0)
		s.SetFilterInput("error")
		s.ApplyFilter()
		s.ActivePane().ViewportHeight = 3
	}

	for _, rec := range records {
		single.Push(rec)
	}
	batch.PushBatch(records)

	if got, want := storeContents(batch.Store()), storeContents(single.Store()); !reflect.DeepEqual(got, want) {
		t.Errorf("store contents differ: batch %v, singles %v", got, want)
	}
	bp, sp := batch.ActivePane(), single.ActivePane()
	if !reflect.DeepEqual(bp.FilteredIndices, sp.FilteredIndices) {
		t.Errorf("indices differ: batch %v, singles %v", bp.FilteredIndices, sp.FilteredIndices)
	}
	if !reflect.DeepEqual(bp.Bookmarks, sp.Bookmarks) {
		t.Errorf("bookmarks differ: batch %v, singles %v", bp.Bookmarks, sp.Bookmarks)
	}
	if bp.Scroll != sp.Scroll {
		t.Errorf("scroll differs: batch %d, singles %d", bp.Scroll, sp.Scroll)
	}
}

func TestLiteralFilterCaseInsensitive(t *testing.T) {
	s := newTestState(10, 1)
	pushRaw(s,
		"starting up",
		"ERROR: disk full",
		"request error handled",
		"all good",
	)
	s.SetFilterInput("error")
	s.ApplyFilter()
	p := s.ActivePane()
	if got, want := p.FilteredIndices, []int{1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("filtered indices = %v, want %v", got, want)
	}
	total, filtered := s.LineCountsForPane(0)
	if total != 4 || filtered != 2 {
		t.Errorf("counts = %d/%d, want 4/2", total, filtered)
	}
}

func TestInvalidRegexFallsBackToLiteral(t *testing.T) {
	s := newTestState(10, 1)
	pushRaw(s,
		"saw [bad token",
		"saw [BAD token",
		"clean line",
	)
	s.ActivePane().FilterIsRegex = true
	s.SetFilterInput("[bad")
	s.ApplyFilter()
	p := s.ActivePane()
	if got, want := p.FilteredIndices, []int{0}; !reflect.DeepEqual(got, want) {
		t.Errorf("filtered indices = %v, want %v (fallback is case sensitive)", got, want)
	}
	if !strings.Contains(s.StatusMessage, "Invalid regex") {
		t.Errorf("StatusMessage = %q, want invalid regex notice", s.StatusMessage)
	}
}

func TestDebounceWindow(t *testing.T) {
	s := newTestState(10, 1)
	pushRaw(s, "ERROR one", "fine")
	t0 := time.Now()
	s.setFilterInputAt("error", t0)

	if s.checkDebounceAt(t0.Add(149*time.Millisecond)) {
		t.Error("recompute fired before debounce window elapsed")
	}
	if s.ActivePane().ActiveFilter != nil {
		t.Error("filter applied before debounce window elapsed")
	}

	if !s.checkDebounceAt(t0.Add(151 * time.Millisecond)) {
		t.Error("recompute did not fire after debounce window elapsed")
	}
	p := s.ActivePane()
	if p.ActiveFilter == nil {
		t.Fatal("filter not applied after debounce window")
	}
	if got, want := p.FilteredIndices, []int{0}; !reflect.DeepEqual(got, want) {
		t.Errorf("filtered indices = %v, want %v", got, want)
	}

	// Settled: no further recomputes.
	if s.checkDebounceAt(t0.Add(time.Second)) {
		t.Error("recompute fired again with no staged change")
	}
}

func TestApplyFilterCommitsHistory(t *testing.T) {
	s := newTestState(10, 1)
	s.SetFilterInput("first")
	s.ApplyFilter()
	s.SetFilterInput("second")
	s.ApplyFilter()
	s.SetFilterInput("first")
	s.ApplyFilter()

	if s.History().Len() != 2 {
		t.Fatalf("history len = %d, want 2", s.History().Len())
	}
	if pat, _ := s.History().At(0); pat != "first" {
		t.Errorf("most recent = %q, want first", pat)
	}
}

func TestHistoryBrowsing(t *testing.T) {
	s := newTestState(10, 1)
	for _, pat := range []string{"older", "newer"} {
		s.SetFilterInput(pat)
		s.ApplyFilter()
	}
	if pat, ok := s.HistoryPrev(); !ok || pat != "newer" {
		t.Errorf("HistoryPrev = %q, %v, want newer", pat, ok)
	}
	if pat, ok := s.HistoryPrev(); !ok || pat != "older" {
		t.Errorf("HistoryPrev = %q, %v, want older", pat, ok)
	}
	if _, ok := s.HistoryPrev(); ok {
		t.Error("HistoryPrev past oldest entry should fail")
	}
	if pat, ok := s.HistoryNext(); !ok || pat != "newer" {
		t.Errorf("HistoryNext = %q, %v, want newer", pat, ok)
	}
	if pat, ok := s.HistoryNext(); !ok || pat != "" {
		t.Errorf("HistoryNext past newest = %q, %v, want empty", pat, ok)
	}
}

func TestStickToBottomScroll(t *testing.T) {
	s := newTestState(20, 1)
	p := s.ActivePane()
	p.ViewportHeight = 2
	pushRaw(s, "1", "2", "3", "4", "5")
	if p.Scroll != 3 {
		t.Errorf("stuck scroll = %d, want 3", p.Scroll)
	}

	s.ScrollUp()
	if p.StickToBottom {
		t.Error("ScrollUp should unstick")
	}
	at := p.Scroll
	pushRaw(s, "6", "7")
	if p.Scroll != at {
		t.Errorf("unstuck scroll moved to %d after pushes, want %d", p.Scroll, at)
	}

	s.GoToBottom()
	if !p.StickToBottom || p.Scroll != 5 {
		t.Errorf("GoToBottom: stick=%v scroll=%d, want true, 5", p.StickToBottom, p.Scroll)
	}

	s.GoToTop()
	if p.StickToBottom || p.Scroll != 0 {
		t.Errorf("GoToTop: stick=%v scroll=%d", p.StickToBottom, p.Scroll)
	}
	for i := 0; i < 10; i++ {
		s.ScrollDown()
	}
	if !p.StickToBottom {
		t.Error("scrolling past the end should re-stick")
	}
}

func TestBookmarkNavigationWraps(t *testing.T) {
	s := newTestState(20, 1)
	p := s.ActivePane()
	p.ViewportHeight = 1
	pushRaw(s, "a", "b", "c", "d", "e")
	p.toggleBookmark(1)
	p.toggleBookmark(3)

	s.GoToTop()
	s.NextBookmark()
	if p.Scroll != 1 {
		t.Fatalf("scroll = %d, want 1", p.Scroll)
	}
	if s.StatusMessage != "Bookmark 1/2" {
		t.Errorf("status = %q, want Bookmark 1/2", s.StatusMessage)
	}
	s.NextBookmark()
	if p.Scroll != 3 {
		t.Fatalf("scroll = %d, want 3", p.Scroll)
	}
	s.NextBookmark()
	if p.Scroll != 1 {
		t.Errorf("scroll = %d, want wrap to 1", p.Scroll)
	}
	if s.StatusMessage != "Bookmark 1/2 (wrapped)" {
		t.Errorf("status = %q, want wrapped notice", s.StatusMessage)
	}

	s.PrevBookmark()
	if p.Scroll != 3 {
		t.Errorf("PrevBookmark scroll = %d, want wrap to 3", p.Scroll)
	}
}

func TestBookmarkHiddenByFilter(t *testing.T) {
	s := newTestState(20, 1)
	p := s.ActivePane()
	pushRaw(s, "keep error", "plain bookmarked", "another error")
	p.toggleBookmark(1)
	p.toggleBookmark(2)
	s.SetFilterInput("error")
	s.ApplyFilter()
	s.GoToTop()
	s.StatusMessage = ""

	// The nearest bookmark after record 0 is record 1, which the
	// filter hides. Record 2's bookmark is still visible, but it is
	// not the target: navigation must no-op, not skip ahead.
	s.NextBookmark()
	if p.Scroll != 0 {
		t.Errorf("scroll = %d after jump to hidden bookmark, want 0", p.Scroll)
	}
	if s.StatusMessage != "" {
		t.Errorf("status = %q, want none", s.StatusMessage)
	}

	// Same when every bookmark is hidden.
	p.toggleBookmark(2)
	s.NextBookmark()
	if p.Scroll != 0 || s.StatusMessage != "" {
		t.Errorf("scroll = %d, status = %q, want silent no-op", p.Scroll, s.StatusMessage)
	}

	// An empty bookmark set still reports.
	p.toggleBookmark(1)
	s.NextBookmark()
	if s.StatusMessage != "No bookmarks" {
		t.Errorf("status = %q, want No bookmarks", s.StatusMessage)
	}
}

func TestBookmarkStatusWithTallViewport(t *testing.T) {
	s := newTestState(20, 1)
	p := s.ActivePane()
	p.ViewportHeight = 10
	pushRaw(s, "a", "b", "c", "d", "e")
	p.toggleBookmark(1)
	p.toggleBookmark(3)

	s.GoToTop()
	s.NextBookmark()
	// The whole list fits the viewport, so the clamp pins scroll to 0;
	// the status still names the bookmark that was jumped to.
	if p.Scroll != 0 {
		t.Errorf("scroll = %d, want 0", p.Scroll)
	}
	if s.StatusMessage != "Bookmark 1/2" {
		t.Errorf("status = %q, want Bookmark 1/2", s.StatusMessage)
	}
}

func TestMatchNavigationWraps(t *testing.T) {
	s := newTestState(20, 1)
	p := s.ActivePane()
	p.ViewportHeight = 1

	s.NextMatch()
	if s.StatusMessage != "" {
		t.Errorf("status = %q, want no-op without a filter", s.StatusMessage)
	}

	pushRaw(s, "error a", "skip", "error b", "error c")
	s.SetFilterInput("error")
	s.ApplyFilter()
	if p.Scroll != 2 {
		t.Fatalf("scroll = %d, want stuck at 2", p.Scroll)
	}

	s.NextMatch()
	if p.Scroll != 0 || s.StatusMessage != "Match 1/3 (wrapped)" {
		t.Errorf("scroll = %d, status = %q, want wrap to top", p.Scroll, s.StatusMessage)
	}
	if p.StickToBottom {
		t.Error("match navigation should unstick")
	}
	s.NextMatch()
	if p.Scroll != 1 || s.StatusMessage != "Match 2/3" {
		t.Errorf("scroll = %d, status = %q, want Match 2/3", p.Scroll, s.StatusMessage)
	}
	s.PrevMatch()
	if p.Scroll != 0 || s.StatusMessage != "Match 1/3" {
		t.Errorf("scroll = %d, status = %q, want Match 1/3", p.Scroll, s.StatusMessage)
	}
	s.PrevMatch()
	if p.Scroll != 2 || s.StatusMessage != "Match 3/3 (wrapped)" {
		t.Errorf("scroll = %d, status = %q, want wrap to bottom", p.Scroll, s.StatusMessage)
	}

	s.SetFilterInput("nothing matches this")
	s.ApplyFilter()
	s.NextMatch()
	if s.StatusMessage != "No matches" {
		t.Errorf("status = %q, want No matches", s.StatusMessage)
	}
}

func TestBatchKeepsUnstuckScroll(t *testing.T) {
	s := newTestState(5, 1)
	p := s.ActivePane()
	p.ViewportHeight = 2
	pushRaw(s, "a", "b", "c", "d", "e")
	s.ScrollUp()
	at := p.Scroll

	recs := make([]logline.Record, 3)
	for i := range recs {
		recs[i] = logline.New(fmt.Sprintf("extra-%d", i), 0)
	}
	s.PushBatch(recs)
	if p.StickToBottom {
		t.Error("batch ingestion re-stuck an unstuck pane")
	}
	if p.Scroll != at {
		t.Errorf("scroll = %d after batch, want untouched %d", p.Scroll, at)
	}
}

func TestSourceVisibilityAndViewMode(t *testing.T) {
	s := newTestState(20, 2)
	s.Push(logline.New("from zero", 0))
	s.Push(logline.New("from one", 1))
	s.Push(logline.New("zero again", 0))

	s.ToggleSourceVisible(0)
	p := s.ActivePane()
	if got, want := p.FilteredIndices, []int{1}; !reflect.DeepEqual(got, want) {
		t.Errorf("indices with source 0 hidden = %v, want %v", got, want)
	}
	s.ToggleSourceVisible(0)

	s.SetSingleSource(0)
	if got, want := p.FilteredIndices, []int{0, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("single-source indices = %v, want %v", got, want)
	}

	s.CycleViewMode()
	if !p.Mode.Single || p.Mode.SourceID != 1 {
		t.Errorf("mode after cycle = %+v, want single source 1", p.Mode)
	}
	s.CycleViewMode()
	if p.Mode.Single {
		t.Errorf("mode after full cycle = %+v, want merged", p.Mode)
	}
}

func TestSplitClonesIndependently(t *testing.T) {
	s := newTestState(20, 2)
	s.Push(logline.New("one", 0))
	s.Push(logline.New("two", 1))
	s.Split(SplitVertical)
	if len(s.Panes()) != 2 || s.ActiveIndex() != 1 {
		t.Fatalf("panes=%d active=%d, want 2, 1", len(s.Panes()), s.ActiveIndex())
	}
	if s.Layout() != SplitVertical {
		t.Errorf("layout = %v, want vertical", s.Layout())
	}

	s.ToggleSourceVisible(0)
	if !s.Panes()[0].VisibleSources[0] {
		t.Error("toggling the clone mutated the original pane")
	}

	s.ClosePane()
	if len(s.Panes()) != 1 || s.Layout() != SplitNone {
		t.Errorf("panes=%d layout=%v after close, want 1, none", len(s.Panes()), s.Layout())
	}
	s.ClosePane()
	if len(s.Panes()) != 1 {
		t.Error("closing the last pane should be a no-op")
	}
}

func TestAddSourceVisibleEverywhere(t *testing.T) {
	s := newTestState(20, 1)
	s.Split(SplitHorizontal)
	s.AddSource(source.DescribeContainer(1, "web"))
	for i, p := range s.Panes() {
		if len(p.VisibleSources) != 2 || !p.VisibleSources[1] {
			t.Errorf("pane %d visibility = %v, want new source visible", i, p.VisibleSources)
		}
	}
	s.Push(logline.New("hello", 1))
	if got, want := s.Panes()[0].FilteredIndices, []int{0}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane 0 indices = %v, want %v", got, want)
	}
}

func TestVisibleLinesTracksViewportHeight(t *testing.T) {
	s := newTestState(20, 1)
	pushRaw(s, "1", "2", "3", "4", "5")

	lines := s.VisibleLinesForPane(0, 2)
	if len(lines) != 2 {
		t.Fatalf("visible lines = %d, want 2", len(lines))
	}
	if lines[0].Record.Raw != "4" || lines[1].Record.Raw != "5" {
		t.Errorf("visible = %q, %q, want 4, 5", lines[0].Record.Raw, lines[1].Record.Raw)
	}

	lines = s.VisibleLinesForPane(0, 4)
	if len(lines) != 4 || lines[0].Record.Raw != "2" {
		t.Errorf("after grow: %d lines starting %q, want 4 starting 2", len(lines), lines[0].Record.Raw)
	}
	if s.ActivePane().ViewportHeight != 4 {
		t.Errorf("viewport height = %d, want 4", s.ActivePane().ViewportHeight)
	}
}

func TestExportToFile(t *testing.T) {
	s := newTestState(20, 1)
	pushRaw(s, "first error", "skip", "second error")
	s.SetFilterInput("error")
	s.ApplyFilter()

	path := filepath.Join(t.TempDir(), "out", "export.log")
	n, err := s.ExportToFile(path)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d lines, want 2", n)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, want := string(data), "first error\nsecond error\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}
