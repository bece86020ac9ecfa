package view

import (
	"sort"
	"time"

	"github.com/logmux/logmux/internal/filter"
)

// ViewMode selects which sources a pane shows. The zero value is the
// merged view of all visible sources.
type ViewMode struct {
	Single   bool
	SourceID int
}

// Pane is one viewport over the shared store. It keeps the strictly
// increasing positions of the records that pass its membership test,
// plus its own scroll, filter, and bookmark state.
type Pane struct {
	FilteredIndices  []int
	Scroll           int
	StickToBottom    bool
	HorizontalScroll int
	ViewportHeight   int

	ActiveFilter *filter.Filter

	// Staged filter input, applied on submit or after the debounce
	// window elapses.
	FilterInput   string
	FilterIsRegex bool
	FilterEditing bool
	filterDirty   bool
	filterChanged time.Time

	// HistoryIdx is the position while browsing filter history, -1
	// when not browsing.
	HistoryIdx int

	Mode           ViewMode
	VisibleSources []bool

	// Bookmarks holds bookmarked store positions in ascending order.
	Bookmarks []int
}

// NewPane returns a pane showing all of numSources sources, stuck to
// the bottom with no filter.
func NewPane(numSources int) *Pane {
	p := &Pane{
		StickToBottom:  true,
		ViewportHeight: 1,
		HistoryIdx:     -1,
		VisibleSources: make([]bool, numSources),
	}
	for i := range p.VisibleSources {
		p.VisibleSources[i] = true
	}
	return p
}

// Clone returns an independent copy of the pane for a split. The new
// pane shares no slices with the original.
func (p *Pane) Clone() *Pane {
	c := *p
	c.FilteredIndices = append([]int(nil), p.FilteredIndices...)
	c.VisibleSources = append([]bool(nil), p.VisibleSources...)
	c.Bookmarks = append([]int(nil), p.Bookmarks...)
	return &c
}

// SourceVisible reports whether records from source id pass this
// pane's visibility mask and view mode.
func (p *Pane) SourceVisible(id int) bool {
	if p.Mode.Single {
		return id == p.Mode.SourceID
	}
	if id >= 0 && id < len(p.VisibleSources) {
		return p.VisibleSources[id]
	}
	return true
}

// IsBookmarked reports whether store position idx is bookmarked.
func (p *Pane) IsBookmarked(idx int) bool {
	i := sort.SearchInts(p.Bookmarks, idx)
	return i < len(p.Bookmarks) && p.Bookmarks[i] == idx
}

// toggleBookmark adds idx to the bookmark set, or removes it if
// already present, keeping the set sorted.
func (p *Pane) toggleBookmark(idx int) {
	i := sort.SearchInts(p.Bookmarks, idx)
	if i < len(p.Bookmarks) && p.Bookmarks[i] == idx {
		p.Bookmarks = append(p.Bookmarks[:i], p.Bookmarks[i+1:]...)
		return
	}
	p.Bookmarks = append(p.Bookmarks, 0)
	copy(p.Bookmarks[i+1:], p.Bookmarks[i:])
	p.Bookmarks[i] = idx
}

// markFilterChanged stamps the staged filter as dirty at now.
func (p *Pane) markFilterChanged(now time.Time) {
	p.filterDirty = true
	p.filterChanged = now
}

// clampScroll keeps the scroll offset inside the filtered view,
// and pins it to the bottom when stick-to-bottom is on.
func (p *Pane) clampScroll() {
	max := len(p.FilteredIndices) - p.ViewportHeight
	if max < 0 {
		max = 0
	}
	if p.StickToBottom {
		p.Scroll = max
		return
	}
	if p.Scroll > max {
		p.Scroll = max
	}
	if p.Scroll < 0 {
		p.Scroll = 0
	}
}
