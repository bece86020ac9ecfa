package filter

// MaxHistory caps how many applied patterns are remembered
const MaxHistory = 50

// History is a bounded most-recent-first list of applied filter patterns,
// deduplicated by value. Shared across panes; each pane keeps its own
// browse position.
type History struct {
	entries []string
}

// Add records a pattern as the most recent entry. Re-adding an existing
// pattern moves it to the front.
func (h *History) Add(pattern string) {
	if pattern == "" {
		return
	}
	for i, p := range h.entries {
		if p == pattern {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{pattern}, h.entries...)
	if len(h.entries) > MaxHistory {
		h.entries = h.entries[:MaxHistory]
	}
}

// Len returns the number of remembered patterns
func (h *History) Len() int {
	return len(h.entries)
}

// At returns the pattern at position i (0 = most recent)
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// Entries returns the patterns most-recent-first
func (h *History) Entries() []string {
	return h.entries
}
