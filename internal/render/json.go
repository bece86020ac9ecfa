package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// highlightJSON colorizes a JSON log line with chroma, keeping it on
// one row.
func highlightJSON(content string) string {
	if content == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, content, "json", "terminal16m", "monokai"); err != nil {
		return content
	}

	// Remove any newlines that quick.Highlight adds
	highlighted := buf.String()
	highlighted = strings.ReplaceAll(highlighted, "\n", "")
	highlighted = strings.ReplaceAll(highlighted, "\r", "")
	return highlighted
}
