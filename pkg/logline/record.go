// Package logline turns raw text lines into immutable log records.
//
// Everything here is a pure function of the input line: level detection,
// ANSI and JSON detection, and timestamp extraction happen exactly once,
// when the record is created.
package logline

import (
	"fmt"
	"strings"
	"time"
)

// Level is a detected log severity
type Level int

const (
	LevelNone Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the display name for a level
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return ""
	}
}

// Record is a single ingested log line with metadata derived at creation
type Record struct {
	// Raw is the line exactly as received (may contain ANSI codes)
	Raw string
	// Level is the detected severity
	Level Level
	// HasANSI reports whether the line contains ANSI escape codes
	HasANSI bool
	// IsJSON reports whether the line looks like a JSON document
	IsJSON bool
	// Timestamp parsed from the line, nil if none found
	Timestamp *time.Time
	// SourceID identifies which source produced the line
	SourceID int
}

// New builds a record from a raw line
func New(raw string, sourceID int) Record {
	return Record{
		Raw:       raw,
		Level:     DetectLevel(raw),
		HasANSI:   strings.Contains(raw, "\x1b"),
		IsJSON:    detectJSON(raw),
		Timestamp: ParseTimestamp(raw),
		SourceID:  sourceID,
	}
}

// DetectLevel finds a log severity marker in a line.
// Checks run from most to least severe so a line mentioning both
// "ERROR" and "info" classifies as an error.
func DetectLevel(line string) Level {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "ERROR") || strings.Contains(upper, "[E]") || strings.Contains(upper, "ERR]"):
		return LevelError
	case strings.Contains(upper, "WARN") || strings.Contains(upper, "[W]") || strings.Contains(upper, "WRN]"):
		return LevelWarn
	case strings.Contains(upper, "INFO") || strings.Contains(upper, "[I]") || strings.Contains(upper, "INF]"):
		return LevelInfo
	case strings.Contains(upper, "DEBUG") || strings.Contains(upper, "[D]") || strings.Contains(upper, "DBG]"):
		return LevelDebug
	case strings.Contains(upper, "TRACE") || strings.Contains(upper, "[T]") || strings.Contains(upper, "TRC]"):
		return LevelTrace
	default:
		return LevelNone
	}
}

func detectJSON(line string) bool {
	trimmed := strings.TrimSpace(line)
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

// RelativeTime formats how long ago a timestamp was, like "5m ago"
func RelativeTime(t time.Time, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return "future"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	}
}
