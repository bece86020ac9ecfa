package logline

import (
	"regexp"
	"strconv"
	"time"
)

type timestampPattern struct {
	regex  *regexp.Regexp
	layout string
}

// Common timestamp formats found at (or near) the start of log lines.
// Ordered most specific first so the RFC3339 variants win over the
// plainer date formats they contain.
var timestampPatterns = []timestampPattern{
	// 2024-01-15T10:30:45.123Z / 2024-01-15T10:30:45+02:00
	{
		regex:  regexp.MustCompile(`(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?)`),
		layout: time.RFC3339,
	},
	// 2024-01-15 10:30:45.123
	{
		regex:  regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})`),
		layout: "2006-01-02 15:04:05.000",
	},
	// 2024-01-15 10:30:45
	{
		regex:  regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`),
		layout: "2006-01-02 15:04:05",
	},
	// 15/Jan/2024:10:30:45 +0000 (apache/nginx)
	{
		regex:  regexp.MustCompile(`(\d{2}/[A-Z][a-z]{2}/\d{4}:\d{2}:\d{2}:\d{2} [+-]\d{4})`),
		layout: "02/Jan/2006:15:04:05 -0700",
	},
	// Jan 15 10:30:45 (syslog)
	{
		regex:  regexp.MustCompile(`([A-Z][a-z]{2} {1,2}\d{1,2} \d{2}:\d{2}:\d{2})`),
		layout: "Jan 2 15:04:05",
	},
	// 1705315845123 (unix millis)
	{
		regex:  regexp.MustCompile(`^(\d{13})(?:\D|$)`),
		layout: "unix_ms",
	},
	// 1705315845 (unix seconds)
	{
		regex:  regexp.MustCompile(`^(\d{10})(?:\D|$)`),
		layout: "unix",
	},
}

// ParseTimestamp extracts a timestamp from a log line, or nil if none
// of the known formats match. Only the line prefix is scanned; a
// timestamp buried deep in a message is not worth the cost of finding.
func ParseTimestamp(line string) *time.Time {
	prefix := line
	if len(prefix) > 48 {
		prefix = prefix[:48]
	}

	for _, p := range timestampPatterns {
		m := p.regex.FindStringSubmatch(prefix)
		if len(m) < 2 {
			continue
		}
		str := m[1]

		switch p.layout {
		case "unix":
			if n, err := strconv.ParseInt(str, 10, 64); err == nil {
				t := time.Unix(n, 0)
				return &t
			}
			continue
		case "unix_ms":
			if n, err := strconv.ParseInt(str, 10, 64); err == nil {
				t := time.UnixMilli(n)
				return &t
			}
			continue
		}

		layouts := []string{p.layout}
		if p.layout == time.RFC3339 {
			// Lines without an explicit zone still carry a usable time.
			// Parse accepts fractional seconds even without them in the layout.
			layouts = append(layouts, "2006-01-02T15:04:05")
		}

		for _, layout := range layouts {
			t, err := time.ParseInLocation(layout, str, time.Local)
			if err != nil {
				continue
			}
			// Syslog format has no year; assume the current one
			if layout == "Jan 2 15:04:05" {
				now := time.Now()
				t = time.Date(now.Year(), t.Month(), t.Day(),
					t.Hour(), t.Minute(), t.Second(), 0, time.Local)
			}
			return &t
		}
	}

	return nil
}
