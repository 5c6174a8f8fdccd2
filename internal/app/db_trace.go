package app

import (
	"regexp"
	"strings"
)

// Spans carry a single-line, bounded copy of each statement.
const tracedQueryLimit = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	flat := collapseWhitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(flat) > tracedQueryLimit {
		return flat[:tracedQueryLimit] + "..."
	}
	return flat
}
