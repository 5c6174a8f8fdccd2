package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL appends disable_prepared_binary_result=yes when the toggle is
// on and the caller has not set the parameter already. lib/pq requests binary
// results for prepared statements otherwise, which pooler setups reject.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	values := parsed.Query()
	if values.Has("disable_prepared_binary_result") {
		return raw
	}
	values.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = values.Encode()

	return parsed.String()
}

// dbNameFromURL extracts the database name from either a postgres:// URL or a
// key=value DSN. Used to tag DB spans.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, field := range strings.Fields(raw) {
		value, ok := strings.CutPrefix(field, "dbname=")
		if !ok {
			continue
		}
		if name := strings.Trim(value, `"' `); name != "" {
			return name
		}
	}

	return ""
}
