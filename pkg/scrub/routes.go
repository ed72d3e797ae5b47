package scrub

import "strings"

// CleanPath normalizes a raw request path for skip-route matching: the
// query/fragment suffix is cut at the first "?" or "#", leading and
// trailing slash runs are stripped, and the remainder is re-prefixed with a
// single leading slash. The second return value is false when nothing
// remains after trimming.
func CleanPath(raw string) (string, bool) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}

	raw = strings.Trim(raw, "/")
	if raw == "" {
		return "", false
	}

	return "/" + raw, true
}

// ShouldSkip reports whether the request path is exempt from sanitization.
// The exact set is checked first; on a miss the regular expressions are
// tested in configuration order and the first match wins.
func ShouldSkip(rawPath string, skip SkipRoutes) bool {
	if skip.Empty() {
		return false
	}

	path, ok := CleanPath(rawPath)
	if !ok {
		return false
	}

	if _, exact := skip.Exact[path]; exact {
		return true
	}

	for _, re := range skip.Regex {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}
