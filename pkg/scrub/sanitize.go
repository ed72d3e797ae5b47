package scrub

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// emailRegex is a heuristic, not a full RFC 5322 parser: local part, "@",
// domain containing at least one dot. Values matching it bypass
// substitution unconditionally so dot stripping never corrupts addresses.
var emailRegex = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// IsEmail reports whether s looks like an e-mail address.
func IsEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// Sanitize walks a value tree and returns its sanitized form. Dispatch is
// by concrete type, most specific first: primitives and date-like leaves
// pass through, strings are always rewritten regardless of depth, and
// container recursion stops once depth reaches the configured maximum.
// Depth increments once per container boundary crossed, never per leaf;
// callers start at depth 0. Unknown kinds pass through unchanged.
func Sanitize(value any, cfg *Config, depth int) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return cfg.sanitizeString(v, true)
	case bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		json.Number,
		time.Time,
		bson.ObjectID, bson.DateTime:
		return value
	case []any:
		if cfg.depthExceeded(depth) {
			return value
		}
		return cfg.sanitizeArray(v, depth+1)
	case bson.A:
		if cfg.depthExceeded(depth) {
			return value
		}
		return bson.A(cfg.sanitizeArray(v, depth+1))
	case map[string]any:
		if cfg.depthExceeded(depth) {
			return value
		}
		return cfg.sanitizeObject(v, depth+1)
	case bson.M:
		if cfg.depthExceeded(depth) {
			return value
		}
		return bson.M(cfg.sanitizeObject(v, depth+1))
	case bson.D:
		if cfg.depthExceeded(depth) {
			return value
		}
		return cfg.sanitizeDocument(v, depth+1)
	default:
		return value
	}
}

// sanitizeString rewrites every pattern match with the configured
// replacement and applies the optional string transforms. Truncation runs
// only when truncate is set; mapping keys are never truncated.
func (c *Config) sanitizeString(s string, truncate bool) string {
	if IsEmail(s) {
		return s
	}

	out := c.pattern.ReplaceAllString(s, c.Replacement)

	if c.String.Trim {
		out = strings.TrimSpace(out)
	}
	if c.String.Lowercase {
		out = strings.ToLower(out)
	}
	if truncate && c.String.MaxLength > 0 {
		if runes := []rune(out); len(runes) > c.String.MaxLength {
			out = string(runes[:c.String.MaxLength])
		}
	}

	return out
}

// sanitizeKey applies the string sanitizer without max-length truncation.
func (c *Config) sanitizeKey(key string) string {
	return c.sanitizeString(key, false)
}

func (c *Config) depthExceeded(depth int) bool {
	return c.MaxDepth > 0 && depth >= c.MaxDepth
}

// Has reports whether any mapping key in the value tree matches the
// combined pattern. It is a detection-only probe: nothing is modified and
// the recursion and depth settings of cfg are honored.
func Has(value any, cfg *Config) bool {
	return has(value, cfg, 0)
}

func has(value any, cfg *Config, depth int) bool {
	if cfg.depthExceeded(depth) {
		return false
	}

	switch v := value.(type) {
	case []any:
		return hasInSlice(v, cfg, depth)
	case bson.A:
		return hasInSlice(v, cfg, depth)
	case map[string]any:
		return hasInMap(v, cfg, depth)
	case bson.M:
		return hasInMap(v, cfg, depth)
	case bson.D:
		for _, e := range v {
			if cfg.pattern.MatchString(e.Key) {
				return true
			}
			if cfg.Recursive && has(e.Value, cfg, depth+1) {
				return true
			}
		}
	}
	return false
}

func hasInSlice(items []any, cfg *Config, depth int) bool {
	if !cfg.Recursive {
		return false
	}
	for _, item := range items {
		if has(item, cfg, depth+1) {
			return true
		}
	}
	return false
}

func hasInMap(m map[string]any, cfg *Config, depth int) bool {
	for k, v := range m {
		if cfg.pattern.MatchString(k) {
			return true
		}
		if cfg.Recursive && has(v, cfg, depth+1) {
			return true
		}
	}
	return false
}

// isContainer reports whether the value is a slice or mapping kind the
// sanitizer would recurse into.
func isContainer(value any) bool {
	switch value.(type) {
	case []any, bson.A, map[string]any, bson.M, bson.D:
		return true
	}
	return false
}

// isFalsy mirrors the truthiness rules the removeEmpty and filterNull
// options are defined against: nil, empty string, false and numeric zero.
// Empty containers are not falsy.
func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int8:
		return v == 0
	case int16:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case uint:
		return v == 0
	case uint8:
		return v == 0
	case uint16:
		return v == 0
	case uint32:
		return v == 0
	case uint64:
		return v == 0
	case float32:
		return v == 0
	case float64:
		return v == 0
	}
	return false
}
