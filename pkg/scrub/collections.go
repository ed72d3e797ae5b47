package scrub

import (
	"fmt"
	"reflect"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SanitizeArray is the slice entry point of the sanitizer. It returns an
// error matching ErrTypeMismatch when value is not a slice kind.
func SanitizeArray(value any, cfg *Config, depth int) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return cfg.sanitizeArray(v, depth), nil
	case bson.A:
		return cfg.sanitizeArray(v, depth), nil
	default:
		return nil, &TypeMismatchError{Want: "array", Got: fmt.Sprintf("%T", value)}
	}
}

// SanitizeObject is the mapping entry point of the sanitizer. It returns an
// error matching ErrTypeMismatch when value is not a mapping kind.
func SanitizeObject(value any, cfg *Config, depth int) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return cfg.sanitizeObject(v, depth), nil
	case bson.M:
		return cfg.sanitizeObject(v, depth), nil
	default:
		return nil, &TypeMismatchError{Want: "object", Got: fmt.Sprintf("%T", value)}
	}
}

// sanitizeArray sanitizes each element, then filters falsy elements, then
// deduplicates. Filtering must run before deduplication so dropped elements
// never influence which occurrence survives.
func (c *Config) sanitizeArray(items []any, depth int) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		if !c.Recursive && isContainer(item) {
			out = append(out, item)
			continue
		}
		out = append(out, Sanitize(item, c, depth))
	}

	if c.Array.FilterNull {
		out = slices.DeleteFunc(out, isFalsy)
	}
	if c.Array.Distinct {
		out = dedupe(out)
	}

	return out
}

// sanitizeObject iterates keys in sorted order so output, audit events and
// removeEmpty decisions are deterministic across runs.
func (c *Config) sanitizeObject(m map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(m))
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		cleanKey, cleanValue, keep := c.sanitizePair(key, m[key], depth)
		if keep {
			out[cleanKey] = cleanValue
		}
	}
	return out
}

// sanitizeDocument applies the same per-pair precedence to an ordered bson
// document, preserving element order.
func (c *Config) sanitizeDocument(d bson.D, depth int) bson.D {
	out := make(bson.D, 0, len(d))
	for _, e := range d {
		cleanKey, cleanValue, keep := c.sanitizePair(e.Key, e.Value, depth)
		if keep {
			out = append(out, bson.E{Key: cleanKey, Value: cleanValue})
		}
	}
	return out
}

// sanitizePair applies the key/value precedence rules and reports whether
// the pair survives. The order is load-bearing:
//
//  1. denied keys dominate everything, sparing only e-mail values;
//  2. allowed keys drop everything not listed;
//  3. removeMatches tests the ORIGINAL key and value, while
//  4. removeEmpty tests the SANITIZED key and value.
//
// Swapping the original/sanitized targets changes observable behavior.
func (c *Config) sanitizePair(key string, value any, depth int) (string, any, bool) {
	if _, denied := c.deniedKeys[key]; denied {
		if s, ok := value.(string); ok && IsEmail(s) {
			return key, value, true
		}
		return "", nil, false
	}

	if len(c.allowedKeys) > 0 {
		if _, allowed := c.allowedKeys[key]; !allowed {
			return "", nil, false
		}
	}

	cleanKey := c.sanitizeKey(key)

	if c.RemoveMatches && c.pattern.MatchString(key) {
		return "", nil, false
	}
	if c.RemoveEmpty && cleanKey == "" {
		return "", nil, false
	}
	if c.RemoveMatches {
		if s, ok := value.(string); ok && !IsEmail(s) && c.pattern.MatchString(s) {
			return "", nil, false
		}
	}

	var cleanValue any
	if !c.Recursive && isContainer(value) {
		cleanValue = value
	} else {
		cleanValue = Sanitize(value, c, depth)
	}

	if c.RemoveEmpty && isFalsy(cleanValue) {
		return "", nil, false
	}

	if orig, ok := value.(string); ok {
		if clean, ok := cleanValue.(string); ok && clean != orig {
			c.emit(Event{
				Key:            cleanKey,
				OriginalValue:  orig,
				SanitizedValue: clean,
				Path:           cleanKey,
			})
		}
	}

	return cleanKey, cleanValue, true
}

// dedupe keeps the first occurrence of each value. reflect.DeepEqual covers
// non-comparable elements such as nested maps and slices.
func dedupe(items []any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		duplicate := false
		for _, seen := range out {
			if reflect.DeepEqual(seen, item) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, item)
		}
	}
	return out
}
