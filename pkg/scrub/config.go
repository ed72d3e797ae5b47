package scrub

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// SkipRoutes is the compiled form of the skip-route configuration: a set of
// normalized exact paths plus an ordered list of regular expressions.
type SkipRoutes struct {
	Exact map[string]struct{}
	Regex []*regexp.Regexp
}

// Empty reports whether no skip routes are configured.
func (s SkipRoutes) Empty() bool {
	return len(s.Exact) == 0 && len(s.Regex) == 0
}

// Config is an immutable resolved configuration. It is produced once by
// Resolve, consumed read-only by every sanitize invocation, and replaced
// rather than mutated when options change.
type Config struct {
	Replacement   string
	RemoveMatches bool
	Recursive     bool
	RemoveEmpty   bool
	Fields        []string
	BodyField     string
	Mode          Mode
	MaxDepth      int // 0 = unlimited
	String        StringOptions
	Array         ArrayOptions
	Skip          SkipRoutes

	pattern      *regexp.Regexp
	contentTypes map[string]struct{} // nil = no gating
	allowedKeys  map[string]struct{}
	deniedKeys   map[string]struct{}
	custom       SanitizerFunc
	audit        AuditFunc
	logger       *slog.Logger
	debug        bool
}

// Pattern returns the combined matcher built from all configured patterns.
// *regexp.Regexp carries no match-position state and is safe for concurrent use.
func (c *Config) Pattern() *regexp.Regexp { return c.pattern }

// resolveRules is the declarative validation table. Rules run in order and
// the first violation aborts resolution with a ConfigurationError.
var resolveRules = []struct {
	field  string
	reason string
	ok     func(*options) bool
}{
	{"maxDepth", "must not be negative", func(o *options) bool { return o.maxDepth >= 0 }},
	{"mode", `must be "auto" or "manual"`, func(o *options) bool { return o.mode == ModeAuto || o.mode == ModeManual }},
	{"fields", "must name at least one field", func(o *options) bool { return len(o.fields) > 0 }},
	{"bodyField", "must not be empty", func(o *options) bool { return o.bodyField != "" }},
	{"patterns", "must contain at least one pattern", func(o *options) bool { return len(o.patterns) > 0 }},
	{"stringOptions.maxLength", "must not be negative", func(o *options) bool { return o.str.MaxLength >= 0 }},
}

// Resolve merges the given options over the defaults, validates them and
// compiles the combined pattern and lookup sets. Resolution either returns a
// complete configuration or an error matching ErrInvalidConfiguration; it
// never produces a partial configuration.
func Resolve(opts ...Option) (*Config, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	for _, rule := range resolveRules {
		if !rule.ok(o) {
			return nil, &ConfigurationError{Field: rule.field, Reason: rule.reason}
		}
	}

	pattern, err := compilePatterns(o.patterns)
	if err != nil {
		return nil, err
	}

	// A replacement matching its own pattern would make sanitization
	// non-idempotent and reintroduce markers on every pass.
	if o.replacement != "" && pattern.MatchString(o.replacement) {
		return nil, &ConfigurationError{Field: "replacement", Reason: "must not match the configured patterns"}
	}

	cfg := &Config{
		Replacement:   o.replacement,
		RemoveMatches: o.removeMatches,
		Recursive:     o.recursive,
		RemoveEmpty:   o.removeEmpty,
		Fields:        append([]string(nil), o.fields...),
		BodyField:     o.bodyField,
		Mode:          o.mode,
		MaxDepth:      o.maxDepth,
		String:        o.str,
		Array:         o.arr,
		Skip:          compileSkipRoutes(o),
		pattern:       pattern,
		allowedKeys:   toSet(o.allowedKeys),
		deniedKeys:    toSet(o.deniedKeys),
		custom:        o.custom,
		audit:         o.audit,
		logger:        o.logger,
		debug:         o.debug,
	}

	if o.contentTypes != nil {
		cfg.contentTypes = make(map[string]struct{}, len(o.contentTypes))
		for _, ct := range o.contentTypes {
			cfg.contentTypes[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
		}
	}

	return cfg, nil
}

// compilePatterns validates each pattern individually before unioning them,
// so the error names the offending source pattern rather than the combined
// expression.
func compilePatterns(patterns []string) (*regexp.Regexp, error) {
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return nil, &ConfigurationError{
				Field:  "patterns",
				Reason: fmt.Sprintf("invalid pattern %q: %v", p, err),
			}
		}
	}

	combined, err := regexp.Compile(strings.Join(patterns, "|"))
	if err != nil {
		return nil, &ConfigurationError{
			Field:  "patterns",
			Reason: fmt.Sprintf("patterns do not combine: %v", err),
		}
	}

	return combined, nil
}

func compileSkipRoutes(o *options) SkipRoutes {
	skip := SkipRoutes{}

	for _, raw := range o.skipRoutes {
		if clean, ok := CleanPath(raw); ok {
			if skip.Exact == nil {
				skip.Exact = make(map[string]struct{})
			}
			skip.Exact[clean] = struct{}{}
		}
	}

	for _, raw := range o.skipRouteRegexps {
		re, err := regexp.Compile(raw)
		if err != nil {
			if o.debug && o.logger != nil {
				o.logger.Debug("dropping malformed skip-route pattern",
					slog.String("pattern", raw),
					slog.Any("error", err))
			}
			continue
		}
		skip.Regex = append(skip.Regex, re)
	}

	return skip
}

func toSet(keys []string) map[string]struct{} {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// emit delivers a sanitize event to the debug logger and the audit hook.
func (c *Config) emit(ev Event) {
	if c.debug && c.logger != nil {
		c.logger.Debug("value sanitized",
			slog.String("key", ev.Key),
			slog.String("path", ev.Path))
	}
	if c.audit != nil {
		c.audit(ev)
	}
}
