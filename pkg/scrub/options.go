package scrub

import "log/slog"

// Mode selects how sanitization is triggered for incoming requests.
type Mode string

const (
	// ModeAuto sanitizes every non-skipped request before dispatch.
	ModeAuto Mode = "auto"

	// ModeManual leaves sanitization to an explicit call by the handler.
	ModeManual Mode = "manual"
)

// StringOptions control the post-substitution string transforms.
// MaxLength truncation applies to values only, never to mapping keys.
type StringOptions struct {
	Trim      bool
	Lowercase bool
	MaxLength int
}

// ArrayOptions control post-processing of sanitized slices. Falsy filtering
// always runs before deduplication.
type ArrayOptions struct {
	FilterNull bool
	Distinct   bool
}

// defaultPatterns neutralize the two MongoDB injection markers: the "$"
// operator prefix and the "." key-path separator.
var defaultPatterns = []string{`\$`, `\.`}

// options holds raw, unvalidated configuration.
type options struct {
	replacement      string
	removeMatches    bool
	recursive        bool
	removeEmpty      bool
	fields           []string
	bodyField        string
	contentTypes     []string // nil = no gating
	mode             Mode
	skipRoutes       []string
	skipRouteRegexps []string
	patterns         []string
	allowedKeys      []string
	deniedKeys       []string
	maxDepth         int // 0 = unlimited
	custom           SanitizerFunc
	audit            AuditFunc
	str              StringOptions
	arr              ArrayOptions
	logger           *slog.Logger
	debug            bool
}

func defaultOptions() *options {
	return &options{
		recursive: true,
		fields:    []string{"body", "query", "params"},
		bodyField: "body",
		mode:      ModeAuto,
		patterns:  defaultPatterns,
	}
}

// Option configures the sanitizer.
type Option func(*options)

// WithReplacement sets the string substituted for every pattern match.
// The default is the empty string, which strips markers entirely.
func WithReplacement(replacement string) Option {
	return func(o *options) { o.replacement = replacement }
}

// WithRemoveMatches drops key/value pairs whose original key or string
// value matches the combined pattern instead of rewriting them.
func WithRemoveMatches(remove bool) Option {
	return func(o *options) { o.removeMatches = remove }
}

// WithRecursive controls descent into nested containers. When disabled,
// nested slices and maps pass through untouched.
func WithRecursive(recursive bool) Option {
	return func(o *options) { o.recursive = recursive }
}

// WithRemoveEmpty drops pairs whose sanitized key or sanitized value is falsy.
func WithRemoveEmpty(remove bool) Option {
	return func(o *options) { o.removeEmpty = remove }
}

// WithFields sets the host fields to sanitize. Defaults to body, query, params.
func WithFields(fields ...string) Option {
	return func(o *options) { o.fields = fields }
}

// WithBodyField names the field subject to the content-type gate.
func WithBodyField(name string) Option {
	return func(o *options) { o.bodyField = name }
}

// WithAllowedContentTypes restricts body sanitization to the given MIME
// types. Leaving it unset disables the gate entirely.
func WithAllowedContentTypes(types ...string) Option {
	return func(o *options) { o.contentTypes = types }
}

// WithMode selects automatic or manual triggering.
func WithMode(mode Mode) Option {
	return func(o *options) { o.mode = mode }
}

// WithSkipRoutes exempts exact request paths from automatic sanitization.
// Paths are normalized, so "/health" and "/health/" are equivalent.
func WithSkipRoutes(paths ...string) Option {
	return func(o *options) { o.skipRoutes = append(o.skipRoutes, paths...) }
}

// WithSkipRoutePatterns exempts request paths matching the given regular
// expressions, tested in order. Malformed patterns are silently dropped.
func WithSkipRoutePatterns(patterns ...string) Option {
	return func(o *options) { o.skipRouteRegexps = append(o.skipRouteRegexps, patterns...) }
}

// WithPatterns replaces the default marker patterns entirely.
func WithPatterns(patterns ...string) Option {
	return func(o *options) { o.patterns = patterns }
}

// WithAllowedKeys keeps only the listed mapping keys.
func WithAllowedKeys(keys ...string) Option {
	return func(o *options) { o.allowedKeys = keys }
}

// WithDeniedKeys drops the listed mapping keys unless their value is an
// e-mail address. Denied keys take precedence over allowed keys.
func WithDeniedKeys(keys ...string) Option {
	return func(o *options) { o.deniedKeys = keys }
}

// WithMaxDepth bounds container recursion. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithCustomSanitizer replaces the built-in value sanitizer per field.
func WithCustomSanitizer(fn SanitizerFunc) Option {
	return func(o *options) { o.custom = fn }
}

// WithAuditHook registers a synchronous callback fired whenever a string
// value is changed by sanitization.
func WithAuditHook(fn AuditFunc) Option {
	return func(o *options) { o.audit = fn }
}

// WithStringOptions merges string transform settings over the defaults.
func WithStringOptions(str StringOptions) Option {
	return func(o *options) { o.str = str }
}

// WithArrayOptions merges slice post-processing settings over the defaults.
func WithArrayOptions(arr ArrayOptions) Option {
	return func(o *options) { o.arr = arr }
}

// WithLogger sets the logger used when debug logging is enabled.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDebug enables debug logging of sanitization events.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}
