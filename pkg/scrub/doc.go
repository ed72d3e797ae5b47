// Package scrub removes document-query injection markers (operator
// prefixes such as "$", key-path separators such as ".") from untrusted
// structured input before it reaches a MongoDB-style query layer.
//
// The package is built around an immutable resolved configuration and a
// recursive value sanitizer:
//
//   - Resolve merges functional options over defaults, validates them and
//     precompiles a single combined pattern used for both substitution and
//     membership testing.
//
//   - Sanitize walks a value tree (strings, slices, maps, bson documents)
//     and rewrites every string through the combined pattern. String leaves
//     are always substituted regardless of depth; container recursion is
//     bounded by the configured maximum depth. Values that look like e-mail
//     addresses pass through untouched so legitimate addresses are never
//     corrupted by dot stripping.
//
//   - ApplyToFields applies the sanitizer to named fields of a request-like
//     Host (conventionally "body", "query" and "params"), gating the body
//     field on the declared content type.
//
//   - ShouldSkip decides whether a request path is exempt from automatic
//     sanitization, matching against an exact-path set and an ordered list
//     of regular expressions.
//
// # Usage
//
//	cfg, err := scrub.Resolve(
//	    scrub.WithReplacement("_"),
//	    scrub.WithMaxDepth(10),
//	    scrub.WithSkipRoutes("/health", "/metrics"),
//	)
//	if err != nil {
//	    // invalid configuration is a startup-time failure
//	}
//
//	clean := scrub.Sanitize(map[string]any{"$ne": ""}, cfg, 0)
//	// clean == map[string]any{"ne": ""}
//
// # Concurrency
//
// A resolved Config is read-only after Resolve returns and the combined
// pattern is a *regexp.Regexp, which is safe for concurrent use. One Config
// may therefore back any number of concurrent sanitize invocations.
//
// # Error Handling
//
// Resolve is the only place configuration errors can surface; they match
// ErrInvalidConfiguration. Sanitize is total over every value kind at every
// depth and never fails on payload shape. The exported SanitizeArray and
// SanitizeObject entry points return an error matching ErrTypeMismatch when
// called with the wrong kind, which is a contract violation by the caller
// rather than something attacker input can trigger. Panics raised by
// caller-supplied hooks (custom sanitizer, audit callback) are never
// recovered by this package.
package scrub
