package scrub

// Event describes a single string value that was changed by sanitization.
// Events are delivered synchronously and only when the sanitized value
// actually differs from the original.
type Event struct {
	Key            string
	OriginalValue  string
	SanitizedValue string
	Path           string
}

// AuditFunc receives sanitization events. Panics raised by the callback
// propagate to the caller of the sanitize operation.
type AuditFunc func(Event)

// SanitizerFunc replaces the built-in value sanitizer for a whole field.
// It receives a shallow copy of the field value and the full resolved
// configuration.
type SanitizerFunc func(value any, cfg *Config) any
