package scrub

import (
	"maps"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Host exposes the mutable fields of a request-like carrier. Writability
// introspection and replace-in-place mechanics belong to the host adapter,
// not to the engine: SetField must make the new value observable to
// downstream consumers by whatever means the carrier requires.
type Host interface {
	// Field returns the named field's current value. The second return
	// value is false when the field is absent or unreadable.
	Field(name string) (any, bool)

	// SetField replaces the named field's value.
	SetField(name string, value any) error

	// ContentType returns the declared content type of the carrier and
	// whether one is present.
	ContentType() (string, bool)
}

// ApplyToFields runs the sanitizer over each configured field of the host,
// in configuration order. The body field is gated on the declared content
// type; nil and empty-mapping fields are skipped. Each field is shallow
// copied before sanitization so concurrent readers of the original value
// never observe a half-built tree.
func ApplyToFields(host Host, cfg *Config) error {
	for _, name := range cfg.Fields {
		if name == cfg.BodyField && !cfg.contentTypeAllowed(host) {
			continue
		}

		value, ok := host.Field(name)
		if !ok || value == nil {
			continue
		}
		if isEmptyMapping(value) {
			continue
		}

		copied := shallowCopy(value)

		var result any
		if cfg.custom != nil {
			result = cfg.custom(copied, cfg)
		} else {
			result = Sanitize(copied, cfg, 0)
		}

		if err := host.SetField(name, result); err != nil {
			return err
		}
	}

	return nil
}

// contentTypeAllowed implements the content-type gate: a nil allow-set or
// an absent header always passes; a declared type must be a set member.
func (c *Config) contentTypeAllowed(host Host) bool {
	if c.contentTypes == nil {
		return true
	}

	header, ok := host.ContentType()
	if !ok || header == "" {
		return true
	}

	mimeType := header
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	_, allowed := c.contentTypes[mimeType]
	return allowed
}

func isEmptyMapping(value any) bool {
	switch v := value.(type) {
	case map[string]any:
		return len(v) == 0
	case bson.M:
		return len(v) == 0
	case bson.D:
		return len(v) == 0
	}
	return false
}

// shallowCopy duplicates the top level of a container while sharing the
// nested element references; the sanitizer builds fresh nested structures
// as it descends, so only the outermost layer needs isolation.
func shallowCopy(value any) any {
	switch v := value.(type) {
	case []any:
		return slices.Clone(v)
	case bson.A:
		return slices.Clone(v)
	case map[string]any:
		return maps.Clone(v)
	case bson.M:
		return maps.Clone(v)
	case bson.D:
		return slices.Clone(v)
	}
	return value
}
