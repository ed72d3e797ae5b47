package scrub

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envOptions mirrors the option surface that makes sense to configure per
// deployment. envDefault values match the package defaults so an empty
// environment resolves to the default configuration.
type envOptions struct {
	Fields              []string `env:"SANITIZE_FIELDS" envDefault:"body,query,params" envSeparator:","`
	BodyField           string   `env:"SANITIZE_BODY_FIELD" envDefault:"body"`
	Replacement         string   `env:"SANITIZE_REPLACEMENT" envDefault:""`
	RemoveMatches       bool     `env:"SANITIZE_REMOVE_MATCHES" envDefault:"false"`
	Recursive           bool     `env:"SANITIZE_RECURSIVE" envDefault:"true"`
	RemoveEmpty         bool     `env:"SANITIZE_REMOVE_EMPTY" envDefault:"false"`
	Mode                string   `env:"SANITIZE_MODE" envDefault:"auto"`
	MaxDepth            int      `env:"SANITIZE_MAX_DEPTH" envDefault:"0"`
	SkipRoutes          []string `env:"SANITIZE_SKIP_ROUTES" envSeparator:","`
	SkipRoutePatterns   []string `env:"SANITIZE_SKIP_ROUTE_PATTERNS" envSeparator:","`
	AllowedContentTypes []string `env:"SANITIZE_ALLOWED_CONTENT_TYPES" envSeparator:","`
	Trim                bool     `env:"SANITIZE_TRIM" envDefault:"false"`
	Lowercase           bool     `env:"SANITIZE_LOWERCASE" envDefault:"false"`
	MaxLength           int      `env:"SANITIZE_MAX_LENGTH" envDefault:"0"`
	FilterNull          bool     `env:"SANITIZE_FILTER_NULL" envDefault:"false"`
	Distinct            bool     `env:"SANITIZE_DISTINCT" envDefault:"false"`
	Debug               bool     `env:"SANITIZE_DEBUG" envDefault:"false"`
}

var dotenvOnce sync.Once

// OptionsFromEnv builds sanitizer options from SANITIZE_* environment
// variables. A .env file is loaded once per process if present; a missing
// file is not an error. The returned options still pass through Resolve, so
// invalid values (a bad mode, a negative depth) fail there with a
// ConfigurationError.
func OptionsFromEnv() ([]Option, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var eo envOptions
	if err := env.Parse(&eo); err != nil {
		return nil, errors.Join(ErrInvalidConfiguration, err)
	}

	opts := []Option{
		WithFields(eo.Fields...),
		WithBodyField(eo.BodyField),
		WithReplacement(eo.Replacement),
		WithRemoveMatches(eo.RemoveMatches),
		WithRecursive(eo.Recursive),
		WithRemoveEmpty(eo.RemoveEmpty),
		WithMode(Mode(eo.Mode)),
		WithMaxDepth(eo.MaxDepth),
		WithStringOptions(StringOptions{
			Trim:      eo.Trim,
			Lowercase: eo.Lowercase,
			MaxLength: eo.MaxLength,
		}),
		WithArrayOptions(ArrayOptions{
			FilterNull: eo.FilterNull,
			Distinct:   eo.Distinct,
		}),
		WithDebug(eo.Debug),
	}

	if len(eo.SkipRoutes) > 0 {
		opts = append(opts, WithSkipRoutes(eo.SkipRoutes...))
	}
	if len(eo.SkipRoutePatterns) > 0 {
		opts = append(opts, WithSkipRoutePatterns(eo.SkipRoutePatterns...))
	}
	if eo.AllowedContentTypes != nil {
		opts = append(opts, WithAllowedContentTypes(eo.AllowedContentTypes...))
	}

	return opts, nil
}
