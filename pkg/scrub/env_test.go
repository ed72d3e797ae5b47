package scrub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querysafe/querysafe/pkg/scrub"
)

func TestOptionsFromEnvDefaults(t *testing.T) {
	opts, err := scrub.OptionsFromEnv()
	require.NoError(t, err)

	cfg, err := scrub.Resolve(opts...)
	require.NoError(t, err)

	// An empty environment resolves to the package defaults.
	assert.Equal(t, []string{"body", "query", "params"}, cfg.Fields)
	assert.Equal(t, scrub.ModeAuto, cfg.Mode)
	assert.True(t, cfg.Recursive)
	assert.Zero(t, cfg.MaxDepth)
	assert.True(t, cfg.Skip.Empty())
}

func TestOptionsFromEnvOverrides(t *testing.T) {
	t.Setenv("SANITIZE_FIELDS", "body,query")
	t.Setenv("SANITIZE_REPLACEMENT", "_")
	t.Setenv("SANITIZE_REMOVE_MATCHES", "true")
	t.Setenv("SANITIZE_MODE", "manual")
	t.Setenv("SANITIZE_MAX_DEPTH", "4")
	t.Setenv("SANITIZE_SKIP_ROUTES", "/health,/metrics")
	t.Setenv("SANITIZE_ALLOWED_CONTENT_TYPES", "application/json")
	t.Setenv("SANITIZE_TRIM", "true")
	t.Setenv("SANITIZE_DISTINCT", "true")

	opts, err := scrub.OptionsFromEnv()
	require.NoError(t, err)

	cfg, err := scrub.Resolve(opts...)
	require.NoError(t, err)

	assert.Equal(t, []string{"body", "query"}, cfg.Fields)
	assert.Equal(t, "_", cfg.Replacement)
	assert.True(t, cfg.RemoveMatches)
	assert.Equal(t, scrub.ModeManual, cfg.Mode)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Contains(t, cfg.Skip.Exact, "/health")
	assert.Contains(t, cfg.Skip.Exact, "/metrics")
	assert.True(t, cfg.String.Trim)
	assert.True(t, cfg.Array.Distinct)
}

func TestOptionsFromEnvInvalidValuesFailAtResolve(t *testing.T) {
	t.Setenv("SANITIZE_MODE", "eager")

	opts, err := scrub.OptionsFromEnv()
	require.NoError(t, err)

	_, err = scrub.Resolve(opts...)
	assert.ErrorIs(t, err, scrub.ErrInvalidConfiguration)
}
