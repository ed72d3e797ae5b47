package querysafe

import (
	"fmt"
	"net/http"

	"github.com/querysafe/querysafe/pkg/scrub"
)

// Middleware creates HTTP middleware that sanitizes configured request
// fields before dispatch. The configuration is resolved once at
// registration; invalid options panic here so misconfiguration surfaces at
// startup rather than per request.
func Middleware(opts ...scrub.Option) func(http.Handler) http.Handler {
	cfg, err := scrub.Resolve(opts...)
	if err != nil {
		panic(fmt.Sprintf("querysafe: %v", err))
	}
	return MiddlewareWithConfig(cfg)
}

// MiddlewareWithConfig creates the middleware from an already resolved
// configuration, for callers that need to handle resolution errors or share
// one configuration between the middleware and manual call sites.
func MiddlewareWithConfig(cfg *scrub.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Mode == scrub.ModeManual || scrub.ShouldSkip(r.URL.Path, cfg.Skip) {
				next.ServeHTTP(w, r)
				return
			}

			if err := SanitizeRequest(r, cfg); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SanitizeRequest sanitizes the configured fields of r in place. It is the
// manual-mode entry point and is also used by the middleware. Query string,
// chi route parameters and a JSON body are rewritten through the request's
// canonical setters; panics from caller-supplied hooks propagate unchanged.
func SanitizeRequest(r *http.Request, cfg *scrub.Config) error {
	return scrub.ApplyToFields(&requestHost{r: r}, cfg)
}
