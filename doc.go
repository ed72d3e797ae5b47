// Package querysafe wires the scrub sanitization engine into net/http. It
// strips MongoDB injection markers (operator prefixes, key-path separators)
// from the query string, chi route parameters and JSON body of incoming
// requests before handlers touch them.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(querysafe.Middleware(
//	    scrub.WithReplacement("_"),
//	    scrub.WithSkipRoutes("/health"),
//	))
//
// Configuration is resolved once at registration; an invalid configuration
// panics there, never at request time. Route parameters are only visible to
// middleware mounted inside a route group whose parent already captured
// them; router-level middleware still sanitizes the query string and body.
//
//	r.Route("/items/{id}", func(sub chi.Router) {
//	    sub.Use(querysafe.Middleware())
//	    sub.Get("/", handler)
//	})
//
// In manual mode the middleware is a
// pass-through and handlers opt in explicitly:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    if err := querysafe.SanitizeRequest(r, cfg); err != nil {
//	        http.Error(w, "bad request", http.StatusBadRequest)
//	        return
//	    }
//	    // r.URL.RawQuery, route params and r.Body are now sanitized
//	}
//
// # Error Handling
//
// SanitizeRequest fails only when a sanitized field cannot be written back
// to the request; payload shape alone can never produce an error. A body
// that is absent, empty or not valid JSON is left untouched.
package querysafe
