// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self-only policy that still lets the page
//                                  compile its WebAssembly controller
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set before next runs, and only when the handler has not
//   already chosen a value, so a handler may still override any of them.
// • connect-src lists the submission endpoint's origin when it is not the
//   page's own, otherwise the browser would block the POST.
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// Security returns a wrapper setting security headers.  endpoints are the
// URLs the page may post to; relative ones are covered by 'self'.
func Security(endpoints ...string) func(http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)
	csp := buildCSP(endpoints)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			setDefault(h, "Strict-Transport-Security", hsts)
			setDefault(h, "Content-Security-Policy", csp)
			setDefault(h, "X-Frame-Options", xfo)
			setDefault(h, "X-Content-Type-Options", nosn)
			setDefault(h, "Referrer-Policy", refer)
			setDefault(h, "Permissions-Policy", perm)
			next.ServeHTTP(w, r)
		})
	}
}

func buildCSP(endpoints []string) string {
	connect := []string{"'self'"}
	for _, e := range endpoints {
		u, err := url.Parse(e)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		connect = append(connect, u.Scheme+"://"+u.Host)
	}
	return "default-src 'self'; script-src 'self' 'wasm-unsafe-eval'; " +
		"connect-src " + strings.Join(connect, " ") + "; " +
		"img-src 'self' data:; object-src 'none'; base-uri 'self'; " +
		"form-action 'self'; frame-ancestors 'none'"
}

func setDefault(h http.Header, k, v string) {
	if h.Get(k) == "" {
		h.Set(k, v)
	}
}
