// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time (15 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// The values come from the http section of config; zero falls back to the
// defaults above so cmd/web doesn't repeat boilerplate.

package server

import (
	"net/http"
	"time"

	"github.com/yanizio/landing/internal/config"
)

const (
	defaultRead  = 10 * time.Second
	defaultWrite = 15 * time.Second
	defaultIdle  = 60 * time.Second
)

// New constructs an *http.Server from cfg.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadTimeout:       or(cfg.ReadTimeout, defaultRead),
		ReadHeaderTimeout: or(cfg.ReadTimeout, defaultRead),
		WriteTimeout:      or(cfg.WriteTimeout, defaultWrite),
		IdleTimeout:       or(cfg.IdleTimeout, defaultIdle),
	}
}

func or(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
