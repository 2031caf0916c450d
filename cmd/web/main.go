// cmd/web/main.go
//
// Landing – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load config (conf/.env → conf/landing.yaml → LANDING_* env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve vault: references when any are present.
//
//  4. Open the database when a DSN is configured and apply component
//     migrations.
//
//  5. Build shared services: GeoIP reader, relay queue, form signer,
//     action executor, and the view engine.
//
//  6. Init every registered component and mount its routes at “/”.
//
//  7. Serve until SIGINT/SIGTERM, then drain the relay queue and shut the
//     listener down gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/landing/internal/component"
	"github.com/yanizio/landing/internal/config"
	"github.com/yanizio/landing/internal/database"
	"github.com/yanizio/landing/internal/form"
	"github.com/yanizio/landing/internal/logger"
	"github.com/yanizio/landing/internal/message"
	"github.com/yanizio/landing/internal/middleware"
	"github.com/yanizio/landing/internal/requestinfo"
	"github.com/yanizio/landing/internal/server"
	"github.com/yanizio/landing/internal/store"
	"github.com/yanizio/landing/internal/vault"
	"github.com/yanizio/landing/internal/view"
	"github.com/yanizio/landing/web"

	_ "github.com/yanizio/landing/components/contact" // landing page + contact endpoints
)

const shutdownGrace = 10 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	if err := run(ctx, cfg, logOut); err != nil {
		logOut.Fatalw("landing stopped", "err", err)
	}
	logOut.Infow("landing stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config, logOut *zap.SugaredLogger) error {
	//
	// ── 1.  Secrets ─────────────────────────────────────────────────────
	//
	if config.HasSecretRefs(cfg) {
		vc, err := vault.New(ctx, logOut)
		if err != nil {
			return err
		}
		if err := config.ResolveSecrets(ctx, cfg, vc); err != nil {
			return err
		}
		logOut.Infow("vault secrets resolved")
	}

	//
	// ── 2.  Database (optional) ─────────────────────────────────────────
	//
	var db *sqlx.DB
	if cfg.Database.DSN != "" {
		var err error
		logOut.Infow("connecting to database")
		db, err = database.Open(ctx, database.Options{DSN: cfg.Database.DSN, Password: cfg.Database.Password})
		if err != nil {
			return err
		}
		defer db.Close()

		for _, c := range component.All() {
			for _, stmt := range c.Migrations() {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migrate %s: %w", c.Name(), err)
				}
			}
		}
		logOut.Infow("database online")
	}

	//
	// ── 3.  Shared services ─────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		logOut.Warnw("geoip disabled", "path", cfg.Geo.DBPath, "err", err)
	}
	defer requestinfo.CloseGeo()

	exec := &form.Executor{Actions: cfg.Actions}
	if db != nil {
		exec.Store = store.New(db)
	}

	var queue *message.Queue
	if cfg.Relay.URL != "" {
		queue = message.NewQueue(message.Options{
			URL:          cfg.Relay.URL,
			Headers:      cfg.Relay.Headers,
			RetryMax:     cfg.Relay.RetryMax,
			RetryWaitMin: cfg.Relay.RetryWaitMin,
			RetryWaitMax: cfg.Relay.RetryWaitMax,
			QueueSize:    cfg.Relay.QueueSize,
			Workers:      cfg.Relay.Workers,
			Log:          logOut.Named("relay"),
		})
		exec.Relay = queue
	}

	views, err := view.New(web.FS, cfg.Paths.Root)
	if err != nil {
		return err
	}

	deps := component.Deps{
		Config:   cfg,
		DB:       db,
		View:     views,
		Signer:   form.NewSigner(cfg.Security.FormSecret),
		Executor: exec,
		Log:      logOut,
	}

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(middleware.Security(cfg.Contact.Endpoint))
	r.Use(requestinfo.Enrich)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(db))

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return err
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	for _, c := range component.All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("init %s: %w", c.Name(), err)
		}
		r.Mount("/", c.Routes())
		logOut.Infow("component mounted", "name", c.Name())
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP, r)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if queue != nil {
		g.Go(func() error { return queue.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logOut.Infow("shutting down")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// healthz answers 200 when the process (and database, if any) is reachable.
func healthz(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.FromContext(r.Context()).Warnw("healthz db ping failed", "err", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}
}
