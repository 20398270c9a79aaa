package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/blog-api/internal/config"
	"github.com/crucial707/blog-api/internal/scheduler"
	"github.com/go-chi/docgen"
)

var routes = flag.Bool("routes", false, "print the route table as markdown and exit")

func main() {
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	setupLogger(cfg)

	if *routes {
		printRoutes(cfg)
		return
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to storage FIRST
	st, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	handler, err := newRouter(cfg, st)
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	purger := &scheduler.SessionPurger{Store: st.Sessions}
	go func() {
		if err := purger.Run(ctx, cfg.SessionPurgeCron); err != nil {
			slog.Error("session purge disabled", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server LAST
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSCertFile != "", "store", cfg.StoreBackend, "sessions", cfg.SessionBackend)
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			closeStores()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// printRoutes documents the router without touching any backend.
func printRoutes(cfg config.Config) {
	r, err := newRouter(cfg, memoryStores())
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}
	fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
		ProjectPath: "github.com/crucial707/blog-api",
		Intro:       "Routes served by the blog API.",
	}))
}

// setupLogger installs the default slog logger per LOG_FORMAT and LOG_LEVEL.
func setupLogger(cfg config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
