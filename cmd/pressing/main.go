package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/pressing/internal/api"
	"github.com/erazemk/pressing/internal/config"
	"github.com/erazemk/pressing/internal/kv"
	"github.com/erazemk/pressing/internal/model"
	"github.com/erazemk/pressing/internal/store"
)

func main() {
	fs := flag.NewFlagSet("pressing", flag.ContinueOnError)

	var configPath, envPath, dbPath, addr, redisURL, logPath string
	var verbose bool
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")
	fs.StringVar(&envPath, "env", ".env", "")
	fs.StringVar(&envPath, "e", ".env", "")
	fs.StringVar(&dbPath, "db", "", "")
	fs.StringVar(&dbPath, "d", "", "")
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")
	fs.StringVar(&redisURL, "redis", "", "")
	fs.StringVar(&redisURL, "r", "", "")
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")
	fs.BoolVar(&verbose, "v", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: pressing [flags]

Flags:
  -c, -config <path>      YAML config file (default: none)
  -e, -env <path>         .env file, ignored if missing (default: .env)
  -d, -db <path>          SQLite database path (default: pressing.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -r, -redis <url>        use Redis at url instead of SQLite
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -v                      debug logging
  -h, -help               show this help and exit

Settings can also be given as PRESSING_* environment variables.
Flags take precedence over the config file and the environment.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath, envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if logPath != "" {
		cfg.LogFile = logPath
	}

	closeLog, err := setupLogger(cfg.LogFile, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx := context.Background()

	backing, err := kv.Open(ctx, cfg.Database, cfg.RedisURL, cfg.RedisNamespace)
	if err != nil {
		slog.Error("failed to open backing store", "error", err)
		os.Exit(1)
	}
	defer backing.Close()

	if cfg.RedisURL != "" {
		slog.Info("backing store ready", "kind", "redis", "namespace", cfg.RedisNamespace)
	} else {
		slog.Info("backing store ready", "kind", "sqlite", "path", cfg.Database)
	}

	items := store.NewItems(backing)
	items.PromiseDays = cfg.PromiseDays

	catalog := store.NewCatalog(backing)
	catalog.Subscribe(func(types []model.ClothingType) {
		slog.Debug("garment types changed", "count", len(types))
	})
	if err := catalog.Load(ctx); err != nil {
		slog.Error("failed to load garment types", "error", err)
		os.Exit(1)
	}

	suggester := &store.Suggester{Items: items, Suggestions: cfg.StorageSuggestions}

	handler := api.LoggingMiddleware(api.NewRouter(items, catalog, suggester))
	if cfg.RateLimit > 0 {
		handler = api.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware(handler)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "promise_days", cfg.PromiseDays)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing backing store")
}
