// Command traceid-demo runs a small HTTP service demonstrating trace-ID
// resolution, context binding, log annotation, and downstream propagation.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/traceid"
	"github.com/dmitrymomot/traceid/logger"
)

type config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	TraceID         traceid.Config
}

func main() {
	// The .env file is optional.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithService("traceid-demo"),
		logger.WithLevel(cfg.LogLevel),
	)
	logger.SetAsDefault(log)

	client := &http.Client{Transport: traceid.NewTransport(nil)}

	r := chi.NewRouter()
	r.Use(traceid.NewFromConfig(cfg.TraceID))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		id := traceid.FromContext(r.Context())
		log.InfoContext(r.Context(), "handling request")
		_, _ = w.Write([]byte("your trace id is " + id.String() + "\n"))
	})
	r.Get("/proxy", func(w http.ResponseWriter, r *http.Request) {
		// The outbound call carries the same x-trace-id header.
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, "http://"+r.Host+"/", nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp, err := client.Do(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		_, _ = w.Write([]byte("downstream saw " + resp.Header.Get(traceid.Header) + "\n"))
	})

	if err := run(log, cfg, r); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg config, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
