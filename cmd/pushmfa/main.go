package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notakey/pushmfa/internal/config"
	"github.com/notakey/pushmfa/internal/logging"
	"github.com/notakey/pushmfa/internal/nas"
	"github.com/notakey/pushmfa/internal/onboarding"
	"github.com/notakey/pushmfa/internal/server"
	"github.com/notakey/pushmfa/internal/session"
	"github.com/notakey/pushmfa/internal/state"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

var Version = "dev"

func main() {
	// Handle hash-key subcommand before config loading.
	if len(os.Args) > 1 && os.Args[1] == "hash-key" {
		hashKey()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func hashKey() {
	fmt.Fprint(os.Stderr, "Enter API key: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		fmt.Fprintln(os.Stderr, "no input")
		os.Exit(1)
	}
	key := scanner.Text()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	logger.Info("pushmfa starting",
		slog.String("version", Version),
		slog.String("listen", cfg.ListenAddr),
		slog.Bool("nas_configured", cfg.Ready()),
	)

	statePath := cfg.StatePath
	if statePath == "" {
		statePath, err = state.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving state path: %w", err)
		}
	}

	appState, err := state.Load(statePath)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	defer appState.Close()

	var tokens nas.TokenStore = appState
	if cfg.TokenBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		tokens = state.NewRedisTokens(rdb)
		logger.Info("using redis token cache", slog.String("addr", cfg.RedisAddr))
	}

	client := nas.NewClient(nas.ClientConfig{
		BaseURL:       cfg.NasURL,
		ClientID:      cfg.NasClientID,
		ClientSecret:  cfg.NasClientSecret,
		ServiceID:     cfg.NasServiceID,
		ServiceDomain: cfg.NasServiceDomain,
		Store:         tokens,
		Logger:        logger,
	})

	policy, err := config.NewPolicy(cfg, logger)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}

	sessions := session.New(client, func() session.Settings {
		ps := policy.Settings()

		return session.Settings{
			Title:           ps.RequestTitle,
			MessageTemplate: ps.RequestMessage,
			TTLSeconds:      ps.RequestTTL,
		}
	}, logger)

	manager := onboarding.NewManager(onboarding.Config{
		API:         client,
		Store:       appState,
		Logger:      logger,
		Ready:       cfg.Ready,
		SelfService: func() bool { return policy.Settings().EnableSelfService },
	})

	mux := server.NewMux(server.MuxConfig{
		Sessions:   sessions,
		Onboarding: manager,
		KeyHash:    cfg.HostAPIKeyHash,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := policy.Watch(gctx)
		if err != nil && gctx.Err() != nil {
			return nil
		}

		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		logger.Info("listening", slog.String("addr", cfg.ListenAddr))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	return g.Wait()
}
