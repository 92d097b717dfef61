// Package server provides the inbound HTTP API the host platform
// calls during login and account management.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/notakey/pushmfa/internal/onboarding"
	"github.com/notakey/pushmfa/internal/session"
)

// Sessions is the slice of the session layer the handlers need.
type Sessions interface {
	Create(ctx context.Context, username string) (string, error)
	Status(ctx context.Context, uuid string) session.Status
	IsAuthenticated(ctx context.Context, username, uuid string) bool
}

// Onboarding is the slice of the onboarding manager the handlers need.
type Onboarding interface {
	Overview(ctx context.Context, username string) (*onboarding.Overview, error)
	Apply(ctx context.Context, action onboarding.Action, p onboarding.Profile) error
	IsAvailableForUser(ctx context.Context, username string) bool
	DeleteUser(ctx context.Context, username string) (bool, error)
}

// MuxConfig holds dependencies for building the HTTP mux.
type MuxConfig struct {
	Sessions   Sessions
	Onboarding Onboarding
	KeyHash    string
	Logger     *slog.Logger
}

// NewMux builds the HTTP mux. Everything under /api/ requires the host
// API key; /healthz does not.
func NewMux(cfg MuxConfig) *http.ServeMux {
	h := &handlers{
		sessions:   cfg.Sessions,
		onboarding: cfg.Onboarding,
		logger:     cfg.Logger,
	}

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/auth", h.createAuth)
	api.HandleFunc("GET /api/v1/auth/{uuid}/status", h.authStatus)
	api.HandleFunc("POST /api/v1/auth/validate", h.validateAuth)
	api.HandleFunc("GET /api/v1/users/{username}/onboarding", h.onboardingOverview)
	api.HandleFunc("POST /api/v1/users/{username}/onboarding", h.onboardingApply)
	api.HandleFunc("GET /api/v1/users/{username}/available", h.userAvailable)
	api.HandleFunc("DELETE /api/v1/users/{username}", h.deleteUser)

	mux := http.NewServeMux()
	mux.Handle("/api/", Middleware(cfg.KeyHash, cfg.Logger)(api))
	mux.HandleFunc("GET /healthz", h.healthz)

	return mux
}
