// Package session drives the lifecycle of one push authentication
// request: creation at the start of a login attempt, status polling
// until a terminal state, and the final credential validation.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notakey/pushmfa/internal/nas"
)

// Status is the numeric contract with the host's polling script.
// The values are fixed wire codes, not an internal enum.
type Status int

const (
	StatusNone     Status = 0
	StatusPending  Status = 1
	StatusExpired  Status = 2
	StatusApproved Status = 3
	StatusDenied   Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusExpired:
		return "expired"
	case StatusApproved:
		return "approved"
	case StatusDenied:
		return "denied"
	default:
		return "none"
	}
}

// Settings is the presentation of new authentication requests. The
// %user% placeholder in MessageTemplate is replaced with the username.
type Settings struct {
	Title           string
	MessageTemplate string
	TTLSeconds      int
}

// API is the slice of the NAS client the session needs.
type API interface {
	CreateAuthRequest(ctx context.Context, in nas.AuthRequestInput) (*nas.AuthRequest, error)
	AuthRequestStatus(ctx context.Context, uuid string) (*nas.AuthRequest, error)
}

// Session creates and inspects push authentication requests. Settings
// are read through a function so policy reloads take effect without
// reconstruction.
type Session struct {
	api      API
	settings func() Settings
	logger   *slog.Logger
}

// New creates a Session. A nil settings function gets empty settings;
// a nil logger gets slog.Default().
func New(api API, settings func() Settings, logger *slog.Logger) *Session {
	if settings == nil {
		settings = func() Settings { return Settings{} }
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Session{api: api, settings: settings, logger: logger}
}

// Create issues a push authentication request for the user and returns
// the request UUID. Failures propagate: the host must not start a
// polling loop against a request that was never created.
func (s *Session) Create(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username is required")
	}

	st := s.settings()

	ar, err := s.api.CreateAuthRequest(ctx, nas.AuthRequestInput{
		Username:    username,
		Action:      st.Title,
		Description: strings.ReplaceAll(st.MessageTemplate, "%user%", username),
		TTLSeconds:  st.TTLSeconds,
	})
	if err != nil {
		return "", fmt.Errorf("creating auth request: %w", err)
	}

	if ar.UUID == "" {
		return "", fmt.Errorf("auth request response missing uuid")
	}

	s.logger.Info("auth request created",
		slog.String("username", username),
		slog.String("uuid", ar.UUID),
	)

	return ar.UUID, nil
}

// Status maps the remote request state to the polling code. An empty
// uuid answers 0 without a network call. Fetch failures also answer 0:
// the poller is a best-effort probe and must not crash the login page,
// but the cause is logged for operators. The expired flag wins over
// any response kind.
func (s *Session) Status(ctx context.Context, uuid string) Status {
	if uuid == "" {
		return StatusNone
	}

	ar, err := s.api.AuthRequestStatus(ctx, uuid)
	if err != nil || ar == nil {
		if err != nil {
			s.logger.Warn("auth status fetch failed",
				slog.String("uuid", uuid),
				slog.String("error", err.Error()),
			)
		}

		return StatusNone
	}

	switch {
	case ar.Expired:
		return StatusExpired
	case ar.ResponseType == nas.ResponseDeny:
		return StatusDenied
	case ar.ResponseType == nas.ResponseApprove:
		return StatusApproved
	}

	return StatusPending
}

// IsAuthenticated is the credential check at submission time: true only
// when the request was approved and the username on the remote request
// matches the requesting user exactly. Any fetch error answers false
// rather than failing the login attempt.
func (s *Session) IsAuthenticated(ctx context.Context, username, uuid string) bool {
	if username == "" || uuid == "" {
		return false
	}

	ar, err := s.api.AuthRequestStatus(ctx, uuid)
	if err != nil || ar == nil {
		if err != nil {
			s.logger.Warn("auth validation fetch failed",
				slog.String("uuid", uuid),
				slog.String("error", err.Error()),
			)
		}

		return false
	}

	return ar.ResponseType == nas.ResponseApprove && ar.Username == username
}
