// Package onboarding tracks per-user device onboarding against the
// NAS. The locally persisted status is advisory; the remote facts
// (user existence, free device seats) always win when computing the
// effective status.
package onboarding

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/notakey/pushmfa/internal/nas"
)

// Status of a user's onboarding.
type Status int

const (
	// StatusNone: the user is unknown remotely or onboarding was
	// never started (or was reset).
	StatusNone Status = iota

	// StatusStarted: a device seat is free and provisioning is in
	// progress.
	StatusStarted

	// StatusDone: the user exists remotely with no free seat, i.e.
	// fully enrolled.
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusDone:
		return "done"
	default:
		return "none"
	}
}

// Record is the locally persisted onboarding state for one user.
type Record struct {
	Status Status `json:"status"`
	Secret string `json:"secret"`
	Phone  string `json:"phone"`
}

// Store persists onboarding records keyed by username. Record returns
// nil for users with no record yet.
type Store interface {
	Record(username string) (*Record, error)
	SetRecord(username string, r Record) error
	DeleteRecord(username string) error
}

// API is the slice of the NAS client the manager needs.
type API interface {
	GetUser(ctx context.Context, username string) (*nas.User, error)
	SyncUser(ctx context.Context, username string, data nas.UserData) (*nas.User, error)
	DeleteUser(ctx context.Context, username string) (bool, error)
	ResetUserDevices(ctx context.Context, username string) (bool, error)
	CanBeOnboarded(ctx context.Context, username string) (bool, error)
	UserDevices(ctx context.Context, keyname string) ([]nas.Device, error)
	Service(ctx context.Context) (*nas.Service, error)
	OnboardingQR() string
}

// Action is an explicit onboarding mutation requested by the host.
type Action int

const (
	ActionStart Action = iota
	ActionUpdate
	ActionReset
)

// ParseAction maps the wire form of an action to its enum value.
func ParseAction(s string) (Action, error) {
	switch s {
	case "start":
		return ActionStart, nil
	case "update":
		return ActionUpdate, nil
	case "reset":
		return ActionReset, nil
	}

	return 0, fmt.Errorf("unknown onboarding action %q", s)
}

// Profile is the host's view of a user, pushed to the NAS on start
// and update. Secret is an optional self-service override of the
// provisioning password.
type Profile struct {
	Username string
	FullName string
	Email    string
	Phone    string
	Groups   []string
	Secret   string
}

// Requirements describes what the service demands during onboarding.
type Requirements struct {
	NeedsPassword bool `json:"needs_password"`
	NeedsPhone    bool `json:"needs_phone"`
}

// Overview is the full onboarding picture for one user, shaped for
// the host's profile UI.
type Overview struct {
	Status       Status       `json:"status"`
	QR           string       `json:"qr,omitempty"`
	Requirements Requirements `json:"requirements"`
	Secret       string       `json:"secret,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Devices      []nas.Device `json:"devices,omitempty"`
}

// Config holds dependencies for constructing a Manager.
type Config struct {
	API    API
	Store  Store
	Logger *slog.Logger

	// Ready reports whether the remote configuration is complete.
	// Nil means always ready.
	Ready func() bool

	// SelfService reports whether users may supply their own phone
	// number and provisioning secret. Nil means disabled.
	SelfService func() bool
}

// Manager drives the onboarding state machine for all users.
type Manager struct {
	api         API
	store       Store
	logger      *slog.Logger
	ready       func() bool
	selfService func() bool
}

// NewManager creates a Manager from its dependencies.
func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ready := cfg.Ready
	if ready == nil {
		ready = func() bool { return true }
	}

	selfService := cfg.SelfService
	if selfService == nil {
		selfService = func() bool { return false }
	}

	return &Manager{
		api:         cfg.API,
		store:       cfg.Store,
		logger:      logger,
		ready:       ready,
		selfService: selfService,
	}
}

// EffectiveStatus recomputes a user's onboarding status from remote
// state first. The local record only decides between None and Started
// while a device seat is still free; a full seat count means Done no
// matter what the local record says.
func (m *Manager) EffectiveStatus(ctx context.Context, username string) (Status, error) {
	user, err := m.api.GetUser(ctx, username)
	if err != nil {
		return StatusNone, fmt.Errorf("fetching remote user: %w", err)
	}

	if user == nil {
		return StatusNone, nil
	}

	free, err := m.api.CanBeOnboarded(ctx, username)
	if err != nil {
		return StatusNone, fmt.Errorf("checking device seats: %w", err)
	}

	if !free {
		return StatusDone, nil
	}

	rec, err := m.store.Record(username)
	if err != nil {
		return StatusNone, fmt.Errorf("reading onboarding record: %w", err)
	}

	if rec == nil {
		// Remote user exists but nothing recorded locally yet:
		// provisioning happened out of band, treat as in progress.
		return StatusStarted, nil
	}

	return rec.Status, nil
}

// Apply dispatches an explicit onboarding action.
func (m *Manager) Apply(ctx context.Context, action Action, p Profile) error {
	switch action {
	case ActionStart:
		return m.Start(ctx, p)
	case ActionUpdate:
		return m.Update(ctx, p)
	case ActionReset:
		return m.Reset(ctx, p.Username)
	}

	return fmt.Errorf("unknown onboarding action %d", action)
}

// Start begins onboarding: rotates the provisioning secret, pushes the
// user to the NAS, and records Started locally once that succeeds.
func (m *Manager) Start(ctx context.Context, p Profile) error {
	rec, err := m.store.Record(p.Username)
	if err != nil {
		return fmt.Errorf("reading onboarding record: %w", err)
	}

	if rec == nil {
		rec = &Record{}
	}

	rec.Secret = generateSecret()
	if p.Phone != "" {
		rec.Phone = p.Phone
	}

	return m.push(ctx, p, rec)
}

// Update re-pushes the user with the existing provisioning secret,
// applying self-service phone and secret edits when permitted.
func (m *Manager) Update(ctx context.Context, p Profile) error {
	rec, err := m.store.Record(p.Username)
	if err != nil {
		return fmt.Errorf("reading onboarding record: %w", err)
	}

	if rec == nil {
		rec = &Record{}
	}

	if rec.Secret == "" {
		rec.Secret = generateSecret()
	}

	if m.selfService() {
		if p.Secret != "" {
			rec.Secret = p.Secret
		}

		if p.Phone != "" {
			rec.Phone = p.Phone
		}
	}

	return m.push(ctx, p, rec)
}

// push performs the remote half of start/update and persists the local
// record only when the remote call succeeded, so a failed sync never
// leaves the local status ahead of the remote one.
func (m *Manager) push(ctx context.Context, p Profile, rec *Record) error {
	data := nas.UserData{
		Username:        p.Username,
		Password:        rec.Secret,
		FullName:        p.FullName,
		Email:           p.Email,
		MainPhoneNumber: rec.Phone,
		Groups:          p.Groups,
	}

	if _, err := m.api.SyncUser(ctx, p.Username, data); err != nil {
		return fmt.Errorf("syncing remote user: %w", err)
	}

	rec.Status = StatusStarted

	if err := m.store.SetRecord(p.Username, *rec); err != nil {
		return fmt.Errorf("persisting onboarding record: %w", err)
	}

	return nil
}

// Reset removes all remote devices and, once that succeeds, records
// None locally so the user can be onboarded again.
func (m *Manager) Reset(ctx context.Context, username string) error {
	if _, err := m.api.ResetUserDevices(ctx, username); err != nil {
		return fmt.Errorf("removing remote devices: %w", err)
	}

	rec, err := m.store.Record(username)
	if err != nil {
		return fmt.Errorf("reading onboarding record: %w", err)
	}

	if rec == nil {
		rec = &Record{}
	}

	rec.Status = StatusNone

	if err := m.store.SetRecord(username, *rec); err != nil {
		return fmt.Errorf("persisting onboarding record: %w", err)
	}

	return nil
}

// IsAvailableForUser reports whether this factor can be offered to the
// user at login. Any local record beyond None answers immediately;
// otherwise a live existence check covers users provisioned before any
// local state existed. Remote errors make the factor unavailable
// rather than failing the login flow.
func (m *Manager) IsAvailableForUser(ctx context.Context, username string) bool {
	if !m.ready() {
		return false
	}

	rec, err := m.store.Record(username)
	if err != nil {
		m.logger.Warn("onboarding record read failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	if rec != nil && rec.Status != StatusNone {
		return true
	}

	exists, err := m.api.GetUser(ctx, username)
	if err != nil {
		m.logger.Warn("remote user query failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)

		return false
	}

	return exists != nil
}

// Requirements fetches the service descriptor and reduces its
// onboarding requirements to the two inputs the host can collect.
// Requirement kinds are matched against proof_creation_uri because
// older servers do not populate the type field.
func (m *Manager) Requirements(ctx context.Context) (Requirements, error) {
	svc, err := m.api.Service(ctx)
	if err != nil {
		return Requirements{}, fmt.Errorf("fetching service descriptor: %w", err)
	}

	var r Requirements

	for _, or := range svc.OnboardingRequirements {
		if strings.Contains(or.ProofCreationURI, "UserpassOnboardingRequirement") {
			r.NeedsPassword = true
		}

		if strings.Contains(or.ProofCreationURI, "SmsOnboardingRequirement") {
			r.NeedsPhone = true
		}
	}

	return r, nil
}

// Devices lists the user's enrolled devices, or nil when the user does
// not exist remotely.
func (m *Manager) Devices(ctx context.Context, username string) ([]nas.Device, error) {
	user, err := m.api.GetUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetching remote user: %w", err)
	}

	if user == nil {
		return nil, nil
	}

	return m.api.UserDevices(ctx, user.Keyname)
}

// Overview assembles the status-dependent onboarding picture: the QR
// payload, requirements, and provisioning details while Started, the
// enrolled device list once Done.
func (m *Manager) Overview(ctx context.Context, username string) (*Overview, error) {
	status, err := m.EffectiveStatus(ctx, username)
	if err != nil {
		return nil, err
	}

	ov := &Overview{Status: status}

	switch status {
	case StatusStarted:
		ov.QR = m.api.OnboardingQR()

		req, err := m.Requirements(ctx)
		if err != nil {
			return nil, err
		}
		ov.Requirements = req

		rec, err := m.store.Record(username)
		if err != nil {
			return nil, fmt.Errorf("reading onboarding record: %w", err)
		}

		if rec != nil {
			if req.NeedsPassword {
				ov.Secret = rec.Secret
			}

			if req.NeedsPhone {
				ov.Phone = rec.Phone
			}
		}

	case StatusDone:
		devices, err := m.Devices(ctx, username)
		if err != nil {
			return nil, err
		}
		ov.Devices = devices
	}

	return ov, nil
}

// DeleteUser removes the user from the NAS and drops the local record.
// Called when the host deletes the account.
func (m *Manager) DeleteUser(ctx context.Context, username string) (bool, error) {
	deleted, err := m.api.DeleteUser(ctx, username)
	if err != nil {
		return false, fmt.Errorf("deleting remote user: %w", err)
	}

	if err := m.store.DeleteRecord(username); err != nil {
		return deleted, fmt.Errorf("deleting onboarding record: %w", err)
	}

	return deleted, nil
}

const (
	secretLength  = 10
	secretCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"
)

// generateSecret returns a provisioning password the user types into
// the authenticator app during onboarding.
func generateSecret() string {
	max := big.NewInt(int64(len(secretCharset)))

	b := make([]byte, secretLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}

		b[i] = secretCharset[n.Int64()]
	}

	return string(b)
}
