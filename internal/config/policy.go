package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const (
	defaultRequestTitle   = "Login authentication"
	defaultRequestMessage = "Proceed with login as user %user%?"
	defaultRequestTTL     = 300
)

// PolicySettings is the effective operator policy: how authentication
// requests are presented and whether self-service onboarding edits are
// allowed.
type PolicySettings struct {
	RequestTitle      string
	RequestMessage    string
	RequestTTL        int
	EnableSelfService bool
}

// policyFile is the YAML shape of the policy file. Pointer fields
// distinguish "absent" from zero values so partial files only override
// what they mention.
type policyFile struct {
	RequestTitle      *string `yaml:"request_title"`
	RequestMessage    *string `yaml:"request_message"`
	RequestTTL        *int    `yaml:"request_ttl"`
	EnableSelfService *bool   `yaml:"enable_self_service"`
}

// Policy serves the current policy settings and reloads them when the
// backing file changes. With no file configured it serves defaults
// merged with the environment's self-service flag.
type Policy struct {
	path   string
	base   PolicySettings
	logger *slog.Logger

	mu      sync.RWMutex
	current PolicySettings
}

// NewPolicy builds a Policy from the environment config and performs
// the initial load. A missing policy file is an error only when one
// was explicitly configured.
func NewPolicy(cfg *Config, logger *slog.Logger) (*Policy, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Policy{
		path: cfg.PolicyFile,
		base: PolicySettings{
			RequestTitle:      defaultRequestTitle,
			RequestMessage:    defaultRequestMessage,
			RequestTTL:        defaultRequestTTL,
			EnableSelfService: cfg.EnableSelfService,
		},
		logger: logger,
	}

	if err := p.reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Settings returns a snapshot of the current policy.
func (p *Policy) Settings() PolicySettings {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.current
}

// reload re-reads the policy file and swaps in the merged settings.
func (p *Policy) reload() error {
	settings := p.base

	if p.path != "" {
		data, err := os.ReadFile(p.path)
		if err != nil {
			return fmt.Errorf("reading policy file: %w", err)
		}

		var pf policyFile
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return fmt.Errorf("parsing policy file: %w", err)
		}

		if pf.RequestTitle != nil {
			settings.RequestTitle = *pf.RequestTitle
		}

		if pf.RequestMessage != nil {
			settings.RequestMessage = *pf.RequestMessage
		}

		if pf.RequestTTL != nil {
			settings.RequestTTL = *pf.RequestTTL
		}

		if pf.EnableSelfService != nil {
			settings.EnableSelfService = *pf.EnableSelfService
		}
	}

	p.mu.Lock()
	p.current = settings
	p.mu.Unlock()

	return nil
}

// Watch monitors the policy file for changes and reloads it. Blocks
// until the context is cancelled. A no-op (nil return) when no policy
// file is configured. The watch is on the containing directory because
// editors typically replace the file rather than write it in place.
func (p *Policy) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("watching policy directory: %w", err)
	}

	target := filepath.Clean(p.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("fsnotify events channel closed")
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := p.reload(); err != nil {
				// Keep serving the last good policy.
				p.logger.Warn("policy reload failed",
					slog.String("path", p.path),
					slog.String("error", err.Error()),
				)

				continue
			}

			p.logger.Info("policy reloaded", slog.String("path", p.path))

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("fsnotify errors channel closed")
			}

			p.logger.Warn("policy watcher error", slog.String("error", err.Error()))
		}
	}
}
