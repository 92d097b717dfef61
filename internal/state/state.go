// Package state persists the daemon's durable data in a bbolt
// database: cached bearer tokens per scope and per-user onboarding
// records.
package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/notakey/pushmfa/internal/onboarding"
	bolt "go.etcd.io/bbolt"
)

const (
	// stateDirPerm is the permission mode for the state directory (~/.pushmfa/).
	stateDirPerm = fs.FileMode(0o700)

	// stateFilePerm is the permission mode for the state database file.
	stateFilePerm = fs.FileMode(0o600)

	// stateOpenTimeout is the maximum time to wait for the bolt database lock.
	stateOpenTimeout = 5 * time.Second
)

var (
	tokensBucket     = []byte("tokens")
	onboardingBucket = []byte("onboarding")
)

// scopeKey returns the SHA-256 hex digest of a scope string. Used as
// the bbolt key: scope strings contain spaces and colons, and the
// digest keeps distinct scope strings distinct without normalizing
// them.
func scopeKey(scope string) []byte {
	h := sha256.Sum256([]byte(scope))
	dst := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(dst, h[:])

	return dst
}

// State wraps a bbolt database for all persistent daemon state.
type State struct {
	db *bolt.DB
}

// DefaultPath returns ~/.pushmfa/state.db.
func DefaultPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(dir, ".pushmfa", "state.db"), nil
}

// Load opens the state database at the given path, creating it and its
// parent directory if they do not exist. Buckets are created on open.
func Load(path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(path, stateFilePerm, &bolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(tokensBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(onboardingBucket)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &State{db: db}, nil
}

// Close closes the database.
func (s *State) Close() error {
	return s.db.Close()
}

// FetchToken returns the cached bearer token for a scope, or empty
// string when none is cached.
func (s *State) FetchToken(_ context.Context, scope string) (string, error) {
	var token string

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(tokensBucket).Get(scopeKey(scope))
		if v != nil {
			token = string(v)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}

	return token, nil
}

// StoreToken persists the bearer token for a scope.
func (s *State) StoreToken(_ context.Context, scope, token string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucket).Put(scopeKey(scope), []byte(token))
	})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	return nil
}

// ClearToken removes the cached bearer token for a scope.
func (s *State) ClearToken(_ context.Context, scope string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(tokensBucket).Delete(scopeKey(scope))
	})
	if err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}

	return nil
}

// Record returns the onboarding record for a user, or nil if none exists.
func (s *State) Record(username string) (*onboarding.Record, error) {
	var rec *onboarding.Record

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(onboardingBucket).Get([]byte(username))
		if v == nil {
			return nil
		}

		rec = &onboarding.Record{}

		return json.Unmarshal(v, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("reading onboarding record: %w", err)
	}

	return rec, nil
}

// SetRecord persists the onboarding record for a user.
func (s *State) SetRecord(username string, rec onboarding.Record) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		return tx.Bucket(onboardingBucket).Put([]byte(username), data)
	})
	if err != nil {
		return fmt.Errorf("storing onboarding record: %w", err)
	}

	return nil
}

// DeleteRecord removes the onboarding record for a user.
func (s *State) DeleteRecord(username string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(onboardingBucket).Delete([]byte(username))
	})
	if err != nil {
		return fmt.Errorf("deleting onboarding record: %w", err)
	}

	return nil
}
