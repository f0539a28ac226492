// Package bitwarden acquires archive passwords from the Bitwarden CLI,
// unlocking or logging in as needed and undoing exactly those actions
// afterwards.
package bitwarden

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/secret"
	"github.com/arolfes/backsnap/internal/services/executor"
	"github.com/rs/zerolog"
)

// sessionEnv is the environment variable the bw CLI reads its session token
// from. Its prior value is captured before acquisition and restored by
// Cleanup on every exit path.
const sessionEnv = "BW_SESSION"

// Vault states reported by "bw status".
const (
	statusUnlocked        = "unlocked"
	statusLocked          = "locked"
	statusUnauthenticated = "unauthenticated"
)

// Service defines the interface for Bitwarden secret operations.
type Service interface {
	Acquire(ctx context.Context, item string, nonInteractive bool) (*secret.Secret, *models.SessionAdjustment, error)
	Cleanup(ctx context.Context, adj *models.SessionAdjustment)
}

// Impl implements the Service interface over the external bw binary.
type Impl struct {
	executor executor.CommandExecutor
	cfg      models.BitwardenSettings
	logger   zerolog.Logger
}

// New creates a new Bitwarden service.
func New(logger zerolog.Logger, cfg models.BitwardenSettings) *Impl {
	return &Impl{
		executor: &executor.Default{},
		cfg:      cfg,
		logger:   logger,
	}
}

// NewWithExecutor creates a new Bitwarden service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, cfg models.BitwardenSettings, exec executor.CommandExecutor) *Impl {
	return &Impl{
		executor: exec,
		cfg:      cfg,
		logger:   logger,
	}
}

// Name identifies this provider in config and error messages.
func (s *Impl) Name() string { return "bitwarden" }

// Fetch implements secret.Provider. The returned cleanup reverses the session
// adjustment recorded during acquisition.
func (s *Impl) Fetch(ctx context.Context, item string, nonInteractive bool) (*secret.Secret, secret.CleanupFunc, error) {
	sec, adj, err := s.Acquire(ctx, item, nonInteractive)
	if err != nil {
		// Acquisition already restored whatever it changed.
		return nil, secret.NopCleanup, err
	}
	return sec, func(ctx context.Context) { s.Cleanup(ctx, adj) }, nil
}

// Acquire obtains the password stored under item. It brings the vault into a
// usable state first: an injected session token is used as-is, otherwise the
// vault status decides whether an unlock or a full login is needed. The
// returned SessionAdjustment records exactly what was changed; pass it to
// Cleanup once the secret is no longer needed.
func (s *Impl) Acquire(ctx context.Context, item string, nonInteractive bool) (*secret.Secret, *models.SessionAdjustment, error) {
	if item == "" {
		item = s.cfg.Item
	}
	if item == "" {
		return nil, nil, fmt.Errorf("no bitwarden item configured")
	}

	adj := &models.SessionAdjustment{}
	adj.PrevSession, adj.PrevSessionSet = os.LookupEnv(sessionEnv)

	token, err := s.ensureUsable(ctx, adj, nonInteractive)
	if err != nil {
		s.Cleanup(ctx, adj)
		return nil, nil, err
	}

	if token != "" {
		if err := os.Setenv(sessionEnv, token); err != nil {
			s.Cleanup(ctx, adj)
			return nil, nil, fmt.Errorf("setting session environment: %w", err)
		}
	}

	sec, err := s.getPassword(ctx, item, token)
	if err != nil {
		s.Cleanup(ctx, adj)
		return nil, nil, err
	}

	return sec, adj, nil
}

// ensureUsable walks the vault into an unlocked state and returns the session
// token to use, recording every action taken in adj. An empty token with a
// nil error means the ambient session is already usable.
func (s *Impl) ensureUsable(ctx context.Context, adj *models.SessionAdjustment, nonInteractive bool) (string, error) {
	if s.cfg.Session != "" {
		adj.UsedInjectedToken = true
		s.logger.Debug().Msg("using injected session token")
		return s.cfg.Session, nil
	}

	status, err := s.status(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not determine vault status, attempting unlock")
		status = ""
	}

	switch status {
	case statusUnlocked:
		s.logger.Debug().Msg("vault already unlocked")
		return "", nil
	case statusLocked:
		token, err := s.unlock(ctx, nonInteractive)
		if err != nil {
			return "", err
		}
		adj.DidUnlock = true
		return token, nil
	case statusUnauthenticated:
		if err := s.login(ctx, nonInteractive); err != nil {
			return "", err
		}
		adj.DidLogin = true
		token, err := s.unlock(ctx, nonInteractive)
		if err != nil {
			return "", err
		}
		adj.DidUnlock = true
		return token, nil
	default:
		// Unknown status: unlock is the best-effort fallback, and its
		// failure is fatal.
		token, err := s.unlock(ctx, nonInteractive)
		if err != nil {
			return "", fmt.Errorf("vault status %q: %w", status, err)
		}
		adj.DidUnlock = true
		return token, nil
	}
}

// Cleanup reverses exactly the actions recorded in adj: a login implies a
// logout, otherwise an unlock implies a lock, and an injected token implies
// neither since the caller owns that session. The prior session environment
// value is restored verbatim or cleared. Failures are warnings only and never
// mask the outcome of the backup itself.
func (s *Impl) Cleanup(ctx context.Context, adj *models.SessionAdjustment) {
	if adj == nil {
		return
	}

	switch {
	case adj.UsedInjectedToken:
		// Caller owns the session lifecycle.
	case adj.DidLogin:
		if output, err := s.executor.Execute(ctx, "bw", "logout"); err != nil {
			s.logger.Warn().Err(err).Str("output", strings.TrimSpace(string(output))).Msg("bitwarden logout failed")
		} else {
			s.logger.Debug().Msg("logged out of bitwarden")
		}
	case adj.DidUnlock:
		if output, err := s.executor.Execute(ctx, "bw", "lock"); err != nil {
			s.logger.Warn().Err(err).Str("output", strings.TrimSpace(string(output))).Msg("bitwarden lock failed")
		} else {
			s.logger.Debug().Msg("locked bitwarden vault")
		}
	}

	var err error
	if adj.PrevSessionSet {
		err = os.Setenv(sessionEnv, adj.PrevSession)
	} else {
		err = os.Unsetenv(sessionEnv)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore session environment")
	}
}

// statusJSON is the shape of "bw status" output.
type statusJSON struct {
	Status string `json:"status"`
}

func (s *Impl) status(ctx context.Context) (string, error) {
	output, err := s.executor.Execute(ctx, "bw", "status")
	if err != nil {
		return "", fmt.Errorf("bw status failed: %w, output: %s", err, string(output))
	}

	var st statusJSON
	if err := json.Unmarshal(output, &st); err != nil {
		return "", fmt.Errorf("parsing bw status: %w", err)
	}
	return st.Status, nil
}

func (s *Impl) unlock(ctx context.Context, nonInteractive bool) (string, error) {
	if nonInteractive {
		return "", fmt.Errorf("vault is locked and non-interactive mode cannot prompt for the master password")
	}

	s.logger.Info().Msg("unlocking bitwarden vault")
	output, err := s.executor.ExecuteInteractive(ctx, nil, "bw", "unlock", "--raw")
	if err != nil {
		return "", fmt.Errorf("bw unlock failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("bw unlock returned no session token")
	}
	return token, nil
}

func (s *Impl) login(ctx context.Context, nonInteractive bool) error {
	if nonInteractive {
		return fmt.Errorf("not logged in to bitwarden and non-interactive mode cannot prompt")
	}

	s.logger.Info().Msg("logging in to bitwarden")
	if _, err := s.executor.ExecuteInteractive(ctx, nil, "bw", "login"); err != nil {
		return fmt.Errorf("bw login failed: %w", err)
	}
	return nil
}

func (s *Impl) getPassword(ctx context.Context, item, token string) (*secret.Secret, error) {
	args := []string{"get", "password", item}
	if token != "" {
		args = append(args, "--session", token)
	}

	output, err := s.executor.Execute(ctx, "bw", args...)
	if err != nil {
		return nil, fmt.Errorf("retrieving secret %q: %w, output: %s", item, err, string(output))
	}

	password := strings.TrimSpace(string(output))
	if password == "" {
		return nil, fmt.Errorf("retrieving secret %q: empty result", item)
	}

	return secret.New(password), nil
}
