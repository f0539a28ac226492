// Package vault retrieves archive passwords from a HashiCorp Vault KV v2
// secrets engine.
package vault

import (
	"context"
	"fmt"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/secret"
	vaultapi "github.com/hashicorp/vault/api"
	"github.com/rs/zerolog"
)

const defaultField = "password"

// Impl retrieves secrets from Vault. It holds no session state, so its
// cleanup is always a no-op.
type Impl struct {
	api    *vaultapi.Client
	cfg    models.VaultSettings
	logger zerolog.Logger
}

// New creates a new Vault provider. Address and token fall back to the
// standard VAULT_ADDR and VAULT_TOKEN environment variables.
func New(logger zerolog.Logger, cfg models.VaultSettings) (*Impl, error) {
	apiCfg := vaultapi.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}

	api, err := vaultapi.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("creating vault client: %w", err)
	}
	if cfg.Token != "" {
		api.SetToken(cfg.Token)
	}

	return &Impl{api: api, cfg: cfg, logger: logger}, nil
}

// NewWithClient creates a Vault provider around an existing API client (for testing).
func NewWithClient(logger zerolog.Logger, cfg models.VaultSettings, api *vaultapi.Client) *Impl {
	return &Impl{api: api, cfg: cfg, logger: logger}
}

// Name identifies this provider in config and error messages.
func (s *Impl) Name() string { return "vault" }

// Fetch implements secret.Provider. The item selector overrides the
// configured path when given; the mount always comes from config. Vault never
// prompts, so nonInteractive changes nothing here.
func (s *Impl) Fetch(ctx context.Context, item string, nonInteractive bool) (*secret.Secret, secret.CleanupFunc, error) {
	path := s.cfg.Path
	if item != "" {
		path = item
	}
	if path == "" {
		return nil, secret.NopCleanup, fmt.Errorf("no vault secret path configured")
	}

	mount := s.cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	field := s.cfg.Field
	if field == "" {
		field = defaultField
	}

	fullPath := fmt.Sprintf("%s/data/%s", mount, path)
	s.logger.Debug().Str("path", fullPath).Str("field", field).Msg("reading vault secret")

	read, err := s.api.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		return nil, secret.NopCleanup, fmt.Errorf("retrieving secret %q: %w", path, err)
	}
	if read == nil {
		return nil, secret.NopCleanup, fmt.Errorf("retrieving secret %q: no data at path", path)
	}

	// KV v2 nests the payload under "data".
	data, ok := read.Data["data"].(map[string]any)
	if !ok {
		return nil, secret.NopCleanup, fmt.Errorf("retrieving secret %q: unexpected response shape", path)
	}

	value, ok := data[field].(string)
	if !ok || value == "" {
		return nil, secret.NopCleanup, fmt.Errorf("retrieving secret %q: field %q empty or missing", path, field)
	}

	return secret.New(value), secret.NopCleanup, nil
}
