// Package runner orchestrates the backup workflow.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/naming"
	"github.com/arolfes/backsnap/internal/secret"
	"github.com/arolfes/backsnap/internal/services/archive"
	"github.com/arolfes/backsnap/internal/services/bitwarden"
	"github.com/arolfes/backsnap/internal/services/prompt"
	"github.com/arolfes/backsnap/internal/services/rclone"
	"github.com/arolfes/backsnap/internal/services/vault"
	"github.com/rs/zerolog"
)

// Interactive fallback choices offered when secret retrieval fails.
const (
	choiceRetry     = "Retry with a different item"
	choiceManual    = "Enter the password manually"
	choiceNoEncrypt = "Continue without encryption"
	choiceCancel    = "Cancel the backup"
)

// Service defines the interface for the backup runner.
type Service interface {
	Run(ctx context.Context, settings models.Settings) (string, error)
}

// Impl implements the runner Service interface.
type Impl struct {
	archiveSvc     archive.Service
	rcloneSvc      rclone.Service
	prompter       prompt.Prompter
	providerFor    func(models.Settings) (secret.Provider, error)
	logger         zerolog.Logger
	nonInteractive bool
	tempDir        string
}

// New creates a new runner service.
func New(logger zerolog.Logger, prompter prompt.Prompter, nonInteractive bool) *Impl {
	return &Impl{
		archiveSvc:     archive.New(logger),
		rcloneSvc:      rclone.New(logger),
		prompter:       prompter,
		providerFor:    func(s models.Settings) (secret.Provider, error) { return ProviderFor(logger, s) },
		logger:         logger,
		nonInteractive: nonInteractive,
		tempDir:        os.TempDir(),
	}
}

// NewWithServices creates a new runner service with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	archiveSvc archive.Service,
	rcloneSvc rclone.Service,
	providerFor func(models.Settings) (secret.Provider, error),
	prompter prompt.Prompter,
	nonInteractive bool,
	tempDir string,
) *Impl {
	return &Impl{
		archiveSvc:     archiveSvc,
		rcloneSvc:      rcloneSvc,
		prompter:       prompter,
		providerFor:    providerFor,
		logger:         logger,
		nonInteractive: nonInteractive,
		tempDir:        tempDir,
	}
}

// ProviderFor selects the secret provider named in the settings.
func ProviderFor(logger zerolog.Logger, s models.Settings) (secret.Provider, error) {
	switch s.SecretProvider {
	case "", "bitwarden":
		return bitwarden.New(logger, s.Bitwarden), nil
	case "vault":
		return vault.New(logger, s.Vault)
	default:
		return nil, fmt.Errorf("unknown secret provider %q", s.SecretProvider)
	}
}

// Run executes the complete backup workflow and returns the final archive
// path, local or remote. Secret session cleanup and staging directory removal
// run on every exit path.
func (s *Impl) Run(ctx context.Context, settings models.Settings) (string, error) {
	dest := models.ParseDestination(settings.Destination)

	info, err := os.Stat(settings.Source)
	if err != nil {
		return "", fmt.Errorf("source directory %s: %w", settings.Source, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source %s is not a directory", settings.Source)
	}

	label := settings.NamePattern
	if label == "" {
		label = naming.SafeName(settings.Source)
	}

	s.logger.Info().
		Str("source", settings.Source).
		Str("destination", settings.Destination).
		Bool("remote", dest.Kind == models.DestinationRemote).
		Bool("encrypt", settings.Encrypt).
		Msg("starting backup run")

	password, cleanup, err := s.acquirePassword(ctx, &settings)
	if err != nil {
		return "", err
	}
	defer cleanup(ctx)
	defer password.Zero()

	outputDir, removeStaging, err := s.outputDir(dest, label)
	if err != nil {
		return "", err
	}
	defer removeStaging()

	buildResult, err := s.archiveSvc.Build(ctx, archive.BuildOptions{
		Source:           settings.Source,
		OutputDir:        outputDir,
		NamePrefix:       label,
		CompressionLevel: settings.CompressionLevel,
		Exclude:          settings.Exclude,
		Password:         password,
	})
	if err != nil {
		return "", fmt.Errorf("archive build failed: %w", err)
	}
	password.Zero()

	if dest.Kind == models.DestinationLocal {
		s.logger.Info().Str("archive", buildResult.Path).Msg("backup completed")
		return buildResult.Path, nil
	}

	publishResult, err := s.rcloneSvc.Publish(ctx, rclone.PublishOptions{
		LocalPath:   buildResult.Path,
		Destination: dest,
		Container:   label,
		KeepLocal:   settings.KeepLocal,
	})
	if err != nil {
		return "", fmt.Errorf("publish failed: %w", err)
	}

	s.logger.Info().Str("archive", publishResult.RemotePath).Msg("backup completed")
	return publishResult.RemotePath, nil
}

// acquirePassword returns the archive password and its session cleanup. When
// encryption is off both are benign no-ops. Provider failures fail fast in
// non-interactive runs; interactive runs may retry, fall back to manual entry
// or drop encryption.
func (s *Impl) acquirePassword(ctx context.Context, settings *models.Settings) (*secret.Secret, secret.CleanupFunc, error) {
	if !settings.Encrypt {
		return nil, secret.NopCleanup, nil
	}
	if settings.Password != "" {
		return secret.New(settings.Password), secret.NopCleanup, nil
	}

	provider, err := s.providerFor(*settings)
	if err != nil {
		return nil, secret.NopCleanup, err
	}

	sec, cleanup, err := provider.Fetch(ctx, "", s.nonInteractive)
	if err == nil {
		return sec, cleanup, nil
	}
	if s.nonInteractive {
		return nil, secret.NopCleanup, fmt.Errorf("secret retrieval failed: %w", err)
	}

	return s.recoverInteractively(ctx, provider, settings, err)
}

// recoverInteractively walks the user through the fallback choices after a
// failed retrieval.
func (s *Impl) recoverInteractively(ctx context.Context, provider secret.Provider, settings *models.Settings, fetchErr error) (*secret.Secret, secret.CleanupFunc, error) {
	for {
		s.logger.Warn().Err(fetchErr).Str("provider", provider.Name()).Msg("secret retrieval failed")

		choice, err := s.prompter.Select(
			fmt.Sprintf("Retrieving the password from %s failed. How do you want to proceed?", provider.Name()),
			[]string{choiceRetry, choiceManual, choiceNoEncrypt, choiceCancel},
		)
		if err != nil {
			return nil, secret.NopCleanup, fmt.Errorf("secret retrieval failed: %w", fetchErr)
		}

		switch choice {
		case choiceRetry:
			item, err := s.prompter.Text("Secret item name or id", "")
			if err != nil {
				return nil, secret.NopCleanup, err
			}
			sec, cleanup, err := provider.Fetch(ctx, item, false)
			if err == nil {
				return sec, cleanup, nil
			}
			fetchErr = err
		case choiceManual:
			value, err := s.prompter.Password("Archive password")
			if err != nil {
				return nil, secret.NopCleanup, err
			}
			if value == "" {
				return nil, secret.NopCleanup, fmt.Errorf("empty password entered")
			}
			return secret.New(value), secret.NopCleanup, nil
		case choiceNoEncrypt:
			settings.Encrypt = false
			return nil, secret.NopCleanup, nil
		default:
			return nil, secret.NopCleanup, fmt.Errorf("backup cancelled")
		}
	}
}

// outputDir picks where the archive is built: directly under the local
// destination, or a temporary staging directory for remote destinations. The
// returned remove func deletes the staging directory on every exit path and
// is a no-op for local destinations.
func (s *Impl) outputDir(dest models.Destination, label string) (string, func(), error) {
	if dest.Kind == models.DestinationLocal {
		dir := filepath.Join(dest.Path, label)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nil, fmt.Errorf("creating destination directory %s: %w", dir, err)
		}
		return dir, func() {}, nil
	}

	staging, err := os.MkdirTemp(s.tempDir, "backsnap-staging-")
	if err != nil {
		return "", nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return staging, func() {
		if err := os.RemoveAll(staging); err != nil {
			s.logger.Warn().Err(err).Str("path", staging).Msg("could not remove staging directory")
		}
	}, nil
}
