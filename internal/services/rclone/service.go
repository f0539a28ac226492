// Package rclone publishes finished archives to remote storage through the
// external rclone binary.
package rclone

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/services/executor"
	"github.com/rs/zerolog"
)

// PublishOptions describes one upload.
type PublishOptions struct {
	// LocalPath is the archive file on disk.
	LocalPath string
	// Destination must be a remote destination descriptor.
	Destination models.Destination
	// Container is an optional sub-folder under the destination root.
	Container string
	// KeepLocal leaves the local file in place after a successful upload.
	KeepLocal bool
}

// Service defines the interface for remote publishing.
type Service interface {
	Publish(ctx context.Context, opts PublishOptions) (*models.PublishResult, error)
}

// Impl implements the Service interface.
type Impl struct {
	executor executor.CommandExecutor
	logger   zerolog.Logger
}

// New creates a new rclone service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &executor.Default{},
		logger:   logger,
	}
}

// NewWithExecutor creates a new rclone service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, exec executor.CommandExecutor) *Impl {
	return &Impl{
		executor: exec,
		logger:   logger,
	}
}

// Publish copies the archive to root/container/filename on the remote and,
// unless KeepLocal is set, removes the local copy. The local file is only
// ever deleted after the copy reported success.
func (s *Impl) Publish(ctx context.Context, opts PublishOptions) (*models.PublishResult, error) {
	if opts.Destination.Kind != models.DestinationRemote {
		return nil, fmt.Errorf("destination %q is not remote", opts.Destination.Root)
	}

	start := time.Now()
	remotePath := fmt.Sprintf("%s:%s", opts.Destination.Remote,
		path.Join(opts.Destination.Path, opts.Container, filepath.Base(opts.LocalPath)))

	s.logger.Info().
		Str("local", opts.LocalPath).
		Str("remote", remotePath).
		Msg("uploading archive")

	output, err := s.executor.Execute(ctx, "rclone", "copyto", opts.LocalPath, remotePath)
	if err != nil {
		return nil, fmt.Errorf("rclone copy failed: %w, output: %s", err, string(output))
	}

	result := &models.PublishResult{
		RemotePath: remotePath,
		Duration:   time.Since(start),
	}

	if !opts.KeepLocal {
		if err := os.Remove(opts.LocalPath); err != nil {
			s.logger.Warn().Err(err).Str("path", opts.LocalPath).Msg("could not remove local archive")
		} else {
			result.LocalRemoved = true
		}
	}

	s.logger.Info().
		Str("remote", result.RemotePath).
		Bool("local_removed", result.LocalRemoved).
		Dur("duration", result.Duration).
		Msg("upload completed")

	return result, nil
}
