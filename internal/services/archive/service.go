// Package archive builds compressed, optionally encrypted archives through
// the external 7-Zip binary.
package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/naming"
	"github.com/arolfes/backsnap/internal/pattern"
	"github.com/arolfes/backsnap/internal/secret"
	"github.com/arolfes/backsnap/internal/services/executor"
	"github.com/rs/zerolog"
)

// BuildOptions describes one archive build.
type BuildOptions struct {
	// Source is the directory to archive.
	Source string
	// OutputDir is where the archive file is written.
	OutputDir string
	// NamePrefix is the archive name without timestamp and extension.
	NamePrefix string
	// CompressionLevel is the 7-Zip -mx level, 0 through 9.
	CompressionLevel int
	// Exclude holds wildcard patterns applied per file.
	Exclude []string
	// Password encrypts file contents and header metadata when non-nil.
	Password *secret.Secret
}

// Service defines the interface for archive building.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*models.ArchiveResult, error)
}

// Impl implements the Service interface.
type Impl struct {
	executor executor.CommandExecutor
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a new archive service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &executor.Default{},
		logger:   logger,
		now:      time.Now,
	}
}

// NewWithExecutor creates a new archive service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, exec executor.CommandExecutor) *Impl {
	return &Impl{
		executor: exec,
		logger:   logger,
		now:      time.Now,
	}
}

// Build walks the source directory, filters it against the exclude patterns
// and produces one timestamped .7z file in OutputDir. When a password is
// given, header metadata is encrypted along with file contents. An exclude
// set that would leave the archive empty fails before 7-Zip is invoked.
func (s *Impl) Build(ctx context.Context, opts BuildOptions) (*models.ArchiveResult, error) {
	start := s.now()

	files, err := s.listFiles(opts.Source, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to archive: exclude patterns match every file under %s", opts.Source)
	}

	outDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	outPath := filepath.Join(outDir, naming.ArchiveName(opts.NamePrefix, start))

	listFile, err := s.writeListFile(files)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(listFile) }()

	args := []string{"a", "-t7z", "-y", fmt.Sprintf("-mx=%d", opts.CompressionLevel)}
	if !opts.Password.Empty() {
		// -mhe encrypts the archive header so file names stay hidden too.
		args = append(args, "-mhe=on", "-p"+opts.Password.Reveal())
	}
	args = append(args, outPath, "@"+listFile)

	s.logger.Info().
		Str("source", opts.Source).
		Str("output", outPath).
		Int("files", len(files)).
		Bool("encrypted", !opts.Password.Empty()).
		Msg("building archive")

	output, err := s.executor.ExecuteInDir(ctx, opts.Source, "7z", args...)
	if err != nil {
		return nil, fmt.Errorf("archiver failed: %w, output: %s", err, string(output))
	}

	result := &models.ArchiveResult{
		Path:     outPath,
		Files:    len(files),
		Duration: s.now().Sub(start),
	}

	s.logger.Info().
		Str("archive", result.Path).
		Int("files", result.Files).
		Dur("duration", result.Duration).
		Msg("archive built")

	return result, nil
}

// listFiles returns the source-relative paths of every regular file that
// survives the exclude patterns.
func (s *Impl) listFiles(source string, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		if !pattern.Excluded(rel, exclude) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source %s: %w", source, err)
	}

	return files, nil
}

func (s *Impl) writeListFile(files []string) (string, error) {
	f, err := os.CreateTemp("", "backsnap-include-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating include list: %w", err)
	}

	if _, err := f.WriteString(strings.Join(files, "\n") + "\n"); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("writing include list: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("closing include list: %w", err)
	}

	return f.Name(), nil
}
