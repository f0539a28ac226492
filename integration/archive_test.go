//go:build integration

package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arolfes/backsnap/internal/secret"
	"github.com/arolfes/backsnap/internal/services/archive"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func requireSevenZip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("7z"); err != nil {
		t.Skip("7z not installed")
	}
}

func testSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	files := map[string]string{
		"keep.txt":                        "keep me",
		"scratch.tmp":                     "drop me",
		filepath.Join("sub", "inner.txt"): "keep me too",
		filepath.Join("sub", "inner.tmp"): "drop me too",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

// listArchive runs "7z l" with the given password and returns its output.
func listArchive(t *testing.T, archivePath, password string) (string, error) {
	t.Helper()
	out, err := exec.Command("7z", "l", "-p"+password, archivePath).CombinedOutput()
	return string(out), err
}

func TestArchiveRoundTrip_Integration(t *testing.T) {
	requireSevenZip(t)

	src := testSource(t)
	out := t.TempDir()

	svc := archive.New(testLogger())
	result, err := svc.Build(context.Background(), archive.BuildOptions{
		Source:           src,
		OutputDir:        out,
		NamePrefix:       "roundtrip",
		CompressionLevel: 5,
		Exclude:          []string{"*.tmp"},
		Password:         secret.New("P1"),
	})

	require.NoError(t, err)
	require.FileExists(t, result.Path)
	assert.Equal(t, 2, result.Files)

	// The right password opens it and shows only the non-excluded files.
	listing, err := listArchive(t, result.Path, "P1")
	require.NoError(t, err)
	assert.Contains(t, listing, "keep.txt")
	assert.Contains(t, listing, "inner.txt")
	assert.NotContains(t, listing, "scratch.tmp")
	assert.NotContains(t, listing, "inner.tmp")

	// Header encryption: a wrong password cannot even list the contents.
	wrongListing, err := listArchive(t, result.Path, "definitely-wrong")
	if err == nil {
		assert.NotContains(t, wrongListing, "keep.txt")
	}
}

func TestArchiveUnencrypted_Integration(t *testing.T) {
	requireSevenZip(t)

	src := testSource(t)
	out := t.TempDir()

	svc := archive.New(testLogger())
	result, err := svc.Build(context.Background(), archive.BuildOptions{
		Source:           src,
		OutputDir:        out,
		NamePrefix:       "plain",
		CompressionLevel: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Files)

	listing, err := listArchive(t, result.Path, "")
	require.NoError(t, err)
	assert.Contains(t, listing, "scratch.tmp")
}

func TestArchiveTimestampNaming_Integration(t *testing.T) {
	requireSevenZip(t)

	src := testSource(t)
	out := t.TempDir()

	svc := archive.New(testLogger())
	result, err := svc.Build(context.Background(), archive.BuildOptions{
		Source:     src,
		OutputDir:  out,
		NamePrefix: "stamped",
	})

	require.NoError(t, err)
	base := filepath.Base(result.Path)
	assert.True(t, strings.HasPrefix(base, "stamped_"))
	assert.True(t, strings.HasSuffix(base, ".7z"))
}
