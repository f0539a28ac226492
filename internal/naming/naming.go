// Package naming derives filesystem-safe labels and collision-free archive
// file names from source paths.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// fallbackName is used when sanitizing leaves nothing usable.
const fallbackName = "backup"

// timestampLayout gives every archive name a per-run distinguishing token.
const timestampLayout = "20060102-150405"

// volumeLabel resolves a human-readable label for a volume root. The
// platform-specific readVolumeLabel backs it; tests replace it.
var volumeLabel = readVolumeLabel

// SafeName converts a source directory path into a short, filesystem-safe
// label. Non-root paths use their sanitized leaf name; volume roots use the
// volume label when one is readable, otherwise the drive token plus "_root"
// (e.g. "S_root"). SafeName is idempotent on its own output.
func SafeName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	abs = filepath.Clean(abs)

	if isRoot(abs) {
		if label := Sanitize(volumeLabel(abs)); label != "" {
			return label
		}
		vol := strings.TrimSuffix(filepath.VolumeName(abs), ":")
		if vol == "" {
			return "root"
		}
		return vol + "_root"
	}

	if name := Sanitize(filepath.Base(abs)); name != "" {
		return name
	}
	return fallbackName
}

// Sanitize replaces characters invalid in file names with underscores,
// collapses whitespace runs into single underscores, and trims leading and
// trailing underscores.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	inWhitespace := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			if !inWhitespace {
				b.WriteByte('_')
			}
			inWhitespace = true
			continue
		case invalidFilenameRune(r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
		inWhitespace = false
	}

	return strings.Trim(b.String(), "_")
}

// ArchiveName builds the archive file name for one run: the prefix plus a
// creation timestamp, so consecutive runs never collide.
func ArchiveName(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.7z", prefix, ts.Format(timestampLayout))
}

func isRoot(p string) bool {
	return filepath.Dir(p) == p
}

func invalidFilenameRune(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return r < 0x20
}
