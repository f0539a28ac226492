// Package pattern implements wildcard-based exclude matching for backup
// file selection.
package pattern

import (
	"path"
	"runtime"
	"strings"
)

// Excluded reports whether relPath matches any of the shell-style wildcard
// patterns (* any run, ? one character, [...] character class). A path is
// excluded when its full normalized form, its leaf name, or any intermediate
// segment matches a pattern; patterns are OR-combined and the first match
// wins. In the full-path test * crosses separator boundaries, so "cache/*"
// excludes everything below cache and "docs*tmp" reaches into
// subdirectories. Blank patterns are skipped. Case folding follows the host
// filesystem's default: case-insensitive on Windows, case-sensitive
// elsewhere.
func Excluded(relPath string, patterns []string) bool {
	if relPath == "" {
		return false
	}

	normalized := normalize(relPath)
	segments := strings.Split(normalized, "/")

	for _, p := range patterns {
		if p == "" {
			continue
		}
		p = normalize(p)

		if matchFull(p, normalized) {
			return true
		}
		for _, seg := range segments {
			if seg != "" && matchSegment(p, seg) {
				return true
			}
		}
	}
	return false
}

// Filter returns the subset of relPaths not excluded by patterns, preserving
// order.
func Filter(relPaths []string, patterns []string) []string {
	kept := make([]string, 0, len(relPaths))
	for _, p := range relPaths {
		if !Excluded(p, patterns) {
			kept = append(kept, p)
		}
	}
	return kept
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}

// matchSegment matches a single path segment. Segments never contain a
// separator, so path.Match's semantics apply directly; a malformed pattern
// never matches anything.
func matchSegment(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// matchFull matches the whole relative path against the pattern. Unlike
// path.Match, * here matches any run of characters including separators; a
// malformed pattern never matches anything.
func matchFull(pattern, name string) bool {
	return matchRunes([]rune(pattern), []rune(name))
}

func matchRunes(p, n []rune) bool {
	for len(p) > 0 {
		switch p[0] {
		case '*':
			for len(p) > 0 && p[0] == '*' {
				p = p[1:]
			}
			if len(p) == 0 {
				return true
			}
			for i := 0; i <= len(n); i++ {
				if matchRunes(p, n[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(n) == 0 {
				return false
			}
			p, n = p[1:], n[1:]
		case '[':
			if len(n) == 0 {
				return false
			}
			matched, rest, ok := matchClass(p, n[0])
			if !ok || !matched {
				return false
			}
			p, n = rest, n[1:]
		default:
			if len(n) == 0 || n[0] != p[0] {
				return false
			}
			p, n = p[1:], n[1:]
		}
	}
	return len(n) == 0
}

// matchClass consumes a character class at the start of p and reports whether
// r belongs to it. ok is false for an unterminated class.
func matchClass(p []rune, r rune) (match bool, rest []rune, ok bool) {
	i := 1
	negate := false
	if i < len(p) && p[i] == '^' {
		negate = true
		i++
	}

	first := true
	for {
		if i >= len(p) {
			return false, nil, false
		}
		if p[i] == ']' && !first {
			i++
			break
		}
		first = false

		lo := p[i]
		i++
		hi := lo
		if i+1 < len(p) && p[i] == '-' && p[i+1] != ']' {
			hi = p[i+1]
			i += 2
		}
		if lo <= r && r <= hi {
			match = true
		}
	}

	if negate {
		match = !match
	}
	return match, p[i:], true
}
