// Package secret provides an opaque holder for archive passwords and the
// contract secret-manager providers implement.
package secret

// Secret holds a password in memory for the shortest possible time. Callers
// reveal it at the point of use and call Zero once they are done; the backing
// bytes are overwritten so the value does not linger.
type Secret struct {
	data    []byte
	cleared bool
}

// New wraps a password string in a Secret.
func New(value string) *Secret {
	return &Secret{data: []byte(value)}
}

// Reveal returns the password for immediate use. It must not be stored in a
// long-lived variable or written to any log.
func (s *Secret) Reveal() string {
	if s == nil || s.cleared {
		return ""
	}
	return string(s.data)
}

// Zero overwrites the backing bytes. Reveal returns "" afterwards.
func (s *Secret) Zero() {
	if s == nil {
		return
	}
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
	s.cleared = true
}

// Empty reports whether the secret holds no value.
func (s *Secret) Empty() bool {
	return s == nil || s.cleared || len(s.data) == 0
}

// String keeps the plaintext out of accidental fmt/log output.
func (s *Secret) String() string {
	return "[redacted]"
}
