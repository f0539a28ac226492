package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/services/prompt"
)

// Built-in defaults, the lowest precedence tier.
const (
	DefaultCompressionLevel = 5
	DefaultSecretProvider   = "bitwarden"
)

// listClearToken clears a list-valued setting during interactive editing
// instead of keeping the prior value.
const listClearToken = "-"

// ResolveOptions selects the resolver's operating mode. Strict and
// Interactive are mutually exclusive.
type ResolveOptions struct {
	// Strict rejects runs where source, destination, exclude patterns or the
	// encrypt flag were not supplied as explicit parameters.
	Strict bool
	// Interactive confirms every non-explicit setting with the user,
	// pre-filled with the value that would otherwise be resolved.
	Interactive bool
}

// Resolver merges explicit parameters, config file values and built-in
// defaults under a fixed precedence order.
type Resolver struct {
	prompter prompt.Prompter
}

// NewResolver creates a resolver. The prompter is only consulted in
// interactive mode.
func NewResolver(p prompt.Prompter) *Resolver {
	return &Resolver{prompter: p}
}

// Resolve finalizes every setting: explicit parameter, then config file value
// (when present and non-empty), then default. Booleans track "specified"
// separately from value, so an explicit false beats a configured true. An
// explicit password without an explicit encrypt flag implies encryption.
func (r *Resolver) Resolve(params models.Params, file *models.FileConfig, opts ResolveOptions) (*models.Settings, error) {
	if opts.Strict && opts.Interactive {
		return nil, fmt.Errorf("strict and interactive modes are mutually exclusive")
	}
	if opts.Strict {
		if err := checkStrict(params); err != nil {
			return nil, err
		}
	}
	if file == nil {
		file = &models.FileConfig{}
	}

	s := &models.Settings{
		Source:           resolveString(params.Source, file.Source, ""),
		Destination:      resolveString(params.Destination, file.Destination, ""),
		NamePattern:      resolveString(params.NamePattern, file.NamePattern, ""),
		CompressionLevel: resolveInt(params.CompressionLevel, file.CompressionLevel, DefaultCompressionLevel),
		Encrypt:          resolveBool(params.Encrypt, file.Encrypt, false),
		KeepLocal:        resolveBool(params.KeepLocal, file.KeepLocal, false),
		SecretProvider:   resolveString(params.SecretProvider, file.SecretProvider, DefaultSecretProvider),
	}

	switch {
	case params.Exclude != nil:
		s.Exclude = params.Exclude
	case file.Exclude != nil:
		s.Exclude = file.Exclude
	}

	if params.Password != nil {
		s.Password = *params.Password
		// A supplied password implies encryption unless the caller said
		// otherwise explicitly.
		if s.Password != "" && params.Encrypt == nil {
			s.Encrypt = true
		}
	}

	if file.Bitwarden != nil {
		s.Bitwarden = *file.Bitwarden
	}
	if file.Vault != nil {
		s.Vault = *file.Vault
	}
	if params.BitwardenItem != nil {
		s.Bitwarden.Item = *params.BitwardenItem
	}
	if params.BitwardenSession != nil {
		s.Bitwarden.Session = *params.BitwardenSession
	}

	if opts.Interactive {
		if err := r.confirmInteractively(params, s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// checkStrict enforces explicit-only mode for the four mandatory settings.
func checkStrict(params models.Params) error {
	var missing []string
	if params.Source == nil {
		missing = append(missing, "source")
	}
	if params.Destination == nil {
		missing = append(missing, "destination")
	}
	if params.Exclude == nil {
		missing = append(missing, "exclude")
	}
	if params.Encrypt == nil {
		missing = append(missing, "encrypt")
	}
	if len(missing) > 0 {
		return fmt.Errorf("strict mode requires explicit parameters for: %s", strings.Join(missing, ", "))
	}
	return nil
}

// confirmInteractively asks the user to confirm or edit every setting that
// was not supplied explicitly. Pressing enter keeps the pre-filled value; a
// lone "-" clears the exclude list.
func (r *Resolver) confirmInteractively(params models.Params, s *models.Settings) error {
	if params.Source == nil {
		v, err := r.prompter.Text("Source directory", s.Source)
		if err != nil {
			return err
		}
		s.Source = v
	}

	if params.Destination == nil {
		v, err := r.prompter.Text("Backup destination", s.Destination)
		if err != nil {
			return err
		}
		s.Destination = v
	}

	if params.Exclude == nil {
		v, err := r.prompter.Text("Exclude patterns (space separated, - clears)", strings.Join(s.Exclude, " "))
		if err != nil {
			return err
		}
		switch v {
		case listClearToken:
			s.Exclude = nil
		case strings.Join(s.Exclude, " "):
			// unchanged
		default:
			s.Exclude = strings.Fields(v)
		}
	}

	if params.Encrypt == nil && params.Password == nil {
		v, err := r.prompter.Confirm("Encrypt the archive?", s.Encrypt)
		if err != nil {
			return err
		}
		s.Encrypt = v
	}

	if params.NamePattern == nil {
		v, err := r.prompter.Text("Archive name prefix (empty derives from source)", s.NamePattern)
		if err != nil {
			return err
		}
		s.NamePattern = v
	}

	if params.CompressionLevel == nil {
		v, err := r.prompter.Text("Compression level (0-9)", strconv.Itoa(s.CompressionLevel))
		if err != nil {
			return err
		}
		lvl, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("compression level must be a number, got %q", v)
		}
		s.CompressionLevel = lvl
	}

	if params.KeepLocal == nil {
		v, err := r.prompter.Confirm("Keep the local copy after upload?", s.KeepLocal)
		if err != nil {
			return err
		}
		s.KeepLocal = v
	}

	return nil
}

func resolveString(param, file *string, def string) string {
	if param != nil {
		return *param
	}
	if file != nil && *file != "" {
		return *file
	}
	return def
}

func resolveBool(param, file *bool, def bool) bool {
	if param != nil {
		return *param
	}
	if file != nil {
		return *file
	}
	return def
}

func resolveInt(param, file *int, def int) int {
	if param != nil {
		return *param
	}
	if file != nil {
		return *file
	}
	return def
}
