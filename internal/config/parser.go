// Package config provides configuration file parsing and the three-tier
// parameter/config/default resolver.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/spf13/viper"
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("json")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path. A missing file is not an
// error and yields a nil config; malformed JSON is fatal.
func (p *Parser) LoadFile(path string) (*models.FileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	p.v.SetConfigFile(path)
	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.FileConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

// parse maps recognized keys into FileConfig pointers so absent keys stay
// distinguishable from zero values. Unknown keys are ignored.
func (p *Parser) parse() (*models.FileConfig, error) {
	cfg := &models.FileConfig{
		Source:           p.stringPtr("source"),
		Destination:      p.stringPtr("destination"),
		Encrypt:          p.boolPtr("encrypt"),
		NamePattern:      p.stringPtr("name_pattern"),
		CompressionLevel: p.intPtr("compression_level"),
		KeepLocal:        p.boolPtr("keep_local"),
		SecretProvider:   p.stringPtr("secret_provider"),
	}

	if p.v.IsSet("exclude") {
		cfg.Exclude = p.v.GetStringSlice("exclude")
	}

	if p.v.IsSet("providers.bitwarden") {
		cfg.Bitwarden = &models.BitwardenSettings{
			Item:    p.v.GetString("providers.bitwarden.item"),
			Session: p.expandEnv(p.v.GetString("providers.bitwarden.session")),
		}
	}

	if p.v.IsSet("providers.vault") {
		cfg.Vault = &models.VaultSettings{
			Address: p.expandEnv(p.v.GetString("providers.vault.address")),
			Token:   p.expandEnv(p.v.GetString("providers.vault.token")),
			Mount:   p.v.GetString("providers.vault.mount"),
			Path:    p.v.GetString("providers.vault.path"),
			Field:   p.v.GetString("providers.vault.field"),
		}
	}

	if cfg.CompressionLevel != nil {
		if lvl := *cfg.CompressionLevel; lvl < 0 || lvl > 9 {
			return nil, fmt.Errorf("compression_level must be between 0 and 9, got %d", lvl)
		}
	}

	return cfg, nil
}

func (p *Parser) stringPtr(key string) *string {
	if !p.v.IsSet(key) {
		return nil
	}
	s := p.v.GetString(key)
	return &s
}

func (p *Parser) boolPtr(key string) *bool {
	if !p.v.IsSet(key) {
		return nil
	}
	b := p.v.GetBool(key)
	return &b
}

func (p *Parser) intPtr(key string) *int {
	if !p.v.IsSet(key) {
		return nil
	}
	i := p.v.GetInt(key)
	return &i
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs pre-execution validation on resolved settings.
func Validate(s *models.Settings) error {
	if s == nil {
		return fmt.Errorf("settings are nil")
	}
	if s.Source == "" {
		return fmt.Errorf("source is required")
	}
	if s.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if s.CompressionLevel < 0 || s.CompressionLevel > 9 {
		return fmt.Errorf("compression level must be between 0 and 9, got %d", s.CompressionLevel)
	}
	return nil
}
