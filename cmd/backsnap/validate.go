package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arolfes/backsnap/internal/config"
	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/services/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  `Load the configuration file, resolve it against the defaults and print a summary without running a backup.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	parser := config.NewParser()
	fileCfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	resolver := config.NewResolver(prompt.NonInteractive{})
	settings, err := resolver.Resolve(models.Params{}, fileCfg, config.ResolveOptions{})
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve settings")
		return err
	}

	if err := config.Validate(settings); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	dest := models.ParseDestination(settings.Destination)

	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Source: %s\n", settings.Source)
	fmt.Printf("  Destination: %s (%s)\n", settings.Destination, destKindName(dest.Kind))
	fmt.Printf("  Exclude patterns: %v\n", settings.Exclude)
	fmt.Printf("  Encrypt: %v\n", settings.Encrypt)
	fmt.Printf("  Compression level: %d\n", settings.CompressionLevel)
	fmt.Printf("  Keep local copy: %v\n", settings.KeepLocal)

	if settings.Encrypt {
		fmt.Println()
		fmt.Println("Secret Provider:")
		fmt.Printf("  Provider: %s\n", settings.SecretProvider)
		switch settings.SecretProvider {
		case "bitwarden":
			fmt.Printf("  Item: %s\n", settings.Bitwarden.Item)
			fmt.Printf("  Injected session: %v\n", settings.Bitwarden.Session != "")
		case "vault":
			addr := settings.Vault.Address
			if addr == "" {
				addr = "(from VAULT_ADDR)"
			}
			fmt.Printf("  Address: %s\n", addr)
			fmt.Printf("  Path: %s\n", strings.TrimPrefix(settings.Vault.Mount+"/"+settings.Vault.Path, "/"))
		}
	}

	return nil
}

func destKindName(k models.DestinationKind) string {
	if k == models.DestinationRemote {
		return "remote"
	}
	return "local"
}
