package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var initForce bool

// starterConfig documents every recognized key with workable defaults.
const starterConfig = `{
  "source": "/home/me/documents",
  "destination": "gdrive:Backups",
  "exclude": ["*.tmp", "*.log", ".git"],
  "encrypt": true,
  "name_pattern": "",
  "compression_level": 5,
  "keep_local": false,
  "secret_provider": "bitwarden",
  "providers": {
    "bitwarden": {
      "item": "backup-password"
    },
    "vault": {
      "address": "",
      "mount": "secret",
      "path": "backup",
      "field": "password"
    }
  }
}
`

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a starter configuration file",
	Long:  `Write a starter JSON configuration file documenting every recognized setting.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  initConfig,
}

func init() {
	initConfigCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		err := fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		log.Error().Err(err).Msg("refusing to overwrite")
		return err
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
		log.Error().Err(err).Str("file", path).Msg("failed to write config")
		return err
	}

	log.Info().Str("file", path).Msg("starter config written")
	return nil
}
