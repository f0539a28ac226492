package main

import (
	"os"
	"strings"

	"github.com/arolfes/backsnap/internal/services/prompt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	configFile     string
	verbose        bool
	quiet          bool
	jsonOutput     bool
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "backsnap",
	Short: "A personal backup automation tool around 7-Zip and rclone",
	Long: `backsnap builds a compressed, optionally password-encrypted archive of a
source directory and places it on a local disk or a remote storage target
reachable through rclone. The archive password can be given directly, fetched
from Bitwarden or HashiCorp Vault, or entered interactively.

Use as a one-shot command with an external scheduler (cron, systemd timer, etc.)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "backsnap.json", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "never prompt, fail instead")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(getSecretCmd)
	rootCmd.AddCommand(validateCmd)
}

// setupLogging writes logs to stderr so stdout stays reserved for the final
// archive path.
func setupLogging() {
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// runsNonInteractively reports whether prompting is off, either by flag or
// because stdin is not a terminal.
func runsNonInteractively() bool {
	return nonInteractive || !prompt.StdinIsTerminal()
}

// pickPrompter returns the console prompter for interactive runs and the
// always-failing one otherwise.
func pickPrompter() prompt.Prompter {
	if runsNonInteractively() {
		return prompt.NonInteractive{}
	}
	return prompt.Console{}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
