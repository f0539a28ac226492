package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arolfes/backsnap/internal/config"
	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	runSource      string
	runDestination string
	runExclude     []string
	runEncrypt     bool
	runPassword    string
	runName        string
	runLevel       int
	runProvider    string
	runItem        string
	runSession     string
	runKeepLocal   bool
	runStrict      bool
	runInteractive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the backup workflow",
	Long: `Execute the complete backup workflow:
1. Resolve settings (flags, config file, defaults)
2. Acquire the archive password (if encryption is requested)
3. Build the archive with 7-Zip
4. Upload via rclone (remote destinations only)
5. Restore the password manager session state

On success the final archive path is the only line written to stdout.`,
	RunE: runBackup,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runSource, "source", "s", "", "source directory to back up")
	f.StringVarP(&runDestination, "destination", "d", "", "destination root (local path or remote:path)")
	f.StringSliceVarP(&runExclude, "exclude", "e", nil, "wildcard exclude pattern (repeatable)")
	f.BoolVar(&runEncrypt, "encrypt", false, "encrypt the archive")
	f.StringVarP(&runPassword, "password", "p", "", "archive password (implies --encrypt)")
	f.StringVarP(&runName, "name", "n", "", "archive name prefix (defaults to a name derived from the source)")
	f.IntVarP(&runLevel, "compression-level", "l", config.DefaultCompressionLevel, "7-Zip compression level (0-9)")
	f.StringVar(&runProvider, "provider", "", "secret provider (bitwarden or vault)")
	f.StringVar(&runItem, "item", "", "secret item name or id")
	f.StringVar(&runSession, "session", "", "injected password manager session token")
	f.BoolVar(&runKeepLocal, "keep-local", false, "keep the local archive after a remote upload")
	f.BoolVar(&runStrict, "strict", false, "require source, destination, exclude and encrypt as explicit flags")
	f.BoolVarP(&runInteractive, "interactive", "i", false, "confirm every non-explicit setting")
}

func runBackup(cmd *cobra.Command, args []string) error {
	if runInteractive && runsNonInteractively() {
		err := fmt.Errorf("interactive mode needs a terminal")
		log.Error().Err(err).Msg("cannot prompt")
		return err
	}

	parser := config.NewParser()
	fileCfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	prompter := pickPrompter()
	resolver := config.NewResolver(prompter)
	settings, err := resolver.Resolve(runParams(cmd.Flags()), fileCfg, config.ResolveOptions{
		Strict:      runStrict,
		Interactive: runInteractive,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve settings")
		return err
	}
	if err := config.Validate(settings); err != nil {
		log.Error().Err(err).Msg("invalid settings")
		return err
	}

	log.Info().
		Str("config", configFile).
		Str("source", settings.Source).
		Str("destination", settings.Destination).
		Msg("settings resolved")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	runnerSvc := runner.New(log.Logger, prompter, runsNonInteractively())
	finalPath, err := runnerSvc.Run(ctx, *settings)
	if err != nil {
		log.Error().Err(err).Msg("backup failed")
		return err
	}

	// The sole machine-consumable output line.
	fmt.Println(finalPath)
	return nil
}

// runParams collects the explicit flag values; only flags the user actually
// set count, so the resolver can apply its precedence order.
func runParams(f *pflag.FlagSet) models.Params {
	p := models.Params{}

	if f.Changed("source") {
		p.Source = &runSource
	}
	if f.Changed("destination") {
		p.Destination = &runDestination
	}
	if f.Changed("exclude") {
		p.Exclude = runExclude
	}
	if f.Changed("encrypt") {
		p.Encrypt = &runEncrypt
	}
	if f.Changed("password") {
		p.Password = &runPassword
	}
	if f.Changed("name") {
		p.NamePattern = &runName
	}
	if f.Changed("compression-level") {
		p.CompressionLevel = &runLevel
	}
	if f.Changed("keep-local") {
		p.KeepLocal = &runKeepLocal
	}
	if f.Changed("provider") {
		p.SecretProvider = &runProvider
	}
	if f.Changed("item") {
		p.BitwardenItem = &runItem
	}
	if f.Changed("session") {
		p.BitwardenSession = &runSession
	}

	return p
}
