package main

import (
	"context"
	"fmt"

	"github.com/arolfes/backsnap/internal/config"
	"github.com/arolfes/backsnap/internal/models"
	"github.com/arolfes/backsnap/internal/services/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	secretProvider string
	secretItem     string
	secretSession  string
)

var getSecretCmd = &cobra.Command{
	Use:   "get-secret",
	Short: "Fetch a secret from the configured provider",
	Long: `Fetch a secret from the configured password manager and print it to
stdout, for use in pipelines. Session state is restored afterwards.`,
	RunE: getSecret,
}

func init() {
	f := getSecretCmd.Flags()
	f.StringVar(&secretProvider, "provider", "", "secret provider (bitwarden or vault)")
	f.StringVar(&secretItem, "item", "", "secret item name or id")
	f.StringVar(&secretSession, "session", "", "injected password manager session token")
}

func getSecret(cmd *cobra.Command, args []string) error {
	parser := config.NewParser()
	fileCfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	params := models.Params{}
	f := cmd.Flags()
	if f.Changed("provider") {
		params.SecretProvider = &secretProvider
	}
	if f.Changed("item") {
		params.BitwardenItem = &secretItem
	}
	if f.Changed("session") {
		params.BitwardenSession = &secretSession
	}

	resolver := config.NewResolver(pickPrompter())
	settings, err := resolver.Resolve(params, fileCfg, config.ResolveOptions{})
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve settings")
		return err
	}

	provider, err := runner.ProviderFor(log.Logger, *settings)
	if err != nil {
		log.Error().Err(err).Msg("unknown provider")
		return err
	}

	ctx := context.Background()
	sec, cleanup, err := provider.Fetch(ctx, secretItem, runsNonInteractively())
	if err != nil {
		log.Error().Err(err).Str("provider", provider.Name()).Msg("secret retrieval failed")
		return err
	}
	defer cleanup(ctx)
	defer sec.Zero()

	fmt.Println(sec.Reveal())
	return nil
}
