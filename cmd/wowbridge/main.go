// Command wowbridge connects to a legacy WoW realm/world server pair and
// relays chat and guild events through a bridge.Host, reconnecting on
// recoverable failures until shut down.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wowbridge/internal/config"
	"wowbridge/internal/reconnect"
	"wowbridge/internal/stdoutbridge"
	"wowbridge/internal/wowerr"
)

const (
	exitOK            = 0
	exitFatalAuth     = 1
	exitConfigError   = 2
	exitUnrecoverable = 3
)

var rootCmd = &cobra.Command{
	Use:   "wowbridge [config]",
	Short: "Headless chat bridge for legacy WoW realm/world servers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitFromError(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := "wowchat.conf"
	if len(args) == 1 {
		path = args[0]
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := log.Logger

	cfg, err := config.Load(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to load config")
		return wowerr.Wrap(wowerr.ConfigError, "load config", err)
	}

	host := stdoutbridge.New(logger)
	controller := reconnect.New(cfg.Identity, host, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info().Str("realm", cfg.Identity.RealmName).Str("character", cfg.Identity.Character).Msg("starting bridge")
	return controller.Run(ctx)
}

func exitFromError(err error) int {
	if err == nil {
		return exitOK
	}
	if e, ok := err.(*wowerr.Error); ok {
		switch e.Kind {
		case wowerr.ConfigError:
			return exitConfigError
		case wowerr.AuthFatal:
			return exitFatalAuth
		default:
			return exitUnrecoverable
		}
	}
	return exitUnrecoverable
}
