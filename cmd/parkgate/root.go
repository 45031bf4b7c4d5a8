package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vogiaan1904/ticketbottle-parkgate/config"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

var (
	cfg *config.Config
	l   pkgLog.Logger

	apiURL   string
	wsURL    string
	logLevel string
	token    string
)

var rootCmd = &cobra.Command{
	Use:   "parkgate",
	Short: "Parking gate terminal agent",
	Long: `parkgate runs the operator console of a parking gate terminal.

It keeps zone availability in sync with the backend push feed, checks
visitors and subscribers in, checks tickets out at the checkpoint station
and exposes the admin operations of the parking backend.

Configuration is read from the environment (and a .env file when present).
Flags override individual values.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
		cfg = loaded

		l = pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
			Level:    cfg.Log.Level,
			Mode:     cfg.Log.Mode,
			Encoding: cfg.Log.Encoding,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if l != nil {
			_ = l.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend REST base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&wsURL, "ws-url", "", "backend push URL (overrides WS_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token to use instead of the saved session (overrides SESSION_TOKEN)")

	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.API.BaseURL = apiURL
	}
	if flags.Changed("ws-url") {
		c.Realtime.URL = wsURL
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("token") {
		c.Session.Token = token
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withApp builds the application for one command invocation and releases
// it when fn returns.
func withApp(serveHealth bool, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cfg, l, serveHealth)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a)
}
