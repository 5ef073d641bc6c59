package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/groupfinal/accounts/internal/client/config"
)

// NewRootCmd builds the command tree. Settings come from defaults, then the
// --config JSON file, then explicit flags.
func NewRootCmd() *cobra.Command {
	var (
		app        = &App{config: &config.Config{}}
		configPath string
		addr       string
		timeout    time.Duration
		sessionDir string
	)

	c := &cobra.Command{
		Use:           "accounts",
		Short:         "Command-line client for the account service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.config.LoadDefaults()
			if configPath != "" {
				if err := app.config.LoadFile(configPath); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				app.config.ServerEndpointAddr = addr
			}
			if flags.Changed("timeout") {
				app.config.RequestTimeout = timeout
			}
			if flags.Changed("session-dir") {
				app.config.SessionDir = sessionDir
			}
			return app.init(cmd.Context(), cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return app.cleanup()
		},
	}

	c.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	c.PersistentFlags().StringVarP(&addr, "addr", "a", "", "server address (host:port)")
	c.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout")
	c.PersistentFlags().StringVar(&sessionDir, "session-dir", "", "directory of the local session database")

	c.AddCommand(
		newPingCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newListCmd(app),
		newCreateCmd(app),
	)
	return c
}
