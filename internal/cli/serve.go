package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/tickethook/internal/httpapi"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the changeset webhook server",
		Long:  `Start the HTTP server that receives changeset notifications and applies ticket commands from commit messages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			if addr == "" {
				addr = app.Config.HTTPAddr
			}

			router := httpapi.NewRouter(app.Config.AppEnv, app.Log, app.Engine)
			app.Log.Info().Str("addr", addr).Msg("starting webhook server")
			if err := router.Run(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config http_addr)")
	return cmd
}
