package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/internal/config"
	"github.com/pjkea/social-media-scraper-api/internal/observability"
	"github.com/pjkea/social-media-scraper-api/internal/service"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scraping API",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			// Re-unmarshal so the flag binding from PreRunE takes effect.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			srv, err := service.NewServer(cfg, logger)
			if err != nil {
				return err
			}

			logger.Info("Server starting.", zap.String("addr", cfg.Server.Addr))
			return srv.Run(cmd.Context())
		},
	}

	serveCmd.Flags().String("addr", ":8080", "listen address for the HTTP API")
	return serveCmd
}
