package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/observability"
	"github.com/pjkea/social-media-scraper-api/internal/service"
)

func newScrapeCmd() *cobra.Command {
	var req schemas.ScrapeRequest
	var interactive bool

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a user's recent posts from a platform",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// The CLI is the attended path, so let --interactive unlock the
			// manual two-factor wait the server never permits.
			return viper.BindPFlag("scraper.interactive", cmd.Flags().Lookup("interactive"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg := appCfg
			cfg.Scraper.Interactive = viper.GetBool("scraper.interactive")

			engine, err := service.NewEngine(cfg, logger)
			if err != nil {
				return err
			}

			result, err := engine.ScrapeWithCredentials(cmd.Context(), req)
			if err != nil {
				return err
			}

			logger.Info("Scrape finished.",
				zap.String("platform", result.Platform), zap.Int("posts", result.TotalPosts))

			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			return nil
		},
	}

	scrapeCmd.Flags().StringVar(&req.Platform, "platform", "", "target platform (twitter, instagram, facebook, linkedin)")
	scrapeCmd.Flags().StringVar(&req.TargetUser, "user", "", "username of the profile to scrape")
	scrapeCmd.Flags().StringVar(&req.Email, "email", "", "account email or username for login")
	scrapeCmd.Flags().StringVar(&req.Password, "password", "", "account password")
	scrapeCmd.Flags().StringVar(&req.Timeframe, "timeframe", "7d", "lookback window (1h, 6h, 12h, 1d, 3d, 7d, 30d)")
	scrapeCmd.Flags().StringVar(&req.SessionID, "session", "", "use a specific stored session id")
	scrapeCmd.Flags().BoolVar(&interactive, "interactive", false, "wait for manual two-factor code entry")

	_ = scrapeCmd.MarkFlagRequired("platform")
	_ = scrapeCmd.MarkFlagRequired("user")
	_ = scrapeCmd.MarkFlagRequired("email")
	_ = scrapeCmd.MarkFlagRequired("password")

	return scrapeCmd
}
