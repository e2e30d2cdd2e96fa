package cmd

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/pjkea/social-media-scraper-api/api/schemas"
	"github.com/pjkea/social-media-scraper-api/internal/observability"
	"github.com/pjkea/social-media-scraper-api/internal/service"
)

func newCheckLoginCmd() *cobra.Command {
	var req schemas.CredentialRequest

	checkCmd := &cobra.Command{
		Use:   "check-login",
		Short: "Verify credentials against a platform without scraping",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := service.NewEngine(appCfg, observability.GetLogger())
			if err != nil {
				return err
			}

			check, err := engine.TestCredentials(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(check)
		},
	}

	checkCmd.Flags().StringVar(&req.Platform, "platform", "", "target platform (twitter, instagram, facebook, linkedin)")
	checkCmd.Flags().StringVar(&req.Email, "email", "", "account email or username for login")
	checkCmd.Flags().StringVar(&req.Password, "password", "", "account password")
	checkCmd.Flags().StringVar(&req.SessionID, "session", "", "use a specific stored session id")

	_ = checkCmd.MarkFlagRequired("platform")
	_ = checkCmd.MarkFlagRequired("email")
	_ = checkCmd.MarkFlagRequired("password")

	return checkCmd
}
