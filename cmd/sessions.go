package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pjkea/social-media-scraper-api/internal/observability"
	"github.com/pjkea/social-media-scraper-api/internal/service"
)

func newSessionsCmd() *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored browser sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCmd())
	sessionsCmd.AddCommand(newSessionsDeleteCmd())
	sessionsCmd.AddCommand(newSessionsPruneCmd())
	return sessionsCmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := service.NewEngine(appCfg, observability.GetLogger())
			if err != nil {
				return err
			}

			records, err := engine.ListSessions()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLATFORM\tACCOUNT\tLAST LOGIN")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rec.ID, rec.Platform, rec.AccountIdentifier,
					rec.LastLoginAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := service.NewEngine(appCfg, observability.GetLogger())
			if err != nil {
				return err
			}
			if err := engine.DeleteSession(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func newSessionsPruneCmd() *cobra.Command {
	var maxAge time.Duration

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions older than the given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := service.NewEngine(appCfg, observability.GetLogger())
			if err != nil {
				return err
			}

			report, err := engine.PruneSessions(maxAge)
			if err != nil {
				return err
			}
			fmt.Printf("pruned %d sessions, freed %d bytes\n", report.DeletedCount, report.FreedBytes)
			return nil
		},
	}

	pruneCmd.Flags().DurationVar(&maxAge, "max-age", 30*24*time.Hour, "delete sessions last used longer ago than this")
	return pruneCmd
}
