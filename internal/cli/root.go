package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/0x6d61/dorkgen/internal/config"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dorkgen",
	Short: "Interactive Google dork generator",
	Long: `dorkgen - Interactive Google dork generator

Select interest categories, let a generative model propose Google dorks for
each, build custom operator/keyword combinations, run them against a search
engine or Shodan, and export the results to text, CSV, JSON or Excel. Every
generated dork is also kept in a local SQLite database.

Use the generated queries only against targets you are authorised to assess.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Config file path (YAML, optional)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dorkgen %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// runRoot loads the configuration and runs one interactive session.
// CTRL+C ends the session gracefully.
func runRoot(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return runSession(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
}
