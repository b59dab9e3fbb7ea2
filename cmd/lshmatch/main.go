package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ludo-technologies/lshmatch/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lshmatch",
	Short: "Find similar authors and texts with MinHash LSH",
	Long: `lshmatch indexes short texts with MinHash signatures and banded
Locality Sensitive Hashing, then samples candidate pairs of keys that
are likely to have similar content.

Features:
  • Two-stage author matching over tweet-style CSV exports
  • Single-stage text and integer set matching
  • Band parameters tuned to a Jaccard threshold
  • Random graph generation for test data`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewMatchCmd())
	rootCmd.AddCommand(NewGraphCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

// setupLogging installs a text handler on stderr; stdout is reserved for reports
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
