package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"srh-intent/internal/config"
	"srh-intent/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	quiet bool

	cfg *config.Config
	log logger.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "srh",
	Short: "Hinglish SRH query classification and code-mixing analysis",
	Long: `srh classifies Hinglish sexual and reproductive health queries into a
topic/subtopic taxonomy with a hosted LLM, and measures how code-mixed the
corpus is.

Settings come from the environment (and .env); flags override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if quiet {
			log = logger.NewIsolatedLogger(cfg.App.LogFilePath)
		} else {
			log = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "write logs to the log file only")

	rootCmd.AddCommand(classifyCmd, cmiCmd, taxonomyCmd, logsCmd, eventsCmd, resultsCmd)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
