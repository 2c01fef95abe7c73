// Command transferctl exercises the transfer parser and conversation flow from a
// terminal, without the chat gateway.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel string
	timeout  time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "transferctl",
	Short: "Parse and rehearse TIA transfer requests",
	Long: `transferctl runs the same extraction and clarification flow as the chat bot.

Use "parse" to inspect what a single message yields, "chat" for an interactive
session and "audit" to read the recorded turns of a conversation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = util.NewLogger(logLevel, "")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	parseCmd.Flags().BoolVar(&parseRemote, "remote", false, "Refine the local result with the remote model")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Maximum number of turns to show")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
