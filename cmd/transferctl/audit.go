package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/app"
	"github.com/kapu/tia-transfer-bot-go/internal/chatbot"
	"github.com/kapu/tia-transfer-bot-go/internal/config"
	"github.com/kapu/tia-transfer-bot-go/internal/service/audit"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit [session]",
	Short: "Show the most recent recorded turns of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	repo, closeDB, err := app.OpenAudit(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := repo.RecentBySession(ctx, args[0], auditLimit)
	if err != nil {
		return err
	}
	return printEntries(cmd, entries)
}

func printEntries(cmd *cobra.Command, entries []audit.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No recorded turns.")
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATE\tINTENT\tCONFIDENCE\tTRANSFER\tERROR")
	for _, e := range entries {
		transfer := "-"
		if e.Transfer != nil {
			transfer = fmt.Sprintf("%s %s -> %s", chatbot.FormatAmount(e.Transfer.Amount), e.Transfer.Unit, util.Preview(e.Transfer.ToAddress, 20))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339),
			e.State,
			e.Intent,
			e.Confidence,
			transfer,
			e.Error,
		)
	}
	return w.Flush()
}
