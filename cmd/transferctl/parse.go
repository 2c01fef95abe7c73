package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/app"
	"github.com/kapu/tia-transfer-bot-go/internal/config"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/spf13/cobra"
)

var parseRemote bool

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Print the parse result of a message as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if parser.ContainsSensitiveData(text) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: the message mentions a private key, seed phrase or password")
	}

	result := parser.Extract(text)

	if parseRemote {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.Enhancer.Enabled = true

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		enhancer, err := app.BuildEnhancer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		result = enhancer.Enhance(ctx, result, text)
	}

	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, result *domain.ParseResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode parse result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
