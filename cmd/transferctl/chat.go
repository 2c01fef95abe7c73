package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/chatbot"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation on stdin",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	svc := chatbot.NewService(parser.NewExtractor(), nil, nil, logger)
	return chatLoop(cmd, svc, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(cmd *cobra.Command, svc *chatbot.Service, in io.Reader, out io.Writer) error {
	printLines(out, chatbot.Greeting())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "":
			continue
		case "salir", "exit", "quit":
			return nil
		case "ayuda", "help":
			printLines(out, chatbot.Help())
			continue
		case "reiniciar", "reset":
			svc.Reset()
			fmt.Fprintln(out, "🔄 Listo, empecemos de nuevo.")
			continue
		}

		reply := svc.ProcessMessage(cmd.Context(), text)
		printLines(out, reply.Responses)
	}
}

func printLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
