package prompt

import (
	"fmt"
	"strings"
)

func FallbackTransferParserPrompt(data TransferParserData) string {
	var questions strings.Builder
	for _, q := range data.Questions {
		questions.WriteString("\n   - ")
		questions.WriteString(q)
	}

	return fmt.Sprintf(`You extract token transfer instructions for a Celestia wallet chat bot.
The user writes in Spanish or English. Return ONLY one JSON object, never free text.

Fields: raw_text, address, address_valid, chain (celestia|mocha|unknown),
amount {original, numeric|null, unit|null}, need_clarification,
clarifying_questions (at most %d, Spanish, in this order:%s),
intent (send|other), confidence (0.0-1.0), error (null or short text).

Never repeat private keys, seed phrases, mnemonics or passwords.

User message:
"%s"`,
		data.MaxQuestions,
		questions.String(),
		data.UserQuery,
	)
}
