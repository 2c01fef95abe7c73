package ai

import (
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
)

// remoteDocument mirrors the wire schema with nullable fields so absent values
// can be told apart from zero values.
type remoteDocument struct {
	RawText             string        `json:"raw_text"`
	Address             *string       `json:"address"`
	AddressValid        bool          `json:"address_valid"`
	Chain               *string       `json:"chain"`
	Amount              *remoteAmount `json:"amount"`
	NeedClarification   bool          `json:"need_clarification"`
	ClarifyingQuestions []string      `json:"clarifying_questions"`
	Intent              string        `json:"intent"`
	Confidence          float64       `json:"confidence"`
	Error               *string       `json:"error"`
}

type remoteAmount struct {
	Original *string  `json:"original"`
	Numeric  *float64 `json:"numeric"`
	Unit     *string  `json:"unit"`
}

// sanitize turns a schema-valid remote document into a ParseResult that obeys
// the same invariants as a local one.
func sanitize(doc *remoteDocument, text string) *domain.ParseResult {
	result := domain.NewParseResult(text)
	result.Intent = domain.NormalizeIntent(strings.ToLower(strings.TrimSpace(doc.Intent)))
	result.Confidence = util.Clamp(doc.Confidence, 0, 1)

	if doc.Chain != nil {
		result.Chain = domain.NormalizeChain(strings.ToLower(strings.TrimSpace(*doc.Chain)))
	}

	if doc.Address != nil {
		result.Address = strings.TrimSpace(*doc.Address)
	}
	if result.Address != "" {
		result.AddressValid = parser.ValidateAddress(result.Address)
		if result.AddressValid {
			result.Chain = parser.ChainFromAddress(result.Address)
		}
	}

	if doc.Amount != nil {
		if doc.Amount.Original != nil {
			result.Amount.Original = *doc.Amount.Original
		}
		if doc.Amount.Numeric != nil {
			v := *doc.Amount.Numeric
			result.Amount.Numeric = &v
		}
		if doc.Amount.Unit != nil && strings.TrimSpace(*doc.Amount.Unit) != "" {
			unit := strings.TrimSpace(*doc.Amount.Unit)
			result.Amount.Unit = &unit
		}
	}

	if doc.Error != nil && strings.TrimSpace(*doc.Error) != "" {
		result.SetError(domain.ErrorKindNone, strings.TrimSpace(*doc.Error))
	}
	if result.Address != "" && !result.AddressValid && result.Error == nil {
		result.SetError(domain.ErrorKindAddressFormat, domain.DiagnosticInvalidAddress)
	}

	if result.Intent == domain.IntentSend {
		result.ClarifyingQuestions = parser.MissingSlotQuestions(result)
		result.NeedClarification = len(result.ClarifyingQuestions) > 0
	} else {
		result.ClarifyingQuestions = []string{}
		result.NeedClarification = false
	}

	return result
}
