// Package parser turns free-form transfer instructions into a domain.ParseResult
// using keyword, regex and lookup-table rules only. It performs no I/O.
package parser

import (
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
)

// Extractor is safe for concurrent use; it holds no mutable state.
type Extractor struct {
	amountRules []amountRule
}

func NewExtractor() *Extractor {
	return &Extractor{amountRules: defaultAmountRules()}
}

var defaultExtractor = NewExtractor()

// Extract runs the default extractor.
func Extract(text string) *domain.ParseResult {
	return defaultExtractor.Extract(text)
}

// Extract never fails. Any internal fault yields a degraded result with
// confidence 0.1 and the parse failure diagnostic.
func (e *Extractor) Extract(text string) (result *domain.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.NewParseResult(text)
			result.Confidence = constants.Confidence.ExtractionError
			result.SetError(domain.ErrorKindExtractionFailure, domain.DiagnosticParseFailure)
		}
	}()

	return e.extract(text)
}

func (e *Extractor) extract(text string) *domain.ParseResult {
	result := domain.NewParseResult(text)
	lower := strings.ToLower(text)

	if !util.ContainsAny(lower, sendKeywords) {
		result.Intent = domain.IntentOther
		result.Confidence = constants.Confidence.NotSendIntent
		return result
	}
	result.Intent = domain.IntentSend

	if match, ok := findAddress(text); ok {
		result.Address = match.value
		result.Chain = ChainFromAddress(match.value)
		if match.truncated {
			result.AddressValid = false
			result.SetError(domain.ErrorKindTruncationSuspicion, domain.DiagnosticTruncatedAddress)
		} else {
			result.AddressValid = ValidateAddress(match.value)
		}
	}

	result.Amount = extractAmount(e.amountRules, text)

	if result.Chain == domain.ChainUnknown {
		result.Chain = chainFromText(lower)
	}

	ApplyClarification(result)

	if result.Address != "" && !result.AddressValid {
		if result.Kind != domain.ErrorKindTruncationSuspicion {
			result.SetError(domain.ErrorKindAddressFormat, domain.DiagnosticInvalidAddress)
		}
		result.Confidence = util.Max(constants.Confidence.PenaltyFloor, result.Confidence-constants.Confidence.InvalidPenalty)
	}

	return result
}

// MissingSlotQuestions lists a question for each missing slot in the fixed order
// address, amount value, amount unit.
func MissingSlotQuestions(result *domain.ParseResult) []string {
	questions := make([]string, 0, domain.MaxClarifyingQuestions)
	if result.Address == "" {
		questions = append(questions, QuestionAddress)
	}
	if result.Amount.Numeric == nil {
		questions = append(questions, QuestionAmount)
	}
	if !result.HasUnit() {
		questions = append(questions, QuestionUnit)
	}
	if len(questions) > domain.MaxClarifyingQuestions {
		questions = questions[:domain.MaxClarifyingQuestions]
	}
	return questions
}

// ApplyClarification sets need_clarification, the questions and the slot
// completeness confidence of a send result.
func ApplyClarification(result *domain.ParseResult) {
	questions := MissingSlotQuestions(result)
	result.ClarifyingQuestions = questions
	result.NeedClarification = len(questions) > 0
	if result.NeedClarification {
		result.Confidence = constants.Confidence.Incomplete
	} else {
		result.Confidence = constants.Confidence.Complete
	}
}

// ContainsSensitiveData reports whether the text mentions secrets such as a
// private key, seed phrase, mnemonic or password.
func ContainsSensitiveData(text string) bool {
	return util.ContainsAny(strings.ToLower(text), sensitiveKeywords)
}
