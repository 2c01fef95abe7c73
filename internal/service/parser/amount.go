package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
)

const (
	unitAlternatives = `(tia|mocha|utia|umocha|atom|uatom)`
	wordAlternatives = `(cero|zero|uno|una|one|dos|two|tres|three|cuatro|four|cinco|five|seis|six|siete|seven|ocho|eight|nueve|nine|diez|ten)`
)

// amountRule is one entry of the ordered amount rule list. The first rule with a
// match wins and only its first occurrence in the text is used.
type amountRule struct {
	name    string
	pattern *regexp.Regexp
	resolve func(number string) (float64, bool)
}

func defaultAmountRules() []amountRule {
	return []amountRule{
		{
			name:    "number_with_unit",
			pattern: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*` + unitAlternatives),
			resolve: parseDecimal,
		},
		{
			name:    "word_with_unit",
			pattern: regexp.MustCompile(`(?i)\b` + wordAlternatives + `\s*` + unitAlternatives),
			resolve: lookupWord,
		},
		{
			name:    "bare_number",
			pattern: regexp.MustCompile(`(\d+(?:\.\d+)?)`),
			resolve: parseDecimal,
		},
		{
			name:    "bare_word",
			pattern: regexp.MustCompile(`(?i)\b` + wordAlternatives + `\b`),
			resolve: lookupWord,
		},
	}
}

func parseDecimal(number string) (float64, bool) {
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func lookupWord(word string) (float64, bool) {
	v, ok := numberWords[strings.ToLower(word)]
	return v, ok
}

func extractAmount(rules []amountRule, text string) domain.Amount {
	amount := domain.Amount{}

	for _, rule := range rules {
		groups := rule.pattern.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		amount.Original = groups[0]
		if v, ok := rule.resolve(groups[1]); ok {
			amount.Numeric = &v
		}
		if len(groups) > 2 && groups[2] != "" {
			unit := groups[2]
			amount.Unit = &unit
		}
		break
	}

	if amount.Numeric != nil && amount.Unit == nil {
		amount.Unit = inferUnit(strings.ToLower(text))
	}
	return amount
}

// inferUnit looks for a unit mention anywhere in the text. An address like
// "celestia1..." also contains "tia" and therefore infers TIA.
func inferUnit(lowerText string) *string {
	var unit string
	switch {
	case strings.Contains(lowerText, "tia"):
		unit = "TIA"
	case strings.Contains(lowerText, "mocha"):
		unit = "MOCHA"
	default:
		return nil
	}
	return &unit
}
