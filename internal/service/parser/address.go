package parser

import (
	"regexp"
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
)

var (
	fullAddressPattern    = regexp.MustCompile(`(?i)(celestia1[a-z0-9]{38,58}|mocha1[a-z0-9]{38,58})`)
	partialAddressPattern = regexp.MustCompile(`(?i)(celestia1[a-z0-9]{3,}|mocha1[a-z0-9]{3,})`)

	celestiaBody = regexp.MustCompile(`^celestia1[a-z0-9]+$`)
	mochaBody    = regexp.MustCompile(`^mocha1[a-z0-9]+$`)
)

// ValidateAddress performs a structural check only: known prefix, minimum length and
// lowercase alphanumeric body. The bech32 checksum is not verified, so a well-shaped
// address with a wrong checksum is accepted.
func ValidateAddress(address string) bool {
	switch {
	case strings.HasPrefix(address, constants.AddressRules.CelestiaPrefix):
		return len(address) >= constants.AddressRules.CelestiaMinLength && celestiaBody.MatchString(address)
	case strings.HasPrefix(address, constants.AddressRules.MochaPrefix):
		return len(address) >= constants.AddressRules.MochaMinLength && mochaBody.MatchString(address)
	default:
		return false
	}
}

// ChainFromAddress derives the chain from the address prefix, ignoring case.
func ChainFromAddress(address string) domain.Chain {
	lower := strings.ToLower(address)
	switch {
	case strings.HasPrefix(lower, constants.AddressRules.CelestiaPrefix):
		return domain.ChainCelestia
	case strings.HasPrefix(lower, constants.AddressRules.MochaPrefix):
		return domain.ChainMocha
	default:
		return domain.ChainUnknown
	}
}

func chainFromText(lowerText string) domain.Chain {
	switch {
	case strings.Contains(lowerText, string(domain.ChainCelestia)):
		return domain.ChainCelestia
	case strings.Contains(lowerText, string(domain.ChainMocha)):
		return domain.ChainMocha
	default:
		return domain.ChainUnknown
	}
}

type addressMatch struct {
	value     string
	truncated bool
}

func findAddress(text string) (addressMatch, bool) {
	if m := fullAddressPattern.FindString(text); m != "" {
		return addressMatch{value: m}, true
	}
	if m := partialAddressPattern.FindString(text); m != "" {
		return addressMatch{value: m, truncated: true}, true
	}
	return addressMatch{}, false
}
