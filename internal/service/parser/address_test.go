package parser

import (
	"testing"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
)

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		name    string
		address string
		want    bool
	}{
		{"celestia", celestiaAddr, true},
		{"mocha", mochaAddr, true},
		{"bad checksum still accepted", celestiaAddr[:len(celestiaAddr)-1] + "q", true},
		{"celestia too short", "celestia1abcdef", false},
		{"celestia at minimum length", "celestia1" + "abcdefghijklmnopqrstuvwxyz0123456789", true},
		{"celestia one below minimum", "celestia1" + "abcdefghijklmnopqrstuvwxyz012345678", false},
		{"mocha too short", "mocha1abcdef", false},
		{"uppercase body", "celestia1" + "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", false},
		{"uppercase prefix", "CELESTIA1abcdefghijklmnopqrstuvwxyz0123456789", false},
		{"symbols", "celestia1abcdefghijklmnopqrstuvwxyz012345678-", false},
		{"foreign prefix", "cosmos1abcdefghijklmnopqrstuvwxyz0123456789abcd", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		if got := ValidateAddress(tc.address); got != tc.want {
			t.Fatalf("%s: ValidateAddress(%q) = %v, want %v", tc.name, tc.address, got, tc.want)
		}
	}
}

func TestChainFromAddress(t *testing.T) {
	cases := map[string]domain.Chain{
		celestiaAddr:   domain.ChainCelestia,
		"MOCHA1abc":    domain.ChainMocha,
		"cosmos1abc":   domain.ChainUnknown,
		"":             domain.ChainUnknown,
		"Celestia1xyz": domain.ChainCelestia,
	}
	for addr, want := range cases {
		if got := ChainFromAddress(addr); got != want {
			t.Fatalf("ChainFromAddress(%q) = %s, want %s", addr, got, want)
		}
	}
}
