package ai

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	f.calls++
	if opts == nil || !opts.JSONMode {
		return ProviderResult{}, stderrors.New("json mode not requested")
	}
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return ProviderResult{Text: f.text, Model: f.name + "-model"}, nil
}

type payload struct {
	Intent string `json:"intent"`
}

func TestGenerateJSONPrimary(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: "```json\n{\"intent\":\"send\"}\n```"}
	fallback := &fakeProvider{name: "DeepSeek"}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	var out payload
	meta, err := mm.GenerateJSON(context.Background(), "p", PresetPrecise, &out, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Intent != "send" || meta.Provider != "Gemini" || meta.UsedFallback {
		t.Fatalf("unexpected result %+v %+v", out, meta)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not be called")
	}
}

func TestGenerateJSONFallback(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: stderrors.New("googleapi: Error 503: overloaded")}
	fallback := &fakeProvider{name: "DeepSeek", text: `{"intent":"other"}`}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	var out payload
	meta, err := mm.GenerateJSON(context.Background(), "p", PresetPrecise, &out, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !meta.UsedFallback || meta.Provider != "DeepSeek" || out.Intent != "other" {
		t.Fatalf("expected fallback result, got %+v %+v", meta, out)
	}
}

func TestGenerateJSONInvalidJSON(t *testing.T) {
	mm := NewModelManagerWithProviders(&fakeProvider{name: "Gemini", text: "not json"}, nil, zap.NewNop())

	var out payload
	_, err := mm.GenerateJSON(context.Background(), "p", PresetPrecise, &out, nil)
	var remoteErr *errors.RemoteParseError
	if !stderrors.As(err, &remoteErr) || remoteErr.Stage != "decode" {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestGenerateJSONOpensCircuit(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: stderrors.New("503 Service Unavailable")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	var out payload
	for i := 0; i < 3; i++ {
		if _, err := mm.GenerateJSON(context.Background(), "p", PresetPrecise, &out, nil); err == nil {
			t.Fatalf("expected failure")
		}
	}
	if mm.GetCircuitStatus().State != util.CircuitStateOpen {
		t.Fatalf("expected open circuit, got %s", mm.GetCircuitStatus().State)
	}

	_, err := mm.GenerateJSON(context.Background(), "p", PresetPrecise, &out, nil)
	var remoteErr *errors.RemoteParseError
	if !stderrors.As(err, &remoteErr) || remoteErr.Stage != "circuit_open" {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if primary.calls != 3 {
		t.Fatalf("provider must not be called while open, got %d calls", primary.calls)
	}

	mm.ResetCircuit()
	if mm.GetCircuitStatus().State != util.CircuitStateClosed {
		t.Fatalf("expected closed after reset")
	}
}

func TestClientErrorsDoNotTripCircuit(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: stderrors.New("400 invalid argument")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	var out payload
	for i := 0; i < 5; i++ {
		_, _ = mm.GenerateJSON(context.Background(), "p", PresetPrecise, &out, nil)
	}
	if mm.GetCircuitStatus().State != util.CircuitStateClosed {
		t.Fatalf("client errors must not open the circuit")
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n{}\n```": "{}",
		"```\n{}```":       "{}",
		"  {}  ":           "{}",
	}
	for in, want := range cases {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPresetConfigs(t *testing.T) {
	precise := GetPresetConfig(PresetPrecise)
	if precise.MaxOutputTokens != 500 || precise.TopK != 20 {
		t.Fatalf("unexpected precise gemini config %+v", precise)
	}
	if got := GetPresetConfig(ModelPreset("creative")); got != precise {
		t.Fatalf("unknown preset should fall back to precise, got %+v", got)
	}

	openAI := GetOpenAIPresetConfig(PresetPrecise)
	if openAI.MaxTokens != 500 {
		t.Fatalf("unexpected precise openai config %+v", openAI)
	}
	if got := GetOpenAIPresetConfig(ModelPreset("creative")); got != openAI {
		t.Fatalf("unknown preset should fall back to precise, got %+v", got)
	}
}
