package ai

import (
	"context"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
)

// ModelPreset represents the model usage preset
type ModelPreset string

// PresetPrecise keeps sampling tight for structured extraction.
const PresetPrecise ModelPreset = "precise"

// ModelConfig holds model configuration
type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string
}

// OpenAIConfig holds OpenAI-compatible chat completion settings
type OpenAIConfig struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata contains metadata about the generation
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds options for AI generation
type GenerateOptions struct {
	Model        string
	JSONMode     bool
	SystemPrompt string
	Overrides    *ModelConfig
}

// ModelInvoker is the subset of ModelManager the remote parser needs.
type ModelInvoker interface {
	GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error)
}

// RemoteParser is the remote collaborator that produces a ParseResult for the
// same text the local extractor saw. cached reports a result served without a
// model call.
type RemoteParser interface {
	Parse(ctx context.Context, text string) (result *domain.ParseResult, cached bool, err error)
}

var geminiPresets = map[ModelPreset]ModelConfig{
	PresetPrecise: {
		Temperature:     0.1,
		TopP:            0.9,
		TopK:            20,
		MaxOutputTokens: 500,
	},
}

var openAIPresets = map[ModelPreset]OpenAIConfig{
	PresetPrecise: {
		Temperature: 0.1,
		MaxTokens:   500,
		TopP:        0.9,
	},
}

// GetPresetConfig returns the Gemini configuration for a preset; unknown presets
// get the precise one.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	if cfg, ok := geminiPresets[preset]; ok {
		return cfg
	}
	return geminiPresets[PresetPrecise]
}

// GetOpenAIPresetConfig returns the OpenAI configuration for a preset; unknown
// presets get the precise one.
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIConfig {
	if cfg, ok := openAIPresets[preset]; ok {
		return cfg
	}
	return openAIPresets[PresetPrecise]
}
