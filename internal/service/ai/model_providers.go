package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const jsonOnlyInstruction = "You must respond with valid JSON only. Do not include any text outside the JSON object."

type JSONProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error)
}

type ProviderResult struct {
	Text  string
	Model string
}

// GeminiProvider wraps the Gemini client with preset-aware generation logic.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
	logger       *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, defaultModel string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if defaultModel == "" {
		defaultModel = "gemini-2.5-flash"
	}

	return &GeminiProvider{
		client:       client,
		defaultModel: defaultModel,
		logger:       logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	if g.client == nil {
		return ProviderResult{}, fmt.Errorf("gemini client not initialized")
	}

	modelName := g.defaultModel
	if opts != nil && opts.Model != "" {
		modelName = opts.Model
	}

	config := GetPresetConfig(preset)
	if opts != nil && opts.Overrides != nil {
		if opts.Overrides.Temperature > 0 {
			config.Temperature = opts.Overrides.Temperature
		}
		if opts.Overrides.MaxOutputTokens > 0 {
			config.MaxOutputTokens = opts.Overrides.MaxOutputTokens
		}
	}
	if opts != nil && opts.JSONMode {
		config.ResponseMimeType = "application/json"
	}

	g.logger.Debug("Generating with Gemini",
		zap.String("model", modelName),
		zap.String("preset", string(preset)),
	)

	topK := float32(config.TopK)
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &config.Temperature,
		TopP:             &config.TopP,
		TopK:             &topK,
		MaxOutputTokens:  int32(config.MaxOutputTokens),
		ResponseMIMEType: config.ResponseMimeType,
	}
	if opts != nil && opts.SystemPrompt != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.SystemPrompt}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelName, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}, genConfig)
	if err != nil {
		g.logger.Warn("Gemini generation failed", zap.Error(err))
		return ProviderResult{}, err
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		return ProviderResult{}, fmt.Errorf("empty response from Gemini")
	}

	return ProviderResult{Text: text, Model: modelName}, nil
}

// OpenAIProvider wraps an OpenAI-compatible chat completion endpoint. A custom
// base URL points it at DeepSeek or any other compatible API.
type OpenAIProvider struct {
	client       *openai.Client
	name         string
	defaultModel string
	logger       *zap.Logger
}

func NewOpenAIProvider(apiKey, baseURL, defaultModel string, logger *zap.Logger) *OpenAIProvider {
	if apiKey == "" {
		return nil
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	name := "OpenAI"
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
		if strings.Contains(baseURL, "deepseek") {
			name = "DeepSeek"
		}
	}

	if defaultModel == "" {
		defaultModel = "gpt-4.1-mini"
	}

	client := openai.NewClient(opts...)
	return &OpenAIProvider{
		client:       &client,
		name:         name,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return o.name
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	if o.client == nil {
		return ProviderResult{}, fmt.Errorf("%s client not initialized", o.name)
	}

	modelName := o.defaultModel
	if opts != nil && opts.Model != "" {
		modelName = opts.Model
	}
	config := GetOpenAIPresetConfig(preset)

	o.logger.Debug("Generating with OpenAI-compatible provider",
		zap.String("provider", o.name),
		zap.String("model", modelName),
		zap.String("preset", string(preset)),
	)

	var messages []openai.ChatCompletionMessageParamUnion
	if opts != nil && opts.JSONMode {
		messages = append(messages, openai.SystemMessage(jsonOnlyInstruction))
	}
	if opts != nil && opts.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelName),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(config.MaxTokens)),
		Temperature: openai.Float(float64(config.Temperature)),
		TopP:        openai.Float(float64(config.TopP)),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Warn("OpenAI-compatible generation failed", zap.String("provider", o.name), zap.Error(err))
		return ProviderResult{}, err
	}

	if len(resp.Choices) == 0 {
		return ProviderResult{}, fmt.Errorf("no choices in %s response", o.name)
	}

	text := resp.Choices[0].Message.Content
	o.logger.Debug("OpenAI-compatible response received",
		zap.String("provider", o.name),
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return ProviderResult{Text: text, Model: modelName}, nil
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}
