package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

var (
	statusCodePattern  = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodePattern  = regexp.MustCompile(`"code":(\d{3})`)
	openaiCodePattern  = regexp.MustCompile(`^(\d{3})\s`)
	rateLimitFragments = []string{"429", "Rate limit", "rate limit", "quota"}
)

// ModelManager sends a prompt to the primary provider and, when enabled, to the
// fallback provider. A shared circuit breaker stops both after repeated outages.
type ModelManager struct {
	primary        JSONProvider
	fallback       JSONProvider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey       string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	DefaultGeminiModel string
	DefaultOpenAIModel string
	EnableFallback     bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	gemini, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.DefaultGeminiModel, logger)
	if err != nil {
		return nil, err
	}
	openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.DefaultOpenAIModel, logger)

	var primary, fallback JSONProvider
	switch {
	case gemini != nil:
		primary = gemini
		if cfg.EnableFallback && openaiProvider != nil {
			fallback = openaiProvider
			logger.Info("AI fallback enabled", zap.String("provider", openaiProvider.Name()))
		}
	case openaiProvider != nil:
		primary = openaiProvider
	default:
		return nil, errors.NewValidationError("no AI provider configured", "GEMINI_API_KEY", "")
	}

	return NewModelManagerWithProviders(primary, fallback, logger), nil
}

func NewModelManagerWithProviders(primary, fallback JSONProvider, logger *zap.Logger) *ModelManager {
	return &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		circuitBreaker: util.NewCircuitBreaker(
			"ai",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
	}
}

func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		mm.logger.Warn("AI service unavailable (circuit open)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		)
		return nil, errors.NewRemoteParseError("AI service unavailable", "circuit_open", nil)
	}

	var options GenerateOptions
	if opts != nil {
		options = *opts
	}
	options.JSONMode = true

	primaryResult, primaryErr := mm.invokeProvider(ctx, mm.primary, prompt, preset, &options)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		metadata := &GenerateMetadata{
			Provider: mm.primary.Name(),
			Model:    primaryResult.Model,
		}
		return mm.decodeJSON(primaryResult.Text, metadata, dest)
	}

	if mm.fallback != nil {
		fallbackResult, fallbackErr := mm.invokeProvider(ctx, mm.fallback, prompt, preset, &options)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			metadata := &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}
			return mm.decodeJSON(fallbackResult.Text, metadata, dest)
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fallbackErr)
		return nil, errors.NewRemoteParseError("all AI providers failed", "generate", fallbackErr)
	}

	mm.recordFailure(primaryErr)
	return nil, errors.NewRemoteParseError("AI provider failed", "generate", primaryErr)
}

func (mm *ModelManager) invokeProvider(ctx context.Context, provider JSONProvider, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	if provider == nil {
		return ProviderResult{}, fmt.Errorf("model provider is not configured")
	}
	return provider.Generate(ctx, prompt, preset, opts)
}

func (mm *ModelManager) decodeJSON(text string, metadata *GenerateMetadata, dest any) (*GenerateMetadata, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, errors.NewRemoteParseError(fmt.Sprintf("%s returned empty response", metadata.Provider), "decode", nil)
	}

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		mm.logger.Warn("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", util.TruncateString(cleaned, 200)),
		)
		return nil, errors.NewRemoteParseError(fmt.Sprintf("invalid JSON from %s", metadata.Provider), "decode", err)
	}

	return metadata, nil
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}
	return cleaned
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return true
	}
	if isRateLimitError(err) {
		return true
	}
	if statusCodePattern.MatchString(msg) {
		return true
	}
	if code, ok := providerStatusCode(msg); ok {
		return code >= 500 && code < 600
	}
	return false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if util.ContainsAny(msg, rateLimitFragments) {
		return true
	}
	if code, ok := providerStatusCode(msg); ok {
		return code == 429
	}
	return false
}

func providerStatusCode(msg string) (int, bool) {
	for _, pattern := range []*regexp.Regexp{geminiCodePattern, openaiCodePattern} {
		if matches := pattern.FindStringSubmatch(msg); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return code, true
			}
		}
	}
	return 0, false
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}
