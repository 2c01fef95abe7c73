package ai

import (
	"context"
	"encoding/json"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/prompt"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

var standardQuestions = []string{parser.QuestionAddress, parser.QuestionAmount, parser.QuestionUnit}

// TransferParser is the RemoteParser backed by a language model.
type TransferParser struct {
	invoker       ModelInvoker
	promptBuilder *prompt.PromptBuilder
	cache         *ParseCache
	logger        *zap.Logger
	preset        ModelPreset
}

func NewTransferParser(invoker ModelInvoker, builder *prompt.PromptBuilder, cache *ParseCache, logger *zap.Logger) *TransferParser {
	return &TransferParser{
		invoker:       invoker,
		promptBuilder: builder,
		cache:         cache,
		logger:        logger,
		preset:        PresetPrecise,
	}
}

func (p *TransferParser) Parse(ctx context.Context, text string) (*domain.ParseResult, bool, error) {
	sanitized := util.SanitizeInput(text, constants.AIInputLimits.MaxQueryLength)
	if sanitized == "" {
		return nil, false, errors.NewRemoteParseError("empty input", "input", nil)
	}

	cacheKey := "transfer:" + util.NormalizeKey(sanitized)
	if p.cache != nil {
		if entry, ok := p.cache.Get(cacheKey); ok {
			entry.Result.RawText = text
			return entry.Result, true, nil
		}
	}

	data := prompt.NewTransferParserData(sanitized, standardQuestions, domain.MaxClarifyingQuestions)
	promptText, err := p.promptBuilder.TransferParser(data)
	if err != nil {
		p.logger.Error("Failed to render transfer parser prompt, using fallback", zap.Error(err))
	}

	var raw json.RawMessage
	metadata, err := p.invoker.GenerateJSON(ctx, promptText, p.preset, &raw, nil)
	if err != nil {
		return nil, false, err
	}

	if metadata == nil {
		metadata = &GenerateMetadata{Provider: "unknown"}
	}

	if err := ValidateDocument(raw); err != nil {
		return nil, false, err
	}

	var doc remoteDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, errors.NewRemoteParseError("decode remote document", "decode", err)
	}

	result := sanitize(&doc, text)

	p.logger.Debug("Remote parse completed",
		zap.String("provider", metadata.Provider),
		zap.String("model", metadata.Model),
		zap.Bool("fallback", metadata.UsedFallback),
		zap.String("intent", string(result.Intent)),
		zap.Float64("confidence", result.Confidence),
	)

	if p.cache != nil {
		p.cache.Set(cacheKey, result, metadata)
	}
	return result, false, nil
}
