package ai

import (
	"context"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/metrics"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"go.uber.org/zap"
)

// Enhancer reconciles a local parse with one remote parse of the same text.
// The remote call gets the caller's context unchanged: no extra timeout, no retry.
type Enhancer struct {
	remote RemoteParser
	logger *zap.Logger
}

// NewEnhancer accepts a nil remote, in which case Enhance always returns the local result.
func NewEnhancer(remote RemoteParser, logger *zap.Logger) *Enhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enhancer{remote: remote, logger: logger}
}

func (e *Enhancer) Enhance(ctx context.Context, local *domain.ParseResult, text string) *domain.ParseResult {
	if local.Confidence > constants.Confidence.SkipRemoteAbove && !local.NeedClarification {
		metrics.ObserveRemote(metrics.RemoteSkipped)
		return local
	}
	if e.remote == nil {
		metrics.ObserveRemote(metrics.RemoteSkipped)
		return local
	}

	remote, cached, err := e.remote.Parse(ctx, text)
	if err != nil || remote == nil {
		metrics.ObserveRemote(metrics.RemoteFailure)
		e.logger.Warn("Remote enhancement failed, keeping local parse",
			zap.Error(err),
			zap.Float64("local_confidence", local.Confidence),
		)
		return local
	}
	if cached {
		metrics.ObserveRemote(metrics.RemoteCached)
	} else {
		metrics.ObserveRemote(metrics.RemoteSuccess)
	}

	return merge(local, remote, text)
}

// merge starts from the local result; below the trust threshold every field is
// taken from the remote result. The higher confidence always wins.
func merge(local, remote *domain.ParseResult, text string) *domain.ParseResult {
	merged := local.Clone()
	if local.Confidence < constants.Confidence.RemoteWinsBelow {
		merged = remote.Clone()
	}
	merged.RawText = text
	merged.Confidence = util.Max(local.Confidence, remote.Confidence)
	return merged
}
