// Package chatbot drives one conversation turn: extract, enhance, then answer
// with clarification questions, an address explanation or a ready transfer.
package chatbot

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/metrics"
	"github.com/kapu/tia-transfer-bot-go/internal/service/parser"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type Extractor interface {
	Extract(text string) *domain.ParseResult
}

type Enhancer interface {
	Enhance(ctx context.Context, local *domain.ParseResult, text string) *domain.ParseResult
}

// Service owns a single conversation session. It is not safe for concurrent use.
type Service struct {
	extractor Extractor
	enhancer  Enhancer
	session   *domain.Session
	logger    *zap.Logger
}

// NewService builds a service around session, or a fresh one when session is nil.
// A nil enhancer keeps every turn local.
func NewService(extractor Extractor, enhancer Enhancer, session *domain.Session, logger *zap.Logger) *Service {
	if extractor == nil {
		extractor = parser.NewExtractor()
	}
	if session == nil {
		session = domain.NewSession()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor: extractor,
		enhancer:  enhancer,
		session:   session,
		logger:    logger,
	}
}

// ProcessMessage always answers. The session is only updated once the reply
// is fully assembled, so a failed turn leaves it untouched.
func (s *Service) ProcessMessage(ctx context.Context, text string) (reply *domain.Reply) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewBotError("chat turn panicked", errors.CodeBotError, 500, map[string]any{
				"panic": fmt.Sprint(r),
			})
			s.logger.Error("Chat turn panicked", zap.Error(err))
			reply = failureReply()
		}
		metrics.ObserveTurn(reply.State.String(), started)
	}()

	sensitive := parser.ContainsSensitiveData(text)
	if sensitive {
		s.logger.Warn("Message mentions sensitive data")
	}

	result := s.extractor.Extract(text)
	if s.enhancer != nil {
		result = s.enhancer.Enhance(ctx, result, text)
	}

	reply, pending := assemble(result)
	if sensitive {
		reply.SensitiveWarning = true
		reply.Responses = append(sensitiveWarningResponses(), reply.Responses...)
	}
	if reply.State == domain.StateFailure && result == nil {
		s.logger.Error("Chat turn produced no parse result")
		return reply
	}
	if reply.State == domain.StateFailure {
		s.logger.Error("Chat turn reached no response branch",
			zap.String("intent", string(result.Intent)),
			zap.Bool("need_clarification", result.NeedClarification),
			zap.Bool("address_valid", result.AddressValid),
		)
		return reply
	}

	s.session.LastParseResult = result
	if pending != nil {
		s.session.PendingTransaction = pending
	}
	return reply
}

func assemble(result *domain.ParseResult) (*domain.Reply, *domain.TransferIntent) {
	if result == nil {
		return failureReply(), nil
	}

	reply := domain.NewReply()
	reply.ParseResult = result

	switch {
	case result.Intent != domain.IntentSend:
		reply.State = domain.StateNotSendIntent
		reply.Responses = notSendIntentResponses()
		return reply, nil
	case result.NeedClarification:
		reply.State = domain.StateNeedsClarification
		reply.Responses = clarificationResponses(result.ClarifyingQuestions)
		return reply, nil
	case result.Address != "" && !result.AddressValid:
		reply.State = domain.StateInvalidAddress
		reply.Responses = invalidAddressResponses()
		return reply, nil
	}

	intent, ok := domain.NewTransferIntent(result)
	if !ok {
		failed := failureReply()
		failed.ParseResult = result
		return failed, nil
	}

	reply.State = domain.StateReady
	reply.Responses = readyResponses(intent)
	reply.TransactionReady = true
	reply.TransactionData = intent
	return reply, intent
}

func failureReply() *domain.Reply {
	reply := domain.NewReply()
	reply.State = domain.StateFailure
	reply.Responses = apologyResponses()
	return reply
}

// Reset clears the pending transaction, the last parse and the confirmation flag.
func (s *Service) Reset() {
	s.session.Reset()
}

// Session returns a copy of the current session state.
func (s *Service) Session() *domain.Session {
	return s.session.Clone()
}
