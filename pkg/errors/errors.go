package errors

import "fmt"

// Error codes
const (
	CodeBotError    = "BOT_ERROR"
	CodeAPIError    = "API_ERROR"
	CodeValidation  = "VALIDATION_ERROR"
	CodeCache       = "CACHE_ERROR"
	CodeService     = "SERVICE_ERROR"
	CodeRemoteParse = "REMOTE_PARSE_ERROR"
	CodeWallet      = "WALLET_ERROR"
)

type BotError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *BotError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BotError) Unwrap() error {
	return e.Cause
}

func NewBotError(message, code string, statusCode int, context map[string]any) *BotError {
	return &BotError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *BotError) WithCause(cause error) *BotError {
	e.Cause = cause
	return e
}

type APIError struct {
	*BotError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*BotError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*BotError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*BotError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// RemoteParseError wraps any failure of the remote parsing collaborator:
// transport, provider, decoding or schema violations.
type RemoteParseError struct {
	*BotError
	Stage string
}

func NewRemoteParseError(message, stage string, cause error) *RemoteParseError {
	return &RemoteParseError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeRemoteParse,
			StatusCode: 502,
			Context: map[string]any{
				"stage": stage,
			},
			Cause: cause,
		},
		Stage: stage,
	}
}

type WalletError struct {
	*BotError
	RequestID string
}

func NewWalletError(message, requestID string, cause error) *WalletError {
	return &WalletError{
		BotError: &BotError{
			Message:    message,
			Code:       CodeWallet,
			StatusCode: 502,
			Context: map[string]any{
				"request_id": requestID,
			},
			Cause: cause,
		},
		RequestID: requestID,
	}
}
