package domain

// Session is the per-conversation state. It is owned by exactly one orchestrator
// and must not be shared between conversations.
type Session struct {
	PendingTransaction   *TransferIntent `json:"pending_transaction"`
	LastParseResult      *ParseResult    `json:"last_parse_result"`
	AwaitingConfirmation bool            `json:"awaiting_confirmation"`
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Reset() {
	s.PendingTransaction = nil
	s.LastParseResult = nil
	s.AwaitingConfirmation = false
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := &Session{
		LastParseResult:      s.LastParseResult.Clone(),
		AwaitingConfirmation: s.AwaitingConfirmation,
	}
	if s.PendingTransaction != nil {
		pending := *s.PendingTransaction
		cp.PendingTransaction = &pending
	}
	return cp
}

func (s *Session) IsEmpty() bool {
	return s.PendingTransaction == nil && s.LastParseResult == nil && !s.AwaitingConfirmation
}

type State string

const (
	StateNotSendIntent      State = "not_send_intent"
	StateNeedsClarification State = "needs_clarification"
	StateInvalidAddress     State = "invalid_address"
	StateReady              State = "ready"
	StateFailure            State = "failure"
)

func (s State) String() string {
	return string(s)
}

// Reply is the result of processing one incoming message.
type Reply struct {
	Responses        []string        `json:"responses"`
	TransactionReady bool            `json:"transactionReady"`
	TransactionData  *TransferIntent `json:"transactionData"`

	State       State        `json:"-"`
	ParseResult *ParseResult `json:"-"`

	// SensitiveWarning is set when the message mentioned a secret.
	SensitiveWarning bool `json:"-"`
}

func NewReply() *Reply {
	return &Reply{Responses: []string{}}
}
