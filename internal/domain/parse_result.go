package domain

type Intent string

const (
	IntentSend  Intent = "send"
	IntentOther Intent = "other"
)

func NormalizeIntent(raw string) Intent {
	if Intent(raw) == IntentSend {
		return IntentSend
	}
	return IntentOther
}

type Chain string

const (
	ChainCelestia Chain = "celestia"
	ChainMocha    Chain = "mocha"
	ChainUnknown  Chain = "unknown"
)

func (c Chain) String() string {
	return string(c)
}

func NormalizeChain(raw string) Chain {
	switch Chain(raw) {
	case ChainCelestia:
		return ChainCelestia
	case ChainMocha:
		return ChainMocha
	default:
		return ChainUnknown
	}
}

// ErrorKind classifies the diagnostic attached to a ParseResult. It is kept out of
// the wire schema so local and remote documents stay interchangeable.
type ErrorKind string

const (
	ErrorKindNone                ErrorKind = ""
	ErrorKindExtractionFailure   ErrorKind = "extraction_failure"
	ErrorKindAddressFormat       ErrorKind = "address_format"
	ErrorKindTruncationSuspicion ErrorKind = "truncation_suspicion"
)

const (
	DiagnosticParseFailure     = "parse failure"
	DiagnosticTruncatedAddress = "address appears truncated"
	DiagnosticInvalidAddress   = "invalid address format"
)

const MaxClarifyingQuestions = 3

type Amount struct {
	Original string   `json:"original"`
	Numeric  *float64 `json:"numeric"`
	Unit     *string  `json:"unit"`
}

type ParseResult struct {
	RawText             string   `json:"raw_text"`
	Address             string   `json:"address"`
	AddressValid        bool     `json:"address_valid"`
	Chain               Chain    `json:"chain"`
	Amount              Amount   `json:"amount"`
	NeedClarification   bool     `json:"need_clarification"`
	ClarifyingQuestions []string `json:"clarifying_questions"`
	Intent              Intent   `json:"intent"`
	Confidence          float64  `json:"confidence"`
	Error               *string  `json:"error"`

	Kind ErrorKind `json:"-"`
}

// NewParseResult returns the default document every parsing pass starts from.
func NewParseResult(rawText string) *ParseResult {
	return &ParseResult{
		RawText:             rawText,
		Chain:               ChainUnknown,
		ClarifyingQuestions: []string{},
		Intent:              IntentOther,
	}
}

func (r *ParseResult) SetError(kind ErrorKind, message string) {
	msg := message
	r.Error = &msg
	r.Kind = kind
}

func (r *ParseResult) ErrorMessage() string {
	if r == nil || r.Error == nil {
		return ""
	}
	return *r.Error
}

func (r *ParseResult) HasAmount() bool {
	return r != nil && r.Amount.Numeric != nil
}

func (r *ParseResult) HasUnit() bool {
	return r != nil && r.Amount.Unit != nil && *r.Amount.Unit != ""
}

func (r *ParseResult) UnitOr(fallback string) string {
	if r.HasUnit() {
		return *r.Amount.Unit
	}
	return fallback
}

// Clone returns a deep copy so merges never alias pointer fields.
func (r *ParseResult) Clone() *ParseResult {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Amount.Numeric != nil {
		v := *r.Amount.Numeric
		cp.Amount.Numeric = &v
	}
	if r.Amount.Unit != nil {
		v := *r.Amount.Unit
		cp.Amount.Unit = &v
	}
	if r.Error != nil {
		v := *r.Error
		cp.Error = &v
	}
	cp.ClarifyingQuestions = append([]string{}, r.ClarifyingQuestions...)
	return &cp
}

// IsTransferReady reports whether the result carries every slot a TransferIntent needs.
func (r *ParseResult) IsTransferReady() bool {
	if r == nil {
		return false
	}
	return r.Intent == IntentSend &&
		r.Address != "" &&
		r.AddressValid &&
		r.Amount.Numeric != nil &&
		!r.NeedClarification
}
