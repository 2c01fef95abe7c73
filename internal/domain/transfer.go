package domain

// DefaultUnit and DefaultChain fill TransferIntent fields the parse left empty.
const (
	DefaultUnit  = "TIA"
	DefaultChain = ChainCelestia
)

type TransferIntent struct {
	ToAddress string  `json:"toAddress"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	Chain     Chain   `json:"chain"`
}

// NewTransferIntent builds the wallet payload from a ready parse result. It returns
// false when the result is missing any required slot.
func NewTransferIntent(result *ParseResult) (*TransferIntent, bool) {
	if !result.IsTransferReady() {
		return nil, false
	}

	chain := result.Chain
	if chain == "" {
		chain = DefaultChain
	}

	return &TransferIntent{
		ToAddress: result.Address,
		Amount:    *result.Amount.Numeric,
		Unit:      result.UnitOr(DefaultUnit),
		Chain:     chain,
	}, true
}

// Receipt is what the wallet runtime reports back after executing a TransferIntent.
type Receipt struct {
	TxHash    string `json:"tx_hash"`
	GasUsed   int64  `json:"gas_used"`
	Simulated bool   `json:"simulated"`
	Error     string `json:"error,omitempty"`
}
