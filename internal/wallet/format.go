package wallet

import (
	stderrors "errors"
	"strconv"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
)

// FormatReceipt renders the chat lines shown after a successful transfer.
func FormatReceipt(intent domain.TransferIntent, receipt *domain.Receipt) []string {
	headline := "✅ ¡Transacción ejecutada con éxito!"
	footer := "¡Transacción real completada!"
	if receipt.Simulated {
		headline = "✅ ¡Transacción simulada con éxito!"
		footer = "Esta fue una transacción de demostración."
	}

	return []string{
		headline,
		"",
		"Hash: " + receipt.TxHash,
		"Enviado: " + strconv.FormatFloat(intent.Amount, 'f', -1, 64) + " " + intent.Unit,
		"Destino: " + util.Preview(intent.ToAddress, constants.AddressRules.PreviewLength),
		"Gas usado: " + strconv.FormatInt(receipt.GasUsed, 10),
		"",
		footer,
	}
}

// FormatError renders a failed transfer. Wallet errors show only their message,
// never the wrapped cause.
func FormatError(err error) string {
	message := err.Error()
	var walletErr *errors.WalletError
	if stderrors.As(err, &walletErr) {
		message = walletErr.Message
	}
	return "❌ Error en la transacción: " + message
}
