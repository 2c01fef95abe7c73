package chatbot

import (
	"fmt"
	"strconv"

	"github.com/kapu/tia-transfer-bot-go/internal/constants"
	"github.com/kapu/tia-transfer-bot-go/internal/domain"
	"github.com/kapu/tia-transfer-bot-go/internal/util"
)

func notSendIntentResponses() []string {
	return []string{
		"Entiendo que quieres hacer algo, pero no veo una instrucción clara para enviar tokens.",
		"Puedes decirme algo como: 'Envía 5 TIA a celestia1abc...' o '¿Podrías mandar 2 mocha a celestia1xyz...?'",
	}
}

func clarificationResponses(questions []string) []string {
	responses := make([]string, 0, len(questions)+2)
	responses = append(responses, "Necesito más información para procesar tu transacción:")
	responses = append(responses, questions...)
	responses = append(responses, "¿Podrías proporcionar estos datos?")
	return responses
}

func invalidAddressResponses() []string {
	return []string{
		"La dirección que proporcionaste no parece válida.",
		"Las direcciones de Celestia deben empezar con 'celestia1' seguido de caracteres alfanuméricos.",
		"¿Podrías verificar la dirección?",
	}
}

func readyResponses(intent *domain.TransferIntent) []string {
	return []string{
		"✅ ¡Perfecto! He entendido tu solicitud:",
		fmt.Sprintf("💰 Cantidad: %s %s", FormatAmount(intent.Amount), intent.Unit),
		"📍 Destino: " + util.Preview(intent.ToAddress, constants.AddressRules.PreviewLength),
		"🌐 Red: " + intent.Chain.String(),
		"",
		"Procediendo a ejecutar la transacción...",
	}
}

func sensitiveWarningResponses() []string {
	return []string{
		"⚠️ Nunca compartas claves privadas, frases semilla ni contraseñas en el chat. Solo necesito la cantidad y la dirección de destino.",
		"",
	}
}

func apologyResponses() []string {
	return []string{
		"Disculpa, hubo un error procesando tu mensaje.",
		"¿Podrías intentar de nuevo con una instrucción más específica?",
	}
}

// FormatAmount prints the shortest decimal form of an amount ("5", "0.001").
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Help lists example instructions and the data a transfer needs.
func Help() []string {
	return []string{
		"¡Hola! Soy tu asistente para transacciones de Celestia 🚀",
		"",
		"Puedo ayudarte a enviar tokens TIA usando lenguaje natural.",
		"",
		"Ejemplos de comandos:",
		"• 'Envía 5 TIA a celestia1abc...'",
		"• 'Manda 0.1 TIA a celestia1xyz...'",
		"• 'Transfiere 2 mocha a celestia1...'",
		"",
		"Necesito estos datos para procesar tu transacción:",
		"🪙 Cantidad y tipo de token (ej: '5 TIA')",
		"📍 Dirección de destino (celestia1...)",
		"",
		"¿En qué te puedo ayudar hoy?",
	}
}

// Greeting is shown once when a conversation opens.
func Greeting() []string {
	return []string{
		"¡Hola amigo! 👋 ¿Qué tal? Te puedo ayudar a realizar una transacción.",
		"Para enviar tokens necesito algunos datos:",
		"🪙 El tipo de moneda y monto (ej: '5 TIA' o '0.001 mocha')",
		"📍 La dirección del destinatario",
		"💡 Esta es una demostración con wallet conectada automáticamente",
		"¿Con qué te gustaría empezar?",
	}
}
