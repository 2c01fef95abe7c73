package parser

var sendKeywords = []string{"envía", "envia", "manda", "mande", "send", "transfer", "transferir", "enviar"}

var sensitiveKeywords = []string{
	"private key", "clave privada",
	"seed phrase", "frase semilla",
	"mnemonic", "mnemónica",
	"password", "contraseña",
}

// numberWords covers the spelled-out numbers zero to ten in Spanish and English.
var numberWords = map[string]float64{
	"cero": 0, "zero": 0,
	"uno": 1, "una": 1, "one": 1,
	"dos": 2, "two": 2,
	"tres": 3, "three": 3,
	"cuatro": 4, "four": 4,
	"cinco": 5, "five": 5,
	"seis": 6, "six": 6,
	"siete": 7, "seven": 7,
	"ocho": 8, "eight": 8,
	"nueve": 9, "nine": 9,
	"diez": 10, "ten": 10,
}

// Clarifying questions, in the order slots are checked.
const (
	QuestionAddress = "¿A qué dirección quieres enviar?"
	QuestionAmount  = "¿Cuánto quieres enviar?"
	QuestionUnit    = "¿En qué unidad (ej. TIA, MOCHA)?"
)
