package ai

import (
	"fmt"
	"strings"

	"github.com/kapu/tia-transfer-bot-go/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// parseResultSchema checks field types only. Enum values and ranges are
// normalized afterwards instead of rejected.
const parseResultSchema = `{
  "type": "object",
  "required": ["intent"],
  "properties": {
    "raw_text": {"type": "string"},
    "address": {"type": ["string", "null"]},
    "address_valid": {"type": "boolean"},
    "chain": {"type": ["string", "null"]},
    "amount": {
      "type": ["object", "null"],
      "properties": {
        "original": {"type": ["string", "null"]},
        "numeric": {"type": ["number", "null"]},
        "unit": {"type": ["string", "null"]}
      }
    },
    "need_clarification": {"type": "boolean"},
    "clarifying_questions": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    },
    "intent": {"type": "string"},
    "confidence": {"type": "number"},
    "error": {"type": ["string", "null"]}
  }
}`

var parseResultSchemaLoader = gojsonschema.NewStringLoader(parseResultSchema)

// ValidateDocument checks a raw remote document against the ParseResult schema.
func ValidateDocument(document []byte) error {
	result, err := gojsonschema.Validate(parseResultSchemaLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return errors.NewRemoteParseError("schema validation error", "schema", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewRemoteParseError(
			"remote document does not match schema",
			"schema",
			fmt.Errorf("%s", strings.Join(errs, "; ")),
		)
	}

	return nil
}
