package fortune

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"fortune-proxy/api/internal/fortune/types"
)

// Normalize гарантирует эту форму для любого входа.
const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "lead", "overview", "advice", "warnings", "chance_days", "lucky_color", "lucky_number", "keywords", "tone"],
  "properties": {
    "title":        {"type": "string", "minLength": 1},
    "lead":         {"type": "string", "minLength": 1},
    "overview":     {"type": "string"},
    "advice":       {"type": "array", "maxItems": 5, "items": {"type": "string", "minLength": 1}},
    "warnings":     {"type": "array", "maxItems": 2, "items": {"type": "string", "minLength": 1}},
    "chance_days":  {"type": "array", "minItems": 1, "maxItems": 3, "uniqueItems": true,
                     "items": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}},
    "lucky_color":  {"type": "string", "minLength": 1},
    "lucky_number": {"type": "string", "pattern": "^([0-9]|[1-9][0-9])$"},
    "keywords":     {"type": "array", "maxItems": 6, "items": {"type": "string", "minLength": 1}},
    "tone":         {"type": "string", "enum": ["normal", "ura"]},
    "ranking": {
      "type": "object",
      "required": ["foods", "spots", "items"],
      "additionalProperties": {"type": "array", "maxItems": 3, "items": {"type": "string"}}
    }
  }
}`

var compiledResultSchema = mustSchema(resultSchema)

func mustSchema(s string) *gojsonschema.Schema {
	sch, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("bad result schema: %v", err))
	}
	return sch
}

// CheckResult сверяет сериализованный результат со схемой.
func CheckResult(r types.FortuneResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	res, err := compiledResultSchema.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New("result schema: " + strings.Join(msgs, "; "))
}
