// schema.go generates JSON Schema documents from Go structs for
// ChatOptions.ResponseSchema, grounded on invopop/jsonschema (the
// struct-tag-driven schema generator present in the teacher's own
// go.mod and used by several retrieved examples for exactly this
// "force strict JSON out of an LLM" purpose).
package llm

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects over a zero value of T and returns its JSON Schema
// as a plain map, suitable for ChatOptions.ResponseSchema.
func SchemaFor[T any]() map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	var zero T
	schema := reflector.Reflect(zero)

	data, err := schema.MarshalJSON()
	if err != nil {
		return nil
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
