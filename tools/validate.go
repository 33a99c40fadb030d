package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/invopop/jsonschema"
)

// ValidateArguments checks args against the required fields and primitive
// property types of schema. Arguments the schema does not declare are rejected
// when it forbids additional properties.
func ValidateArguments(schema *jsonschema.Schema, args map[string]any) error {
	if schema == nil {
		return nil
	}
	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("%w: missing required argument %q", ErrInvalidArguments, name)
		}
	}
	if schema.AdditionalProperties == jsonschema.FalseSchema {
		for name := range args {
			if schema.Properties == nil {
				return fmt.Errorf("%w: unexpected argument %q", ErrInvalidArguments, name)
			}
			if _, ok := schema.Properties.Get(name); !ok {
				return fmt.Errorf("%w: unexpected argument %q", ErrInvalidArguments, name)
			}
		}
	}
	if schema.Properties == nil {
		return nil
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := args[pair.Key]
		if !ok || pair.Value == nil || pair.Value.Type == "" {
			continue
		}
		if !matchesType(v, pair.Value.Type) {
			return fmt.Errorf("%w: argument %q must be of type %s", ErrInvalidArguments, pair.Key, pair.Value.Type)
		}
	}
	return nil
}

func matchesType(v any, typ string) bool {
	switch typ {
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "number":
		switch v.(type) {
		case float64, float32, int, int64, json.Number:
			return true
		}
	case "integer":
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == math.Trunc(n)
		case json.Number:
			_, err := n.Int64()
			return err == nil
		}
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "null":
		return v == nil
	default:
		return true
	}
	return false
}
