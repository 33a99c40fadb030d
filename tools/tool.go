package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// ToolDefinition is a named local capability the model may request.
// Function receives the JSON-encoded arguments and returns text or an error
// whose message becomes the tool result.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(input json.RawMessage) (string, error)
}

// ErrInvalidArguments marks arguments that do not match a tool's input contract.
var ErrInvalidArguments = errors.New("invalid arguments")

// GenerateSchema reflects the JSON Schema of a tool input struct.
// Fields without omitempty are required.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var inputValidate = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match what the model sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeInput unmarshals and validates a tool input.
func decodeInput[T any](input json.RawMessage) (T, error) {
	var in T
	if err := json.Unmarshal(input, &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := inputValidate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return in, fmt.Errorf("%w: %s", ErrInvalidArguments, strings.Join(msgs, "; "))
		}
		return in, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return in, nil
}
