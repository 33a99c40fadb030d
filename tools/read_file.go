package tools

import (
	"encoding/json"

	"github.com/petasbytes/toolloop/internal/fsops"
)

type ReadFileInput struct {
	Path string `json:"path" validate:"required" jsonschema_description:"The relative path of a file in the working directory."`
}

var ReadFileDefinition = ToolDefinition{
	Name:        "read_file",
	Description: "Read the contents of a given relative file path. Use this when you want to see what's inside a file. Do not use this with directory names.",
	InputSchema: ReadFileInputSchema,
	Function:    ReadFile,
}

var ReadFileInputSchema = GenerateSchema[ReadFileInput]()

// ReadFile returns the full content of the file. Missing paths fail with fsops.ErrNotFound.
func ReadFile(input json.RawMessage) (string, error) {
	in, err := decodeInput[ReadFileInput](input)
	if err != nil {
		return "", err
	}
	return fsops.ReadFile(in.Path)
}
