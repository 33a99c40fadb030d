package tools

import (
	"encoding/json"

	"github.com/petasbytes/toolloop/internal/fsops"
)

type CreateFileInput struct {
	Path    string `json:"path" validate:"required" jsonschema_description:"The relative path of the new file"`
	Content string `json:"content" jsonschema_description:"Full content of the new file"`
}

var CreateFileDefinition = ToolDefinition{
	Name:        "create_file",
	Description: "Create a new text file with the given content. Fails if the path already exists; use edit_file to change existing files.",
	InputSchema: CreateFileInputSchema,
	Function:    CreateFile,
}

var CreateFileInputSchema = GenerateSchema[CreateFileInput]()

func CreateFile(input json.RawMessage) (string, error) {
	in, err := decodeInput[CreateFileInput](input)
	if err != nil {
		return "", err
	}
	if err := fsops.CreateFile(in.Path, in.Content); err != nil {
		return "", err
	}
	return "File created successfully.", nil
}
