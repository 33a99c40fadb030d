package tools

import (
	"encoding/json"

	"github.com/petasbytes/toolloop/internal/fsops"
)

type ListFilesInput struct {
	Path string `json:"path,omitempty" jsonschema_description:"Optional relative path to list files from. Defaults to current directory if not provided."`
}

var ListFilesDefinition = ToolDefinition{
	Name:        "list_files",
	Description: "List files and directories at a given path, recursively. If no path is provided, lists files in the current directory. Directories end with a trailing slash.",
	InputSchema: ListFilesInputSchema,
	Function:    ListFiles,
}

var ListFilesInputSchema = GenerateSchema[ListFilesInput]()

// ListFiles returns a JSON-encoded []string of every entry below the path,
// in traversal order (not sorted).
func ListFiles(input json.RawMessage) (string, error) {
	in, err := decodeInput[ListFilesInput](input)
	if err != nil {
		return "", err
	}

	names, err := fsops.ListFiles(in.Path)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
