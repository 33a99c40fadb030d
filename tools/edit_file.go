package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/petasbytes/toolloop/internal/fsops"
)

type EditFileInput struct {
	Path   string `json:"path" validate:"required" jsonschema_description:"The path to the file"`
	OldStr string `json:"old_str" jsonschema_description:"Text to search for - must match exactly and must only have one match"`
	NewStr string `json:"new_str" jsonschema_description:"Text to replace with"`
}

var EditFileDefinition = ToolDefinition{
	Name: "edit_file",
	Description: `Make edits to a text file.

Replaces 'old_str' with 'new_str' in the given file. 'old_str' and 'new_str' MUST be different from each other.
'old_str' must match exactly and appear exactly once in the file.

A file that does not exist is treated as empty, so an empty 'old_str' writes 'new_str' as its content. Prefer create_file for new files.
`,
	InputSchema: EditFileInputSchema,
	Function:    EditFile,
}

var EditFileInputSchema = GenerateSchema[EditFileInput]()

const editSuccess = "File edited successfully."

// EditFile replaces the single literal occurrence of old_str with new_str.
// Zero or several occurrences fail with fsops.ErrAmbiguousOrMissingMatch and
// identical strings with fsops.ErrNoOpEdit; the file is untouched on failure.
func EditFile(input json.RawMessage) (string, error) {
	in, err := decodeInput[EditFileInput](input)
	if err != nil {
		return "", err
	}

	content, err := fsops.ReadFile(in.Path)
	if err != nil {
		if !errors.Is(err, fsops.ErrNotFound) {
			return "", err
		}
		content = ""
	}

	if n := strings.Count(content, in.OldStr); n != 1 {
		return "", fsops.ToolError{
			Kind:    fsops.ErrAmbiguousOrMissingMatch,
			Message: fmt.Sprintf("old_str must appear exactly once, but found %d matches.", n),
		}
	}
	if in.OldStr == in.NewStr {
		return "", fsops.ToolError{Kind: fsops.ErrNoOpEdit, Message: "old_str and new_str must be different."}
	}

	if err := fsops.WriteFile(in.Path, strings.Replace(content, in.OldStr, in.NewStr, 1)); err != nil {
		return "", err
	}
	return editSuccess, nil
}
