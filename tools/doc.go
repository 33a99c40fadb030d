// Package tools defines tool contracts and the built-in file tools.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - Registry: ordered, immutable name -> definition mapping with exact-match lookup.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - ValidateArguments: check model-supplied arguments against a schema before invocation.
//   - File tools: read_file, list_files (recursive), edit_file, create_file.
package tools
