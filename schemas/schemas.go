// Package schemas holds the embedded JSON Schemas used for input
// validation.
package schemas

import _ "embed"

// MetadataSchemaJSON is the schema for the task metadata export consumed
// by the import command.
//
//go:embed metadata.schema.json
var MetadataSchemaJSON string
