// Package tasks maps task records to their remote files and composes the
// model prompt from steps, question, and extracted document text.
package tasks

import (
	"path/filepath"
	"strings"

	"github.com/taskeval/evalboard/internal/models"
)

// ResolveFiles groups a blob listing by task identifier using the naming
// convention basename == task ID. A task may have zero or more files; a
// file belongs to at most one task.
func ResolveFiles(blobNames []string) map[string][]models.RemoteFile {
	mapping := make(map[string][]models.RemoteFile)
	for _, name := range blobNames {
		ext := strings.ToLower(filepath.Ext(name))
		base := strings.TrimSuffix(name, filepath.Ext(name))
		mapping[base] = append(mapping[base], models.RemoteFile{Name: name, Ext: ext})
	}
	return mapping
}
