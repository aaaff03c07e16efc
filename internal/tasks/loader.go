package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/taskeval/evalboard/internal/blobstore"
	"github.com/taskeval/evalboard/internal/extract"
	"github.com/taskeval/evalboard/internal/models"
)

// Loader downloads a task's remote files and runs extraction over them.
// Per-file failures (download or extraction) degrade to inline diagnostic
// text so one bad file never blocks a prompt from being composed.
type Loader struct {
	blobs     blobstore.Client
	extractor *extract.Extractor
}

// NewLoader creates a Loader.
func NewLoader(blobs blobstore.Client, extractor *extract.Extractor) *Loader {
	return &Loader{blobs: blobs, extractor: extractor}
}

// LoadText downloads each file to a private temp path, extracts its text,
// and concatenates the results with per-file provenance headers. The temp
// files are removed before returning, on every path.
func (l *Loader) LoadText(ctx context.Context, files []models.RemoteFile) string {
	var b strings.Builder
	for _, file := range files {
		text, err := l.extractOne(ctx, file)
		if err != nil {
			slog.Warn("failed to retrieve task file", "file", file.Name, "error", err)
			text = fmt.Sprintf("Error retrieving file %s: %v", file.Name, err)
		}
		fmt.Fprintf(&b, "Extracted Text from %s:\n%s\n", file.Name, text)
	}
	return b.String()
}

func (l *Loader) extractOne(ctx context.Context, file models.RemoteFile) (string, error) {
	body, err := l.blobs.Download(ctx, file.Name)
	if err != nil {
		return "", err
	}
	defer body.Close() //nolint:errcheck

	// The extension suffix matters: the extractor dispatches on it.
	tmp, err := os.CreateTemp("", "evalboard-file-*"+file.Ext)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	_, copyErr := io.Copy(tmp, body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return "", fmt.Errorf("writing temp file: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	return l.extractor.Extract(tmpPath), nil
}
