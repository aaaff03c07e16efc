package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskeval/evalboard/internal/blobstore"
	"github.com/taskeval/evalboard/internal/extract"
	"github.com/taskeval/evalboard/internal/models"
)

func TestResolveFiles(t *testing.T) {
	mapping := ResolveFiles([]string{
		"t1.pdf",
		"t1.csv",
		"t2.TXT",
		"orphan.zip",
	})

	require.Len(t, mapping["t1"], 2)
	assert.Equal(t, models.RemoteFile{Name: "t1.pdf", Ext: ".pdf"}, mapping["t1"][0])
	assert.Equal(t, models.RemoteFile{Name: "t1.csv", Ext: ".csv"}, mapping["t1"][1])
	// Extensions are lowercased, names are not.
	assert.Equal(t, models.RemoteFile{Name: "t2.TXT", Ext: ".txt"}, mapping["t2"][0])
	assert.Len(t, mapping["orphan"], 1)
	assert.Empty(t, mapping["t3"])
}

func TestComposePrompt(t *testing.T) {
	got := ComposePrompt("do the thing", "what is X?", "")
	assert.Equal(t, "Steps:\ndo the thing\n\nQuestion:\nwhat is X?\n", got)

	got = ComposePrompt("do the thing", "what is X?", "file text")
	assert.Equal(t, "Steps:\ndo the thing\n\nQuestion:\nwhat is X?\n\nExtracted Text:\nfile text", got)
}

func TestLoaderLoadText(t *testing.T) {
	blobs := blobstore.NewFake(map[string][]byte{
		"t1.txt": []byte("file contents"),
	})
	loader := NewLoader(blobs, extract.New(nil))

	got := loader.LoadText(context.Background(), []models.RemoteFile{{Name: "t1.txt", Ext: ".txt"}})
	assert.Equal(t, "Extracted Text from t1.txt:\nfile contents\n", got)
}

func TestLoaderDownloadFailureDegrades(t *testing.T) {
	blobs := blobstore.NewFake(nil)
	loader := NewLoader(blobs, extract.New(nil))

	got := loader.LoadText(context.Background(), []models.RemoteFile{{Name: "missing.txt", Ext: ".txt"}})
	assert.Contains(t, got, "Extracted Text from missing.txt:\n")
	assert.Contains(t, got, "Error retrieving file missing.txt:")
}

func TestLoaderNoFiles(t *testing.T) {
	loader := NewLoader(blobstore.NewFake(nil), extract.New(nil))
	assert.Empty(t, loader.LoadText(context.Background(), nil))
}
