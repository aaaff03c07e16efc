// Package blobstore provides the object store client for task files.
// Files live flat in one container; this tool only lists, downloads, and
// (for the upload command) writes blobs — it never deletes.
package blobstore

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Client is the narrow object-store contract the resolver and the upload
// command depend on.
type Client interface {
	// ListFiles returns every blob name in the container.
	ListFiles(ctx context.Context) ([]string, error)
	// Download opens a stream for the given blob. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Upload writes a blob, overwriting any existing one with the same key.
	Upload(ctx context.Context, key string, body io.Reader) error
}

// Azure implements Client over the Azure Blob Storage SDK using the
// default credential chain (env vars, managed identity, az login).
type Azure struct {
	client    *azblob.Client
	container string
}

// NewAzure creates a blob client for the given service URL and container.
func NewAzure(serviceURL, container string) (*Azure, error) {
	if serviceURL == "" || container == "" {
		return nil, fmt.Errorf("blob service URL and container are required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure credential: %w", err)
	}
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return &Azure{client: client, container: container}, nil
}

func (a *Azure) ListFiles(ctx context.Context) ([]string, error) {
	var names []string
	pager := a.client.NewListBlobsFlatPager(a.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing blobs in %s: %w", a.container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (a *Azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading blob %s: %w", key, err)
	}
	return resp.Body, nil
}

func (a *Azure) Upload(ctx context.Context, key string, body io.Reader) error {
	if _, err := a.client.UploadStream(ctx, a.container, key, body, nil); err != nil {
		return fmt.Errorf("uploading blob %s: %w", key, err)
	}
	return nil
}
