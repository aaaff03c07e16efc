package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Fake is an in-memory Client for tests.
type Fake struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewFake returns a Fake seeded with the given blobs.
func NewFake(blobs map[string][]byte) *Fake {
	if blobs == nil {
		blobs = map[string][]byte{}
	}
	return &Fake{blobs: blobs}
}

func (f *Fake) ListFiles(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.blobs))
	for name := range f.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *Fake) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("fake blobstore: %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *Fake) Upload(ctx context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return nil
}
