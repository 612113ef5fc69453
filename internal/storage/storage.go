// Package storage saves and loads message transcripts on an afero file system.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/nfrund/livechat/internal/domain"
)

// Store reads and writes files by path.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
}

// AferoStore implements Store on top of any afero file system.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a store on fs.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewOSStore creates a store on the local disk.
func NewOSStore() *AferoStore {
	return NewAferoStore(afero.NewOsFs())
}

// Save writes reader to path, creating parent directories as needed.
func (s *AferoStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := s.fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Get opens path for reading.
func (s *AferoStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.fs.OpenFile(path, os.O_RDONLY, 0)
}

// Transcript is the exported form of a conversation.
type Transcript struct {
	Endpoint string           `json:"endpoint"`
	Messages []domain.Message `json:"messages"`
}

// SaveTranscript writes t as indented JSON to path.
func SaveTranscript(ctx context.Context, s Store, path string, t Transcript) (int64, error) {
	pr, pw := io.Pipe()
	go func() {
		enc := json.NewEncoder(pw)
		enc.SetIndent("", "  ")
		pw.CloseWithError(enc.Encode(t))
	}()
	n, err := s.Save(ctx, path, pr)
	_ = pr.Close()
	if err != nil {
		return n, fmt.Errorf("save transcript: %w", err)
	}
	return n, nil
}

// LoadTranscript reads a transcript written by SaveTranscript.
func LoadTranscript(ctx context.Context, s Store, path string) (Transcript, error) {
	var t Transcript
	r, err := s.Get(ctx, path)
	if err != nil {
		return t, fmt.Errorf("open transcript: %w", err)
	}
	defer r.Close()

	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return t, fmt.Errorf("decode transcript: %w", err)
	}
	return t, nil
}
