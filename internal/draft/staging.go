package draft

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/triplog/triplog-backend/logger"
)

// Staging holds draft image bytes on local disk until submission uploads
// them to object storage. Every staged entry owns exactly one preview token;
// Release removes the file and revokes the token, and is idempotent per key
// so an entry can never be released twice or leaked.
type Staging struct {
	dir      string
	maxBytes int64

	mu      sync.Mutex
	entries map[string]stagedFile // key -> file
	tokens  map[string]string     // preview token -> key
}

type stagedFile struct {
	path        string
	fileName    string
	contentType string
	token       string
}

// NewStaging creates the staging store rooted at dir.
func NewStaging(dir string, maxBytes int64) (*Staging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	return &Staging{
		dir:      dir,
		maxBytes: maxBytes,
		entries:  make(map[string]stagedFile),
		tokens:   make(map[string]string),
	}, nil
}

// Stage reads an uploaded image, verifies it really is an image by sniffing
// its bytes, writes it under the user's staging directory, and returns the
// entry metadata including a fresh preview token.
func (s *Staging) Stage(userID, fileName string, r io.Reader) (StagedImage, error) {
	limited := io.LimitReader(r, s.maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return StagedImage{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return StagedImage{}, fmt.Errorf("image exceeds maximum size of %d bytes", s.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return StagedImage{}, fmt.Errorf("unsupported content type %s, only images can be staged", mtype.String())
	}

	key := uuid.NewString()
	token := uuid.NewString()

	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return StagedImage{}, fmt.Errorf("failed to create user staging dir: %w", err)
	}
	path := filepath.Join(userDir, key+mtype.Extension())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return StagedImage{}, fmt.Errorf("failed to write staged image: %w", err)
	}

	entry := stagedFile{
		path:        path,
		fileName:    filepath.Base(fileName),
		contentType: mtype.String(),
		token:       token,
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.tokens[token] = key
	s.mu.Unlock()

	return StagedImage{
		Key:          key,
		FileName:     entry.fileName,
		ContentType:  entry.contentType,
		PreviewToken: token,
	}, nil
}

// Open returns a reader over a staged entry's bytes for upload.
func (s *Staging) Open(key string) (io.ReadCloser, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("staged image %s not found", key)
	}
	data, err := os.ReadFile(entry.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged image: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Resolve maps a preview token to the staged file path and content type.
// Returns false for unknown or revoked tokens.
func (s *Staging) Resolve(token string) (path, contentType string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.tokens[token]
	if !ok {
		return "", "", false
	}
	entry := s.entries[key]
	return entry.path, entry.contentType, true
}

// Release removes a staged entry: the file is deleted and its preview token
// revoked. Releasing an already-released or unknown key is a no-op, so the
// release-exactly-once invariant holds on every exit path.
func (s *Staging) Release(key string) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
		delete(s.tokens, entry.token)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := os.Remove(entry.path); err != nil && !os.IsNotExist(err) {
		logger.GetLogger().Warnw("Failed to remove staged image", "path", entry.path, "error", err)
	}
}

// ReleaseAll releases every given entry.
func (s *Staging) ReleaseAll(images []StagedImage) {
	for _, img := range images {
		s.Release(img.Key)
	}
}
