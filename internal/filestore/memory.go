package filestore

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps files in process memory. Unit tests use it in place of LocalStore.
type MemoryStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	baseURL string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &MemoryStore{files: make(map[string][]byte), baseURL: baseURL}
}

func (s *MemoryStore) Save(ctx context.Context, prefix, ext string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	key := path.Join(prefix, uuid.New().String()+ext)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	return key, nil
}

func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, ErrNotFound
	}
	return memFile{bytes.NewReader(data)}, nil
}

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[key]; !ok {
		return ErrNotFound
	}
	delete(s.files, key)
	return nil
}

func (s *MemoryStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + key
}

// Keys lists stored keys under prefix.
func (s *MemoryStore) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for k := range s.files {
		if strings.HasPrefix(k, prefix+"/") {
			out = append(out, k)
		}
	}
	return out
}
