package clientstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Keys under which client state is persisted.
const (
	KeyCart      = "shoppingCart"
	KeyFavorites = "userFavorites"
	KeyToken     = "token"
	KeyUser      = "currentUser"
)

// Persister is a small key/value store for JSON-encoded client state.
type Persister interface {
	// Load decodes the value stored under key into dst and reports whether
	// the key existed.
	Load(key string, dst interface{}) (bool, error)
	Save(key string, v interface{}) error
	Delete(key string) error
}

// FilePersister stores each key as <dir>/<key>.json. Writes go through a
// temporary file and a rename so a crash never leaves a torn value.
type FilePersister struct {
	dir string
}

// NewFilePersister creates dir if needed and returns a persister rooted there.
func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FilePersister{dir: dir}, nil
}

func (p *FilePersister) path(key string) string {
	return filepath.Join(p.dir, key+".json")
}

func (p *FilePersister) Load(key string, dst interface{}) (bool, error) {
	b, err := os.ReadFile(p.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (p *FilePersister) Save(key string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(p.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p.path(key)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (p *FilePersister) Delete(key string) error {
	if err := os.Remove(p.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// MemoryPersister keeps encoded values in memory. Values are stored as JSON
// so round trips behave like FilePersister.
type MemoryPersister struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{values: make(map[string][]byte)}
}

func (p *MemoryPersister) Load(key string, dst interface{}) (bool, error) {
	p.mu.Lock()
	b, ok := p.values[key]
	p.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (p *MemoryPersister) Save(key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	p.mu.Lock()
	p.values[key] = b
	p.mu.Unlock()
	return nil
}

func (p *MemoryPersister) Delete(key string) error {
	p.mu.Lock()
	delete(p.values, key)
	p.mu.Unlock()
	return nil
}

// Raw returns the stored bytes for key. Tests use it to seed or inspect
// persisted state.
func (p *MemoryPersister) Raw(key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.values[key]
	return b, ok
}

// SetRaw stores b under key without encoding.
func (p *MemoryPersister) SetRaw(key string, b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = b
}
