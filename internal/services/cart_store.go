// internal/services/cart_store.go
package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// CartStore is the persistent slot holding one serialized cart. Read
// reports ok=false when the slot has never been written. Implementations
// carry no schema knowledge; (de)serialization lives in CartService.
type CartStore interface {
	Read() (data []byte, ok bool, err error)
	Write(data []byte) error
}

// StoreProvider resolves a cart session to its slot.
type StoreProvider interface {
	Slot(sessionID string) CartStore
}

// FileStoreProvider keeps one JSON file per cart session under dir, named
// after the configured slot key so exported browser carts drop in directly.
type FileStoreProvider struct {
	dir     string
	slotKey string
}

var sessionIDPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewFileStoreProvider(dir, slotKey string) (*FileStoreProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart slot dir: %w", err)
	}
	return &FileStoreProvider{dir: dir, slotKey: slotKey}, nil
}

func (p *FileStoreProvider) Slot(sessionID string) CartStore {
	// Session IDs come from signed tokens, but sanitize anyway before
	// using them as a path component.
	safe := sessionIDPattern.ReplaceAllString(sessionID, "")
	name := fmt.Sprintf("%s_%s.json", p.slotKey, safe)
	return &fileSlot{path: filepath.Join(p.dir, name)}
}

type fileSlot struct {
	path string
}

func (s *fileSlot) Read() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Write replaces the slot atomically so a crash mid-write can never leave a
// torn cart behind.
func (s *fileSlot) Write(data []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStoreProvider is an in-memory StoreProvider for tests and local
// development.
type MemoryStoreProvider struct {
	mtx   sync.Mutex
	slots map[string][]byte
}

func NewMemoryStoreProvider() *MemoryStoreProvider {
	return &MemoryStoreProvider{slots: make(map[string][]byte)}
}

func (p *MemoryStoreProvider) Slot(sessionID string) CartStore {
	return &memorySlot{provider: p, key: sessionID}
}

type memorySlot struct {
	provider *MemoryStoreProvider
	key      string
}

func (s *memorySlot) Read() ([]byte, bool, error) {
	s.provider.mtx.Lock()
	defer s.provider.mtx.Unlock()

	data, ok := s.provider.slots[s.key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *memorySlot) Write(data []byte) error {
	s.provider.mtx.Lock()
	defer s.provider.mtx.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.provider.slots[s.key] = stored
	return nil
}
