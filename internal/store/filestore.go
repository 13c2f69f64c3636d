package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// FileStore persists all collections as one JSON document on disk. It is
// the single-node analog of the browser storage the product originally
// ran on: small, synchronous, whole-value reads and writes. Writes go to
// a temp file first and are renamed into place so a crash never leaves a
// torn document.
type FileStore struct {
	path   string
	logger *logrus.Logger

	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// OpenFileStore loads (or initializes) the store document at path.
// A corrupt document is treated as empty state rather than a fatal
// error, matching the read-side contract of Get.
func OpenFileStore(path string, logger *logrus.Logger) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		logger: logger,
		data:   make(map[string]json.RawMessage),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fs.data); err != nil {
			logger.WithError(err).WithField("path", path).Warn("Store document is corrupt, starting from empty state")
			fs.data = make(map[string]json.RawMessage)
		}
	}

	return fs, nil
}

// Get implements Tx.
func (fs *FileStore) Get(key string, dest interface{}) error {
	fs.mu.RLock()
	raw, ok := fs.data[key]
	fs.mu.RUnlock()

	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		fs.logger.WithError(err).WithField("key", key).Warn("Stored value is undeserializable, treating as empty")
		return nil
	}
	return nil
}

// Set implements Tx.
func (fs *FileStore) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	prev, hadPrev := fs.data[key]
	fs.data[key] = raw
	if err := fs.persistLocked(); err != nil {
		// Roll the in-memory state back so memory and disk agree.
		if hadPrev {
			fs.data[key] = prev
		} else {
			delete(fs.data, key)
		}
		return err
	}
	return nil
}

// Update implements Store. The callback runs against a copy of the
// current state; the copy replaces the live state and is persisted only
// if the callback succeeds.
func (fs *FileStore) Update(fn func(tx Tx) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	staged := make(map[string]json.RawMessage, len(fs.data))
	for k, v := range fs.data {
		staged[k] = v
	}

	tx := &fileTx{data: staged, logger: fs.logger}
	if err := fn(tx); err != nil {
		return err
	}

	prev := fs.data
	fs.data = staged
	if err := fs.persistLocked(); err != nil {
		fs.data = prev
		return err
	}
	return nil
}

// Ping implements Store. It verifies the backing directory is writable.
func (fs *FileStore) Ping() error {
	info, err := os.Stat(filepath.Dir(fs.path))
	if err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	if !info.IsDir() {
		return &StorageError{Op: "ping", Err: fmt.Errorf("%s is not a directory", filepath.Dir(fs.path))}
	}
	return nil
}

// Close implements Store.
func (fs *FileStore) Close() error {
	return nil
}

// persistLocked writes the full document atomically. Callers must hold
// the write lock.
func (fs *FileStore) persistLocked() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return &StorageError{Op: "persist", Err: err}
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return &StorageError{Op: "persist", Err: err}
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return &StorageError{Op: "persist", Err: err}
	}
	return nil
}

// fileTx is the staged state of one Update call.
type fileTx struct {
	data   map[string]json.RawMessage
	logger *logrus.Logger
}

func (tx *fileTx) Get(key string, dest interface{}) error {
	raw, ok := tx.data[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		tx.logger.WithError(err).WithField("key", key).Warn("Stored value is undeserializable, treating as empty")
		return nil
	}
	return nil
}

func (tx *fileTx) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	tx.data[key] = raw
	return nil
}
