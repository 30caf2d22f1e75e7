package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupt marks a backing file that exists but cannot be decoded.
// A missing file is NOT corrupt; it reads as an empty collection.
var ErrCorrupt = errors.New("store: corrupt collection file")

// Record is anything persisted in a collection.
type Record interface {
	RecordID() string
}

// Collection is a file-backed set of records.
//
// The whole file is rewritten on every mutation; target scale is hundreds of
// records, not millions. All load-mutate-save cycles run under the collection
// mutex so concurrent request handlers cannot lose updates.
type Collection[T Record] struct {
	path string
	mu   sync.Mutex
}

// NewCollection binds a collection to <dir>/<name>.json.
func NewCollection[T Record](dir, name string) (*Collection[T], error) {
	if dir == "" {
		return nil, errors.New("store: data dir is required")
	}
	if name == "" {
		return nil, errors.New("store: collection name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure data dir: %w", err)
	}
	return &Collection[T]{path: filepath.Join(dir, name+".json")}, nil
}

// Path returns the backing file path. Useful for health/debug output.
func (c *Collection[T]) Path() string { return c.path }

// Load returns all records in file order.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// Save atomically replaces the backing file with the given records.
func (c *Collection[T]) Save(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(records)
}

// Upsert inserts the record, or replaces the existing record with the same id.
func (c *Collection[T]) Upsert(rec T) error {
	return c.Update(func(records []T) ([]T, error) {
		for i := range records {
			if records[i].RecordID() == rec.RecordID() {
				records[i] = rec
				return records, nil
			}
		}
		return append(records, rec), nil
	})
}

// Delete removes the record with the given id.
// Returns false when no record matched.
func (c *Collection[T]) Delete(id string) (bool, error) {
	found := false
	err := c.Update(func(records []T) ([]T, error) {
		out := records[:0]
		for _, r := range records {
			if r.RecordID() == id {
				found = true
				continue
			}
			out = append(out, r)
		}
		return out, nil
	})
	return found, err
}

// Clear truncates the collection to an empty list.
func (c *Collection[T]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(nil)
}

// Count returns the number of records without exposing them.
func (c *Collection[T]) Count() (int, error) {
	records, err := c.Load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Update runs a load-mutate-save cycle under the collection mutex.
// fn receives the current records and returns the records to persist.
// If fn returns an error nothing is written.
func (c *Collection[T]) Update(fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.loadLocked()
	if err != nil {
		return err
	}
	out, err := fn(records)
	if err != nil {
		return err
	}
	return c.saveLocked(out)
}

func (c *Collection[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.path, err)
	}
	return records, nil
}

func (c *Collection[T]) saveLocked(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", c.path, err)
	}
	data = append(data, '\n')
	return writeFileAtomic(c.path, data, 0o644)
}

// writeFileAtomic writes via a temp file in the same directory, syncs it and
// renames over the destination, then syncs the directory entry.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
