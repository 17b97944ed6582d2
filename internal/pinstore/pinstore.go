// Package pinstore persists the ordered list of pinned cities as a single
// JSON document on local disk.
package pinstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/imolchanov/sunday/internal/weather"
)

// Store is a file-backed pin list. Element order is most-recently-pinned
// first and is preserved exactly across save/load cycles. A mutex serializes
// the read-modify-write cycle so concurrent pin/unpin calls cannot lose an
// insert.
type Store struct {
	mu   sync.Mutex
	path string
}

// New constructs a Store persisting to path. The file is created on first pin.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the pinned cities in stored order. A missing file is an empty
// list; a file that exists but does not parse is a storage failure, never
// silently treated as empty.
func (s *Store) Load() ([]weather.CityModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Pin inserts city at the front unless an entry with the same id already
// exists, in which case the store is left unchanged.
func (s *Store) Pin(city weather.CityModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pinned, err := s.load()
	if err != nil {
		return err
	}
	for _, p := range pinned {
		if p.ID == city.ID {
			return nil
		}
	}
	pinned = append([]weather.CityModel{city}, pinned...)
	return s.save(pinned)
}

// Unpin removes the first entry with the given id. Absent ids are a no-op and
// the remaining order is untouched.
func (s *Store) Unpin(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pinned, err := s.load()
	if err != nil {
		return err
	}
	idx := -1
	for i, p := range pinned {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	pinned = append(pinned[:idx], pinned[idx+1:]...)
	return s.save(pinned)
}

func (s *Store) load() ([]weather.CityModel, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []weather.CityModel{}, nil
		}
		return nil, fmt.Errorf("%w: reading pin file %s: %v", weather.ErrStorage, s.path, err)
	}

	var pinned []weather.CityModel
	if err := json.Unmarshal(data, &pinned); err != nil {
		return nil, fmt.Errorf("%w: pin file %s is corrupt: %v", weather.ErrStorage, s.path, err)
	}
	return pinned, nil
}

// save replaces the whole document atomically: the new content is written to a
// temp file in the same directory and renamed over the old one, so a
// concurrent reader never observes a partial file.
func (s *Store) save(pinned []weather.CityModel) error {
	data, err := json.Marshal(pinned)
	if err != nil {
		return fmt.Errorf("%w: encoding pin list: %v", weather.ErrStorage, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating data dir %s: %v", weather.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "pins.*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp pin file: %v", weather.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing pin file: %v", weather.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing pin file: %v", weather.ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: replacing pin file %s: %v", weather.ErrStorage, s.path, err)
	}
	return nil
}
