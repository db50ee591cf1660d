// Package history persists completed transcription records as one
// newest-first collection with a fixed capacity bound.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/domain"
	"github.com/Boxcoliez/audio-scribe-ai-pro/internal/storage"
)

// Key is the storage slot holding the serialized collection.
const Key = "transcription_history"

// MaxRecords bounds the collection; the oldest records are evicted
// silently once the cap is reached.
const MaxRecords = 100

// ErrNotFound is returned when an operation names a record id that is
// not in the collection.
var ErrNotFound = errors.New("transcription record not found")

// Store reads and mutates the persisted record collection. Every
// mutation rewrites the whole collection synchronously.
type Store struct {
	backend storage.Storage
}

// NewStore wraps a storage backend.
func NewStore(backend storage.Storage) *Store {
	return &Store{backend: backend}
}

// List returns all records, newest first. A missing or empty slot is
// an empty history, not an error.
func (s *Store) List() ([]domain.Record, error) {
	raw, ok, err := s.backend.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []domain.Record{}, nil
	}

	var records []domain.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}

// Append prepends a record. Records whose id is already present are
// ignored, and the collection is truncated to MaxRecords.
func (s *Store) Append(record domain.Record) error {
	records, err := s.List()
	if err != nil {
		return err
	}

	for _, existing := range records {
		if existing.ID == record.ID {
			return nil
		}
	}

	records = append([]domain.Record{record}, records...)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	return s.save(records)
}

// Get returns one record by id.
func (s *Store) Get(id string) (domain.Record, error) {
	records, err := s.List()
	if err != nil {
		return domain.Record{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return domain.Record{}, ErrNotFound
}

// Rename updates the display file name of one record.
func (s *Store) Rename(id, fileName string) error {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return errors.New("file name is required")
	}
	return s.update(id, func(record *domain.Record) {
		record.FileName = name
	})
}

// MarkDownloaded flags one record as exported.
func (s *Store) MarkDownloaded(id string) error {
	return s.update(id, func(record *domain.Record) {
		record.Downloaded = true
	})
}

// Remove deletes one record by id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) error {
	records, err := s.List()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.save(kept)
}

// Clear deletes the whole collection.
func (s *Store) Clear() error {
	if err := s.backend.Remove(Key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// update applies mutate to the record with the given id and rewrites
// the collection.
func (s *Store) update(id string, mutate func(record *domain.Record)) error {
	records, err := s.List()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			mutate(&records[i])
			return s.save(records)
		}
	}
	return ErrNotFound
}

// save rewrites the whole collection synchronously.
func (s *Store) save(records []domain.Record) error {
	encoded, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.backend.Set(Key, string(encoded)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
