package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
)

// HistoryStore is a JSON-file-backed append-only log of published
// newsletters, newest first, capped at domain.HistoryCap entries.
type HistoryStore struct {
	path string
	mu   sync.Mutex
}

var _ ports.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore points the store at its JSON file.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Entries loads the retained history, newest first. A missing file means no
// history yet, not an error.
func (h *HistoryStore) Entries(_ context.Context) ([]domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

// Append prepends the entry and evicts the oldest ones past the cap.
func (h *HistoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.load()
	if err != nil {
		return err
	}

	entries = append([]domain.HistoryEntry{entry}, entries...)
	if len(entries) > domain.HistoryCap {
		entries = entries[:domain.HistoryCap]
	}

	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(h.path, raw, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func (h *HistoryStore) load() ([]domain.HistoryEntry, error) {
	raw, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return entries, nil
}
