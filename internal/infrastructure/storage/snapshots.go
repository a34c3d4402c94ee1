// Package storage persists snapshots, newsletter history and the published
// article archive.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
)

const snapshotTimeLayout = "20060102_150405"

// SnapshotStore keeps per-company snapshot JSON files under a base
// directory. Files sort by capture timestamp, newest first.
type SnapshotStore struct {
	baseDir       string
	maxPerCompany int
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore creates the store rooted at baseDir; maxPerCompany caps
// retained snapshots per company (defaults to 90).
func NewSnapshotStore(baseDir string, maxPerCompany int) *SnapshotStore {
	if maxPerCompany <= 0 {
		maxPerCompany = 90
	}
	return &SnapshotStore{baseDir: baseDir, maxPerCompany: maxPerCompany}
}

// Save writes one snapshot file and prunes captures beyond the retention cap.
func (s *SnapshotStore) Save(_ context.Context, snapshot domain.Snapshot) error {
	if snapshot.CompanyID == "" {
		return fmt.Errorf("snapshot has no company id")
	}

	dir := filepath.Join(s.baseDir, snapshot.CompanyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", snapshot.CompanyID, snapshot.CapturedAt.UTC().Format(snapshotTimeLayout))
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return s.prune(snapshot.CompanyID)
}

// Latest returns the most recent snapshot, or nil when none exists yet.
func (s *SnapshotStore) Latest(_ context.Context, companyID string) (*domain.Snapshot, error) {
	return s.nth(companyID, 0)
}

// Previous returns the second most recent snapshot for comparison, or nil.
func (s *SnapshotStore) Previous(_ context.Context, companyID string) (*domain.Snapshot, error) {
	return s.nth(companyID, 1)
}

func (s *SnapshotStore) nth(companyID string, index int) (*domain.Snapshot, error) {
	files, err := s.list(companyID)
	if err != nil {
		return nil, err
	}
	if index >= len(files) {
		return nil, nil
	}

	raw, err := os.ReadFile(files[index])
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", files[index], err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", files[index], err)
	}
	return &snapshot, nil
}

// list returns the company's snapshot files, newest first.
func (s *SnapshotStore) list(companyID string) ([]string, error) {
	dir := filepath.Join(s.baseDir, companyID)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots for %s: %w", companyID, err)
	}

	var files []string
	prefix := companyID + "_"
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}

func (s *SnapshotStore) prune(companyID string) error {
	files, err := s.list(companyID)
	if err != nil {
		return err
	}
	for _, stale := range files[min(len(files), s.maxPerCompany):] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("remove old snapshot %s: %w", stale, err)
		}
	}
	return nil
}
