// Package usecase orchestrates the tracking and newsletter pipelines over the
// driven adapters.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"TrendRadar/internal/diff"
	"TrendRadar/internal/domain"
	"TrendRadar/internal/ports"
	"TrendRadar/internal/report"
)

// TrackerDeps wires the adapters used by the snapshot pipeline.
type TrackerDeps struct {
	Source    ports.CompanySource
	Snapshots ports.SnapshotStore
	Reports   *report.Saver
	Logger    *slog.Logger
}

// Tracker implements the competitor-tracking workflow: capture a snapshot for
// every configured company, diff it against the previous capture, and persist
// the change reports.
type Tracker struct {
	source    ports.CompanySource
	snapshots ports.SnapshotStore
	reports   *report.Saver
	logger    *slog.Logger
}

// CompanyResult is the tracking outcome for one company.
type CompanyResult struct {
	CompanyID    string
	Snapshot     *domain.Snapshot
	Changes      []domain.Change
	FirstCapture bool
}

// NewTracker constructs the tracking pipeline.
func NewTracker(deps TrackerDeps) *Tracker {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		source:    deps.Source,
		snapshots: deps.Snapshots,
		reports:   deps.Reports,
		logger:    logger,
	}
}

// Run tracks every configured company. A failing company is logged and
// skipped; the run fails only when no company could be captured.
func (t *Tracker) Run(ctx context.Context, now time.Time) ([]CompanyResult, error) {
	if t.source == nil {
		return nil, nil
	}

	var results []CompanyResult
	var failures []error
	for _, companyID := range t.source.Companies() {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := t.trackCompany(ctx, companyID, now)
		if err != nil {
			t.logger.Warn("company tracking failed", "company", companyID, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", companyID, err))
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 && len(failures) > 0 {
		return nil, errors.Join(failures...)
	}
	return results, nil
}

func (t *Tracker) trackCompany(ctx context.Context, companyID string, now time.Time) (CompanyResult, error) {
	snapshot, err := t.source.Capture(ctx, companyID)
	if err != nil {
		return CompanyResult{}, fmt.Errorf("capture snapshot: %w", err)
	}

	var previous *domain.Snapshot
	if t.snapshots != nil {
		previous, err = t.snapshots.Latest(ctx, companyID)
		if err != nil {
			return CompanyResult{}, fmt.Errorf("load previous snapshot: %w", err)
		}
		if err := t.snapshots.Save(ctx, *snapshot); err != nil {
			return CompanyResult{}, fmt.Errorf("save snapshot: %w", err)
		}
	}

	changes, err := diff.Detect(previous, snapshot, now)
	if err != nil {
		return CompanyResult{}, fmt.Errorf("detect changes: %w", err)
	}

	result := CompanyResult{
		CompanyID:    companyID,
		Snapshot:     snapshot,
		Changes:      changes,
		FirstCapture: previous == nil,
	}

	t.logger.Info("company tracked",
		"company", companyID,
		"changes", len(changes),
		"first_capture", result.FirstCapture)

	if t.reports != nil && len(changes) > 0 && !result.FirstCapture {
		if err := t.saveReports(companyID, changes, now); err != nil {
			t.logger.Warn("saving change reports failed", "company", companyID, "error", err)
		}
	}

	return result, nil
}

func (t *Tracker) saveReports(companyID string, changes []domain.Change, now time.Time) error {
	markdown := report.RenderMarkdown(companyID, changes, now)
	if _, err := t.reports.Save(companyID, "md", []byte(markdown), now); err != nil {
		return err
	}

	raw, err := report.RenderJSON(changes)
	if err != nil {
		return err
	}
	_, err = t.reports.Save(companyID, "json", raw, now)
	return err
}
