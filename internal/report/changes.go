// Package report renders change reports and newsletter issues.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"TrendRadar/internal/domain"
)

var severityMarks = map[domain.Severity]string{
	domain.SeverityInfo:   "[i]",
	domain.SeverityMedium: "[!]",
	domain.SeverityHigh:   "[!!]",
}

// RenderTerminal formats a change list for console output.
func RenderTerminal(companyID string, changes []domain.Change, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s — %s ===\n", companyID, at.Format("2006-01-02 15:04"))

	if len(changes) == 0 {
		b.WriteString("No changes detected.\n")
		return b.String()
	}

	for _, group := range groupByCategory(changes) {
		fmt.Fprintf(&b, "\n%s\n", group.category.Label())
		for _, c := range group.changes {
			fmt.Fprintf(&b, "  %s %s %s%s\n", severityMarks[c.Severity], c.Type, c.Field, valueSuffix(c))
		}
	}
	return b.String()
}

// RenderMarkdown formats a change list as a markdown report.
func RenderMarkdown(companyID string, changes []domain.Change, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Change report: %s\n\n", companyID)
	fmt.Fprintf(&b, "Generated: %s\n\n", at.Format("2006-01-02 15:04"))

	if len(changes) == 0 {
		b.WriteString("No changes detected.\n")
		return b.String()
	}

	for _, group := range groupByCategory(changes) {
		fmt.Fprintf(&b, "## %s\n\n", group.category.Label())
		for _, c := range group.changes {
			fmt.Fprintf(&b, "- **%s** `%s`%s _(%s)_\n", c.Type, c.Field, valueSuffix(c), c.Severity)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderJSON serializes the change list for machine consumers.
func RenderJSON(changes []domain.Change) ([]byte, error) {
	if changes == nil {
		changes = []domain.Change{}
	}
	raw, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal changes: %w", err)
	}
	return raw, nil
}

// Saver writes rendered reports under the reports directory.
type Saver struct {
	dir string
}

// NewSaver roots report files at dir.
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Save writes one report file and returns its path.
func (s *Saver) Save(companyID, extension string, content []byte, at time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.%s", companyID, at.UTC().Format("20060102_150405"), extension)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

type categoryGroup struct {
	category domain.ChangeCategory
	changes  []domain.Change
}

// groupByCategory splits an already canonically ordered change list into
// contiguous category groups.
func groupByCategory(changes []domain.Change) []categoryGroup {
	var groups []categoryGroup
	for _, c := range changes {
		if len(groups) == 0 || groups[len(groups)-1].category != c.Category {
			groups = append(groups, categoryGroup{category: c.Category})
		}
		last := &groups[len(groups)-1]
		last.changes = append(last.changes, c)
	}
	return groups
}

func valueSuffix(c domain.Change) string {
	switch c.Type {
	case domain.ChangeAdded:
		if c.NewValue != "" && c.NewValue != c.Field {
			return fmt.Sprintf(": %s", c.NewValue)
		}
	case domain.ChangeRemoved:
		if c.OldValue != "" && c.OldValue != c.Field {
			return fmt.Sprintf(": was %s", c.OldValue)
		}
	case domain.ChangeModified:
		return fmt.Sprintf(": %s -> %s", c.OldValue, c.NewValue)
	}
	return ""
}
