package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendRadar/internal/domain"
)

func sampleChanges() []domain.Change {
	return []domain.Change{
		{Category: domain.CategoryServices, Type: domain.ChangeAdded, Field: "Moving", NewValue: "50 (flat)", Severity: domain.SeverityHigh},
		{Category: domain.CategoryServices, Type: domain.ChangeModified, Field: "Cleaning", OldValue: "20 (hourly)", NewValue: "25 (hourly)", Severity: domain.SeverityHigh},
		{Category: domain.CategoryLocations, Type: domain.ChangeRemoved, Field: "Porto", OldValue: "Porto", Severity: domain.SeverityMedium},
	}
}

func TestRenderTerminalGroupsByCategory(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC)
	out := RenderTerminal("fixo", sampleChanges(), at)

	assert.Contains(t, out, "fixo")
	assert.Contains(t, out, "Services")
	assert.Contains(t, out, "Locations")
	assert.Contains(t, out, "Cleaning: 20 (hourly) -> 25 (hourly)")
	assert.Contains(t, out, "[!!] added Moving: 50 (flat)")

	// Category headers appear in canonical order.
	services := strings.Index(out, "Services")
	locations := strings.Index(out, "Locations")
	assert.Less(t, services, locations)
}

func TestRenderTerminalNoChanges(t *testing.T) {
	t.Parallel()

	out := RenderTerminal("fixo", nil, time.Now())
	assert.Contains(t, out, "No changes detected")
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out := RenderMarkdown("fixo", sampleChanges(), time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC))

	assert.Contains(t, out, "# Change report: fixo")
	assert.Contains(t, out, "## Services")
	assert.Contains(t, out, "- **modified** `Cleaning`: 20 (hourly) -> 25 (hourly) _(high)_")
	assert.Contains(t, out, "- **removed** `Porto` _(medium)_")
}

func TestRenderJSONEmptyIsArray(t *testing.T) {
	t.Parallel()

	raw, err := RenderJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestSaverWritesReportFile(t *testing.T) {
	t.Parallel()

	saver := NewSaver(t.TempDir())
	at := time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC)

	path, err := saver.Save("fixo", "md", []byte("# report"), at)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "fixo_20260302_060000.md"), path)
}

func sampleArticles() []domain.Article {
	return []domain.Article{
		{
			URL:     "https://news.example.com/ai-claims",
			Title:   "AI Claims Automation Goes Mainstream",
			Source:  "InsurTech Weekly",
			Section: "worldwide",
			Analysis: &domain.Analysis{
				OverallScore: 8.2,
				Action:       domain.ActionPilot,
				KeyInsights:  []string{"Carriers report 40% faster settlement"},
				Summary:      "Large carriers are rolling out automated claims triage.",
			},
		},
		{
			URL:     "https://news.example.com/lisbon-fund",
			Title:   "Lisbon Fund Backs Embedded Insurance",
			Source:  "ECO",
			Section: "portugal",
			Summary: "A new fund targets embedded distribution.",
		},
	}
}

func TestNewIssueGroupsSectionsInOrder(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	issue := NewIssue(sampleArticles(), date)

	require.NotEmpty(t, issue.ID)
	require.Len(t, issue.Sections, 2)
	assert.Equal(t, "Worldwide", issue.Sections[0].Title)
	assert.Equal(t, "Portugal", issue.Sections[1].Title)
	assert.Len(t, issue.Sections[0].Articles, 1)
}

func TestNewIssueUnknownSectionFallsThrough(t *testing.T) {
	t.Parallel()

	issue := NewIssue([]domain.Article{
		{URL: "https://a", Title: "A", Section: "regulation"},
		{URL: "https://b", Title: "B", Section: "worldwide"},
	}, time.Now())

	require.Len(t, issue.Sections, 2)
	assert.Equal(t, "Worldwide", issue.Sections[0].Title)
	assert.Equal(t, "Regulation", issue.Sections[1].Title)
}

func TestSubject(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "CFT Trend Radar — 2 Mar 2026", Subject("CFT Trend Radar", date))
	assert.Equal(t, "Trend Radar — 2 Mar 2026", Subject("", date))
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	issue := NewIssue(sampleArticles(), time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC))
	html, err := RenderHTML(issue)
	require.NoError(t, err)

	assert.Contains(t, html, "AI Claims Automation Goes Mainstream")
	assert.Contains(t, html, "score 8.2")
	assert.Contains(t, html, "PILOT")
	assert.Contains(t, html, "Carriers report 40% faster settlement")
	assert.Contains(t, html, "A new fund targets embedded distribution.")
	assert.Contains(t, html, issue.ID)
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	issue := NewIssue(sampleArticles(), time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC))
	text := RenderText(issue)

	assert.Contains(t, text, "TREND RADAR — 2 March 2026")
	assert.Contains(t, text, "WORLDWIDE")
	assert.Contains(t, text, "* AI Claims Automation Goes Mainstream")
	assert.Contains(t, text, "score 8.2 · PILOT")
	assert.Contains(t, text, "Issue "+issue.ID)
}
