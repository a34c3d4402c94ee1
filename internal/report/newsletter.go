package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"TrendRadar/internal/domain"
)

// Issue is one rendered newsletter edition.
type Issue struct {
	ID       string
	Date     time.Time
	Sections []Section
}

// Section groups articles that share a feed section.
type Section struct {
	Title    string
	Articles []domain.Article
}

var sectionTitles = map[string]string{
	"worldwide": "Worldwide",
	"portugal":  "Portugal",
	"ventures":  "Ventures & Funding",
}

var sectionOrder = []string{"worldwide", "portugal", "ventures"}

// NewIssue assigns an issue ID and groups articles by section, preserving the
// ranked article order within each section.
func NewIssue(articles []domain.Article, date time.Time) Issue {
	issue := Issue{ID: uuid.NewString(), Date: date}

	bySection := make(map[string][]domain.Article)
	var extra []string
	for _, a := range articles {
		key := a.Section
		if key == "" {
			key = "worldwide"
		}
		if _, ok := bySection[key]; !ok && !knownSection(key) {
			extra = append(extra, key)
		}
		bySection[key] = append(bySection[key], a)
	}

	for _, key := range append(append([]string{}, sectionOrder...), extra...) {
		group, ok := bySection[key]
		if !ok {
			continue
		}
		issue.Sections = append(issue.Sections, Section{Title: sectionTitle(key), Articles: group})
	}
	return issue
}

func knownSection(key string) bool {
	_, ok := sectionTitles[key]
	return ok
}

func sectionTitle(key string) string {
	if title, ok := sectionTitles[key]; ok {
		return title
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

// Subject builds the issue subject line from the configured prefix.
func Subject(prefix string, date time.Time) string {
	if prefix == "" {
		prefix = "Trend Radar"
	}
	return fmt.Sprintf("%s — %s", prefix, date.Format("2 Jan 2006"))
}

var htmlTmpl = template.Must(template.New("newsletter").Funcs(template.FuncMap{
	"score": func(a domain.Article) string {
		if a.Analysis == nil {
			return ""
		}
		return fmt.Sprintf("%.1f", a.Analysis.OverallScore)
	},
	"action": func(a domain.Article) string {
		if a.Analysis == nil {
			return ""
		}
		return string(a.Analysis.Action)
	},
	"insights": func(a domain.Article) []string {
		if a.Analysis == nil {
			return nil
		}
		return a.Analysis.KeyInsights
	},
	"summary": func(a domain.Article) string {
		if a.Analysis != nil && a.Analysis.Summary != "" {
			return a.Analysis.Summary
		}
		return a.Summary
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 680px; margin: 0 auto; color: #1a1a2e;">
<h1 style="border-bottom: 2px solid #0f3460; padding-bottom: 8px;">Trend Radar</h1>
<p style="color: #666;">Issue of {{.Date.Format "2 January 2006"}}</p>
{{range .Sections}}
<h2 style="color: #0f3460;">{{.Title}}</h2>
{{range .Articles}}
<div style="margin-bottom: 24px;">
  <h3 style="margin-bottom: 4px;"><a href="{{.URL}}" style="color: #16213e;">{{.Title}}</a></h3>
  <p style="margin: 2px 0; color: #888; font-size: 13px;">{{.Source}}{{with score .}} · score {{.}}{{end}}{{with action .}} · {{.}}{{end}}</p>
  {{with summary .}}<p style="margin: 6px 0;">{{.}}</p>{{end}}
  {{with insights .}}<ul style="margin: 6px 0; padding-left: 20px;">{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}
{{end}}
<p style="color: #999; font-size: 12px; border-top: 1px solid #ddd; padding-top: 8px;">Issue {{.ID}}</p>
</body>
</html>
`))

// RenderHTML renders the HTML body of an issue.
func RenderHTML(issue Issue) (string, error) {
	var b strings.Builder
	if err := htmlTmpl.Execute(&b, issue); err != nil {
		return "", fmt.Errorf("render newsletter html: %w", err)
	}
	return b.String(), nil
}

// RenderText renders the plain text alternative.
func RenderText(issue Issue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TREND RADAR — %s\n", issue.Date.Format("2 January 2006"))
	b.WriteString(strings.Repeat("=", 40) + "\n")

	for _, section := range issue.Sections {
		fmt.Fprintf(&b, "\n%s\n%s\n", strings.ToUpper(section.Title), strings.Repeat("-", len(section.Title)))
		for _, a := range section.Articles {
			fmt.Fprintf(&b, "\n* %s\n  %s\n", a.Title, a.URL)
			if a.Analysis != nil {
				fmt.Fprintf(&b, "  score %.1f · %s\n", a.Analysis.OverallScore, a.Analysis.Action)
			}
			if summary := textSummary(a); summary != "" {
				fmt.Fprintf(&b, "  %s\n", summary)
			}
		}
	}

	fmt.Fprintf(&b, "\nIssue %s\n", issue.ID)
	return b.String()
}

func textSummary(a domain.Article) string {
	if a.Analysis != nil && a.Analysis.Summary != "" {
		return a.Analysis.Summary
	}
	return a.Summary
}
