// Package report renders a daily readiness summary as markdown and HTML
// for distribution outside the API (briefing emails, printed rosters).
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"fieldready/domain/anomaly"
	"fieldready/domain/insight"
	"fieldready/domain/score"
)

// Daily bundles everything one report covers
type Daily struct {
	Result   score.ComprehensiveReadinessResult
	Insights insight.Insights
	Alerts   []anomaly.Alert
}

// Markdown renders the report in markdown
func (d Daily) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Readiness Report: %s\n\n", d.Result.Date)
	fmt.Fprintf(&b, "**%s** (%.1f/100, confidence %s)\n\n",
		d.Result.Category, d.Result.OverallReadiness, d.Result.Confidence)
	if d.Insights.StatusLabel != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Insights.StatusLabel)
	}

	if len(d.Insights.TopFactors) > 0 {
		b.WriteString("## Key Factors\n\n")
		for _, factor := range d.Insights.TopFactors {
			fmt.Fprintf(&b, "- %s\n", factor)
		}
		b.WriteString("\n")
	}

	if d.Insights.TrendLabel != "" {
		fmt.Fprintf(&b, "Trend: %s\n\n", d.Insights.TrendLabel)
	}

	b.WriteString("## Alerts\n\n")
	if len(d.Alerts) == 0 {
		b.WriteString("No anomalies detected.\n")
	} else {
		for _, alert := range d.Alerts {
			marker := ""
			if alert.IsCritical {
				marker = " **[CRITICAL]**"
			}
			fmt.Fprintf(&b, "- %s%s", alert.Message, marker)
			if alert.TacticalRecommendation != "" {
				fmt.Fprintf(&b, " %s", alert.TacticalRecommendation)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Sub-scores\n\n")
	b.WriteString("| Score | Value | Confidence |\n")
	b.WriteString("|---|---|---|\n")
	for _, name := range score.AllNames {
		value, present := d.Result.Scores[name]
		if !present {
			continue
		}
		fmt.Fprintf(&b, "| %s | %.1f | %s |\n", name, value, d.Result.ConfidenceLevels[name])
	}

	return b.String()
}

// HTML renders the markdown report to an HTML fragment
func (d Daily) HTML() []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(d.Markdown()), p, renderer)
}
