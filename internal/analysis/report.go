package analysis

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"pr-rca-service/internal/model"
)

var (
	categoryRe = regexp.MustCompile(`\*\*Category\*\*:\s*([^\n]+)`)
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// ParseReport extracts the category marker from generated report text.
// Reports without a recognizable marker keep CategoryUnknown; the report
// body is always preserved as-is.
func ParseReport(body string) model.Report {
	report := model.Report{Category: model.CategoryUnknown, Body: body}

	m := categoryRe.FindStringSubmatch(body)
	if m == nil {
		return report
	}

	raw := strings.TrimSpace(m[1])
	raw = strings.Trim(raw, "[]")
	for _, cat := range []model.ReportCategory{
		model.CategoryCode,
		model.CategoryConfiguration,
		model.CategoryDesign,
		model.CategoryDeployment,
	} {
		if strings.EqualFold(raw, string(cat)) {
			report.Category = cat
			break
		}
	}
	return report
}

// RenderWorkItemComment converts a Markdown report into the simplified
// HTML that work item discussions display. Text without any structural
// markers is wrapped whole.
func RenderWorkItemComment(body string) string {
	escaped := html.EscapeString(body)
	if !strings.Contains(escaped, "#") && !strings.Contains(escaped, "**") {
		return "<div>" + escaped + "</div>"
	}

	var b strings.Builder
	for _, line := range strings.Split(escaped, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			b.WriteString("<h4>" + strings.TrimPrefix(trimmed, "### ") + "</h4>")
		case strings.HasPrefix(trimmed, "## "):
			b.WriteString("<h3>" + strings.TrimPrefix(trimmed, "## ") + "</h3>")
		case strings.HasPrefix(trimmed, "# "):
			b.WriteString("<h2>" + strings.TrimPrefix(trimmed, "# ") + "</h2>")
		case strings.HasPrefix(trimmed, "- "):
			b.WriteString("<li>" + strings.TrimPrefix(trimmed, "- ") + "</li>")
		case trimmed == "":
			b.WriteString("<br>")
		default:
			b.WriteString(line + "<br>")
		}
	}
	return boldRe.ReplaceAllString(b.String(), "<b>$1</b>")
}

// RenderEmailBody builds the HTML email for a completed analysis.
func RenderEmailBody(event model.PullRequestEvent, body string) string {
	prURL := fmt.Sprintf("%s/pullrequest/%d", event.RepositoryURL, event.PullRequestID)
	return fmt.Sprintf(
		`<h2>Root Cause Analysis for PR #%d</h2>`+
			`<p><b>%s</b></p>`+
			`<p><a href="%s">View pull request</a></p>`+
			`<div style="white-space: pre-wrap; font-family: monospace;">%s</div>`,
		event.PullRequestID,
		html.EscapeString(event.Title),
		prURL,
		html.EscapeString(body),
	)
}
