package analysis_test

import (
	"strings"
	"testing"

	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/model"
)

func TestParseReport(t *testing.T) {
	t.Run("Extracts Known Category", func(t *testing.T) {
		body := "## Summary\nSomething broke.\n\n**Category**: Configuration\n"
		report := analysis.ParseReport(body)
		if report.Category != model.CategoryConfiguration {
			t.Errorf("expected Configuration, got %q", report.Category)
		}
		if report.Body != body {
			t.Errorf("body must be preserved verbatim")
		}
	})

	t.Run("Category Is Case Insensitive And Bracketed", func(t *testing.T) {
		report := analysis.ParseReport("**Category**: [deployment]")
		if report.Category != model.CategoryDeployment {
			t.Errorf("expected Deployment, got %q", report.Category)
		}
	})

	t.Run("Unknown Category", func(t *testing.T) {
		report := analysis.ParseReport("**Category**: Cosmic Rays")
		if report.Category != model.CategoryUnknown {
			t.Errorf("expected unknown category, got %q", report.Category)
		}
	})

	t.Run("Missing Marker", func(t *testing.T) {
		report := analysis.ParseReport("just prose, no marker at all")
		if report.Category != model.CategoryUnknown {
			t.Errorf("expected unknown category, got %q", report.Category)
		}
	})
}

func TestRenderWorkItemComment(t *testing.T) {
	t.Run("Headings And Bold", func(t *testing.T) {
		got := analysis.RenderWorkItemComment("## Root Cause\n**Category**: Code\n- one thing")
		for _, want := range []string{"<h3>Root Cause</h3>", "<b>Category</b>: Code", "<li>one thing</li>"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got %q", want, got)
			}
		}
	})

	t.Run("Plain Text Wraps Whole", func(t *testing.T) {
		got := analysis.RenderWorkItemComment("no structure here")
		if got != "<div>no structure here</div>" {
			t.Errorf("expected whole-text wrap, got %q", got)
		}
	})

	t.Run("Escapes HTML", func(t *testing.T) {
		got := analysis.RenderWorkItemComment("x < y <script>")
		if strings.Contains(got, "<script>") {
			t.Errorf("raw markup must be escaped, got %q", got)
		}
	})
}

func TestRenderEmailBody(t *testing.T) {
	event := model.PullRequestEvent{
		RepositoryURL: "https://dev.azure.com/org/proj/_git/repo",
		PullRequestID: 42,
		Title:         "Fix <crash>",
	}
	got := analysis.RenderEmailBody(event, "report body")
	if !strings.Contains(got, "https://dev.azure.com/org/proj/_git/repo/pullrequest/42") {
		t.Errorf("expected PR link, got %q", got)
	}
	if strings.Contains(got, "<crash>") {
		t.Errorf("title must be escaped, got %q", got)
	}
	if !strings.Contains(got, "report body") {
		t.Errorf("expected body in email, got %q", got)
	}
}
