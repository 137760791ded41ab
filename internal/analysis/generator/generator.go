// Package generator produces root-cause reports from collected PR context
// via a chat-completion model.
package generator

import (
	"context"
	"fmt"
	"strings"

	"pr-rca-service/internal/analysis"
	pkgLog "pr-rca-service/pkg/log"
	"pr-rca-service/pkg/openai"
)

const systemPrompt = `You are a senior engineer performing a root cause analysis of a bug fix pull request.
Using the changed files, commit messages and any review discussion provided, write a concise Markdown report with these sections:

## Summary
## Root Cause
## The Fix
## Recommendations

After the sections, add exactly one line of the form:
**Category**: <one of Code, Configuration, Design, Deployment>

Base every statement on the provided context. If the context is insufficient, say so explicitly instead of guessing.`

const fallbackReport = `## Summary
Automated root cause analysis could not be completed for this pull request.

## Root Cause
The analysis backend did not return a usable report. The pull request still looks bug related and deserves a manual review.`

// Generator implements the report-generation boundary on top of a
// chat-completion client. Generate never fails: backend errors degrade to
// a fallback report so distribution always has something to deliver.
type Generator struct {
	llm          openai.IOpenAI
	defaultModel string
	l            pkgLog.Logger
}

var _ analysis.ReportGenerator = (*Generator)(nil)

// New creates a Generator. defaultModel is used when a user has not
// picked a model in their settings.
func New(llm openai.IOpenAI, defaultModel string, l pkgLog.Logger) *Generator {
	return &Generator{llm: llm, defaultModel: defaultModel, l: l}
}

func (g *Generator) Generate(ctx context.Context, input analysis.GenerateInput) string {
	model := input.Model
	if model == "" {
		model = g.defaultModel
	}

	req := openai.ChatRequest{
		Model: model,
		Messages: []openai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(input)},
		},
		Temperature: 0.2,
	}
	if input.DeepThinking {
		req.ReasoningEffort = "high"
	}

	report, err := g.llm.CreateChatCompletion(ctx, req)
	if err != nil {
		g.l.Errorf(ctx, "generator: chat completion failed for PR %d: %v", input.Event.PullRequestID, err)
		return fallbackReport
	}
	if strings.TrimSpace(report) == "" {
		g.l.Errorf(ctx, "generator: empty completion for PR %d", input.Event.PullRequestID)
		return fallbackReport
	}
	return report
}

// buildPrompt lays the collected context out as labelled sections.
func buildPrompt(input analysis.GenerateInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Pull Request #%d: %s\n", input.Event.PullRequestID, input.Event.Title)
	if input.Event.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", input.Event.Description)
	}
	fmt.Fprintf(&b, "Source branch: %s\nTarget branch: %s\nAuthor: %s\n",
		input.Event.SourceBranch, input.Event.TargetBranch, input.Event.AuthorName)

	if len(input.Context.Commits) > 0 {
		b.WriteString("\nCommits:\n")
		for _, c := range input.Context.Commits {
			fmt.Fprintf(&b, "- %s: %s\n", shortSHA(c.SHA), c.Message)
		}
	}

	if input.Context.DiffSummary != "" {
		b.WriteString("\n" + input.Context.DiffSummary + "\n")
	}

	if len(input.Context.Comments) > 0 {
		b.WriteString("\nReview discussion:\n")
		for _, c := range input.Context.Comments {
			b.WriteString(c + "\n")
		}
	}

	if len(input.Context.PreviousCommits) > 0 {
		b.WriteString("\nRecent commits on the target branch before this PR:\n")
		for _, c := range input.Context.PreviousCommits {
			fmt.Fprintf(&b, "- %s: %s\n", shortSHA(c.SHA), c.Message)
		}
	}

	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
