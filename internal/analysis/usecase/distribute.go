package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/model"
	"pr-rca-service/pkg/azuredevops"
)

// distribute fans the report out to the PR thread, the linked work items
// and email, concurrently. Sinks are isolated: a failure is logged and
// recorded in the result, never propagated, so one broken sink cannot
// starve the others.
func (uc *implUsecase) distribute(ctx context.Context, host analysis.HostClient, event model.PullRequestEvent, settings model.UserSettings, report model.Report) analysis.DistributionResult {
	var res analysis.DistributionResult

	workItems, err := uc.linkedWorkItems(ctx, host, event)
	if err != nil {
		uc.l.Warnf(ctx, "distribute: failed to resolve linked work items for PR %d: %v", event.PullRequestID, err)
		workItems = nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		content := "Automated root cause analysis:\n\n" + report.Body
		if settings.AutoDetectDeveloper && strings.Contains(event.AuthorEmail, "@") {
			content = fmt.Sprintf("@%s %s", event.AuthorName, content)
		}
		if err := host.CreateThread(gctx, event.Project, event.RepositoryID, event.PullRequestID, content); err != nil {
			uc.l.Errorf(gctx, "distribute: failed to post PR comment on %d: %v", event.PullRequestID, err)
			return nil
		}
		res.CommentPosted = true
		return nil
	})

	g.Go(func() error {
		res.WorkItemsTotal = len(workItems)
		if len(workItems) == 0 {
			return nil
		}
		htmlBody := analysis.RenderWorkItemComment(report.Body)
		for _, wi := range workItems {
			if err := host.PostWorkItemComment(gctx, event.Project, wi.ID, htmlBody); err != nil {
				uc.l.Warnf(gctx, "distribute: failed to comment on work item %d: %v", wi.ID, err)
				continue
			}
			if report.Category != model.CategoryUnknown {
				if err := host.UpdateWorkItemFields(gctx, event.Project, wi.ID, map[string]any{
					azuredevops.FieldRootCause: string(report.Category),
				}); err != nil {
					uc.l.Warnf(gctx, "distribute: failed to set root cause on work item %d: %v", wi.ID, err)
				}
			}
			res.WorkItemsUpdated++
		}
		return nil
	})

	g.Go(func() error {
		if !settings.SendEmails {
			uc.l.Infof(gctx, "distribute: email disabled in settings, skipping for PR %d", event.PullRequestID)
			return nil
		}
		if !uc.deps.Mailer.Configured() {
			uc.l.Infof(gctx, "distribute: mailer not configured, skipping email for PR %d", event.PullRequestID)
			return nil
		}
		recipients := uc.emailRecipients(settings, event)
		res.EmailRecipients = len(recipients)
		if len(recipients) == 0 {
			uc.l.Warnf(gctx, "distribute: email enabled but no valid recipients for PR %d", event.PullRequestID)
			return nil
		}
		subject := fmt.Sprintf("Root Cause Analysis: PR #%d %s", event.PullRequestID, event.Title)
		if err := uc.deps.Mailer.Send(recipients, subject, analysis.RenderEmailBody(event, report.Body)); err != nil {
			uc.l.Errorf(gctx, "distribute: failed to send email for PR %d: %v", event.PullRequestID, err)
			return nil
		}
		res.EmailSent = true
		return nil
	})

	_ = g.Wait() // sinks swallow their own errors
	return res
}

// emailRecipients resolves and deduplicates notification recipients:
// configured addresses, optionally the PR author, then the operator
// fallback when everything else is empty or invalid.
func (uc *implUsecase) emailRecipients(settings model.UserSettings, event model.PullRequestEvent) []string {
	seen := make(map[string]struct{})
	var recipients []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if !strings.Contains(addr, "@") {
			return
		}
		key := strings.ToLower(addr)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		recipients = append(recipients, addr)
	}

	for _, addr := range settings.NotificationEmails {
		add(addr)
	}
	if settings.AutoDetectDeveloper {
		add(event.AuthorEmail)
	}
	if len(recipients) == 0 {
		add(uc.deps.FallbackEmail)
	}
	return recipients
}
