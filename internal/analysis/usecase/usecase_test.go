package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"pr-rca-service/internal/analysis"
	"pr-rca-service/internal/analysis/usecase"
	"pr-rca-service/internal/classifier"
	"pr-rca-service/internal/model"
	"pr-rca-service/pkg/azuredevops"
)

// mockLogger records Infof lines so tests can assert log-only outcomes.
type mockLogger struct {
	mu    sync.Mutex
	infos []string
}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Infof(ctx context.Context, template string, args ...any) {
	m.mu.Lock()
	m.infos = append(m.infos, fmt.Sprintf(template, args...))
	m.mu.Unlock()
}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, args ...any)  {}

func (m *mockLogger) logged(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.infos {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type mockDedup struct{ admit bool }

func (m *mockDedup) Admit(key string) bool { return m.admit }

type mockClassifier struct{ result bool }

func (m *mockClassifier) Classify(ctx context.Context, event model.PullRequestEvent, lookup classifier.WorkItemLookup) bool {
	return m.result
}

type mockRegistry struct {
	repo        model.RepositoryLink
	repoErr     error
	user        model.User
	userErr     error
	settings    model.UserSettings
	settingsErr error
}

func (m *mockRegistry) GetRepository(ctx context.Context, repoID string) (model.RepositoryLink, error) {
	return m.repo, m.repoErr
}
func (m *mockRegistry) GetUser(ctx context.Context, userID string) (model.User, error) {
	return m.user, m.userErr
}
func (m *mockRegistry) GetSettings(ctx context.Context, userID string) (model.UserSettings, error) {
	return m.settings, m.settingsErr
}

type mockTokens struct {
	token string
	err   error
}

func (m *mockTokens) GetValidToken(ctx context.Context, userID string) (string, error) {
	return m.token, m.err
}

type mockGenerator struct {
	mu     sync.Mutex
	input  analysis.GenerateInput
	report string
}

func (m *mockGenerator) Generate(ctx context.Context, input analysis.GenerateInput) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input = input
	return m.report
}

func (m *mockGenerator) captured() analysis.GenerateInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input
}

type mockMailer struct {
	mu         sync.Mutex
	configured bool
	err        error
	recipients []string
	subject    string
}

func (m *mockMailer) Configured() bool { return m.configured }

func (m *mockMailer) Send(recipients []string, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients = recipients
	m.subject = subject
	return m.err
}

func (m *mockMailer) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recipients
}

// mockHost returns empty results by default; individual methods are
// overridden per test through the func fields.
type mockHost struct {
	mu sync.Mutex

	iterationsFn      func() ([]azuredevops.Iteration, error)
	changesFn         func() ([]azuredevops.ChangeEntry, error)
	blobFn            func(objectID string) (string, error)
	commitsFn         func() ([]azuredevops.CommitRef, error)
	branchCommitsFn   func(branch string, top int) ([]azuredevops.CommitRef, error)
	threadsFn         func() ([]azuredevops.CommentThread, error)
	createThreadFn    func(content string) error
	workItemRefsFn    func() ([]azuredevops.WorkItemRef, error)
	workItemsFn       func(ids []int) ([]azuredevops.WorkItem, error)
	postWICommentFn   func(id int, text string) error
	updateWIFieldsFn  func(id int, fields map[string]any) error
	threadContent     string
	workItemComments  []int
	rootCauseUpdates  map[int]string
	branchCommitsArgs string
}

func newMockHost() *mockHost {
	return &mockHost{rootCauseUpdates: make(map[int]string)}
}

func (h *mockHost) GetPullRequestIterations(ctx context.Context, project, repoID string, prID int) ([]azuredevops.Iteration, error) {
	if h.iterationsFn != nil {
		return h.iterationsFn()
	}
	return nil, nil
}

func (h *mockHost) GetIterationChanges(ctx context.Context, project, repoID string, prID, iterationID int) ([]azuredevops.ChangeEntry, error) {
	if h.changesFn != nil {
		return h.changesFn()
	}
	return nil, nil
}

func (h *mockHost) GetBlobContent(ctx context.Context, project, repoID, objectID string) (string, error) {
	if h.blobFn != nil {
		return h.blobFn(objectID)
	}
	return "", nil
}

func (h *mockHost) GetPullRequestCommits(ctx context.Context, project, repoID string, prID int) ([]azuredevops.CommitRef, error) {
	if h.commitsFn != nil {
		return h.commitsFn()
	}
	return nil, nil
}

func (h *mockHost) GetBranchCommits(ctx context.Context, project, repoID, branch string, top int) ([]azuredevops.CommitRef, error) {
	h.mu.Lock()
	h.branchCommitsArgs = fmt.Sprintf("%s/%d", branch, top)
	h.mu.Unlock()
	if h.branchCommitsFn != nil {
		return h.branchCommitsFn(branch, top)
	}
	return nil, nil
}

func (h *mockHost) GetThreads(ctx context.Context, project, repoID string, prID int) ([]azuredevops.CommentThread, error) {
	if h.threadsFn != nil {
		return h.threadsFn()
	}
	return nil, nil
}

func (h *mockHost) CreateThread(ctx context.Context, project, repoID string, prID int, content string) error {
	h.mu.Lock()
	h.threadContent = content
	h.mu.Unlock()
	if h.createThreadFn != nil {
		return h.createThreadFn(content)
	}
	return nil
}

func (h *mockHost) GetPullRequestWorkItemRefs(ctx context.Context, project, repoID string, prID int) ([]azuredevops.WorkItemRef, error) {
	if h.workItemRefsFn != nil {
		return h.workItemRefsFn()
	}
	return nil, nil
}

func (h *mockHost) GetWorkItems(ctx context.Context, project string, ids []int, fields []string) ([]azuredevops.WorkItem, error) {
	if h.workItemsFn != nil {
		return h.workItemsFn(ids)
	}
	return nil, nil
}

func (h *mockHost) PostWorkItemComment(ctx context.Context, project string, workItemID int, text string) error {
	if h.postWICommentFn != nil {
		if err := h.postWICommentFn(workItemID, text); err != nil {
			return err
		}
	}
	h.mu.Lock()
	h.workItemComments = append(h.workItemComments, workItemID)
	h.mu.Unlock()
	return nil
}

func (h *mockHost) UpdateWorkItemFields(ctx context.Context, project string, workItemID int, fields map[string]any) error {
	if h.updateWIFieldsFn != nil {
		if err := h.updateWIFieldsFn(workItemID, fields); err != nil {
			return err
		}
	}
	h.mu.Lock()
	if v, ok := fields[azuredevops.FieldRootCause].(string); ok {
		h.rootCauseUpdates[workItemID] = v
	}
	h.mu.Unlock()
	return nil
}

func (h *mockHost) postedThread() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.threadContent
}

func (h *mockHost) commentedWorkItems() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.workItemComments...)
}

func (h *mockHost) rootCause(id int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rootCauseUpdates[id]
}

type fixture struct {
	log       *mockLogger
	dedup     *mockDedup
	cls       *mockClassifier
	registry  *mockRegistry
	tokens    *mockTokens
	generator *mockGenerator
	mail      *mockMailer
	host      *mockHost
	uc        analysis.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		log:   &mockLogger{},
		dedup: &mockDedup{admit: true},
		cls:   &mockClassifier{result: true},
		registry: &mockRegistry{
			repo: model.RepositoryLink{ID: "repo-1", UserID: "u1", Project: "proj"},
			user: model.User{ID: "u1", IsActive: true},
			settings: model.UserSettings{
				SendEmails:         true,
				NotificationEmails: []string{"team@example.com"},
			},
		},
		tokens:    &mockTokens{token: "tok"},
		generator: &mockGenerator{report: "## Summary\nok\n**Category**: Code"},
		mail:      &mockMailer{configured: true},
		host:      newMockHost(),
	}
	f.uc = usecase.New(f.log, usecase.Dependencies{
		Dedup:         f.dedup,
		Classifier:    f.cls,
		Registry:      f.registry,
		Tokens:        f.tokens,
		Generator:     f.generator,
		Mailer:        f.mail,
		Hosts:         func(orgURL, token string) analysis.HostClient { return f.host },
		FallbackEmail: "fallback@example.com",
	})
	return f
}

func testEvent() model.PullRequestEvent {
	return model.PullRequestEvent{
		RepositoryID:  "repo-1",
		RepositoryURL: "https://dev.azure.com/org/proj/_git/repo",
		Project:       "proj",
		PullRequestID: 42,
		Title:         "Fix: bug in login",
		TargetBranch:  "refs/heads/main",
		AuthorName:    "Dana Dev",
		AuthorEmail:   "dana@example.com",
	}
}

func TestAnalyzeSkips(t *testing.T) {
	ctx := context.Background()

	t.Run("Duplicate", func(t *testing.T) {
		f := newFixture()
		f.dedup.admit = false

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Skipped || out.SkipReason != analysis.SkipDuplicate {
			t.Errorf("expected duplicate skip, got %+v", out)
		}
		if f.host.postedThread() != "" {
			t.Errorf("duplicate must not reach distribution")
		}
	})

	t.Run("Repository Not Linked", func(t *testing.T) {
		f := newFixture()
		f.registry.repoErr = errors.New("no rows")

		_, err := f.uc.Analyze(ctx, testEvent())
		if !errors.Is(err, analysis.ErrRepositoryNotLinked) {
			t.Errorf("expected ErrRepositoryNotLinked, got %v", err)
		}
	})

	t.Run("Service Disabled", func(t *testing.T) {
		f := newFixture()
		f.registry.user.IsActive = false

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Skipped || out.SkipReason != analysis.SkipServiceDisabled {
			t.Errorf("expected service-disabled skip, got %+v", out)
		}
	})

	t.Run("Not Bug Related", func(t *testing.T) {
		f := newFixture()
		f.cls.result = false

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Skipped || out.SkipReason != analysis.SkipNotBug {
			t.Errorf("expected not-bug skip, got %+v", out)
		}
	})

	t.Run("Credential Failure Is An Error", func(t *testing.T) {
		f := newFixture()
		f.tokens.err = errors.New("refresh failed")

		_, err := f.uc.Analyze(ctx, testEvent())
		if err == nil {
			t.Fatalf("expected error when no credential is available")
		}
		if f.host.postedThread() != "" {
			t.Errorf("credential failure must not reach distribution")
		}
	})
}

func TestAnalyzeHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.host.workItemRefsFn = func() ([]azuredevops.WorkItemRef, error) {
		return []azuredevops.WorkItemRef{{ID: "101"}, {ID: "102"}}, nil
	}
	f.host.workItemsFn = func(ids []int) ([]azuredevops.WorkItem, error) {
		items := make([]azuredevops.WorkItem, 0, len(ids))
		for _, id := range ids {
			items = append(items, azuredevops.WorkItem{
				ID:     id,
				Fields: map[string]any{azuredevops.FieldWorkItemType: "Bug"},
			})
		}
		return items, nil
	}

	out, err := f.uc.Analyze(ctx, testEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Skipped {
		t.Fatalf("expected a completed run, got skip %q", out.SkipReason)
	}
	if out.Report.Category != model.CategoryCode {
		t.Errorf("expected Code category, got %q", out.Report.Category)
	}

	if !out.Distribution.CommentPosted {
		t.Errorf("expected PR comment to be posted")
	}
	// Auto-detect is off in the fixture, so no author mention.
	if got := f.host.postedThread(); !strings.HasPrefix(got, "Automated root cause analysis:") {
		t.Errorf("unexpected PR comment: %q", got)
	}

	if out.Distribution.WorkItemsTotal != 2 || out.Distribution.WorkItemsUpdated != 2 {
		t.Errorf("expected 2/2 work items, got %d/%d", out.Distribution.WorkItemsUpdated, out.Distribution.WorkItemsTotal)
	}
	if got := f.host.rootCause(101); got != "Code" {
		t.Errorf("expected root cause field on 101, got %q", got)
	}

	if !out.Distribution.EmailSent {
		t.Errorf("expected email to be sent")
	}
	if got := f.mail.sent(); len(got) != 1 || got[0] != "team@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}
}

func TestThreadCommentMention(t *testing.T) {
	ctx := context.Background()

	t.Run("Mentions Author When Auto Detect Is On", func(t *testing.T) {
		f := newFixture()
		f.registry.settings.AutoDetectDeveloper = true

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.host.postedThread(); !strings.HasPrefix(got, "@Dana Dev ") {
			t.Errorf("expected an author mention, got %q", got)
		}
	})

	t.Run("No Mention Without A Valid Author Email", func(t *testing.T) {
		f := newFixture()
		f.registry.settings.AutoDetectDeveloper = true
		event := testEvent()
		event.AuthorEmail = "dana"

		if _, err := f.uc.Analyze(ctx, event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.host.postedThread(); strings.HasPrefix(got, "@") {
			t.Errorf("mention requires an email-shaped author identifier, got %q", got)
		}
	})

	t.Run("No Mention When Auto Detect Is Off", func(t *testing.T) {
		f := newFixture()

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.host.postedThread(); strings.HasPrefix(got, "@") {
			t.Errorf("mention requires auto-detect, got %q", got)
		}
	})
}

func TestAnalyzeContextCollection(t *testing.T) {
	ctx := context.Background()

	setupDiff := func(f *fixture, files int, content string) {
		f.host.iterationsFn = func() ([]azuredevops.Iteration, error) {
			return []azuredevops.Iteration{{ID: 1}, {ID: 2}}, nil
		}
		f.host.changesFn = func() ([]azuredevops.ChangeEntry, error) {
			entries := make([]azuredevops.ChangeEntry, 0, files)
			for i := 0; i < files; i++ {
				entries = append(entries, azuredevops.ChangeEntry{
					Item:       azuredevops.ChangeItem{Path: fmt.Sprintf("/pkg/file%d.go", i), ObjectID: fmt.Sprintf("obj%d", i)},
					ChangeType: "edit",
				})
			}
			return entries, nil
		}
		f.host.blobFn = func(objectID string) (string, error) { return content, nil }
	}

	t.Run("Per File Truncation", func(t *testing.T) {
		f := newFixture()
		setupDiff(f, 1, strings.Repeat("x", 5000))

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary := f.generator.captured().Context.DiffSummary
		if !strings.Contains(summary, "...(file truncated)") {
			t.Errorf("oversized file must carry the truncation marker")
		}
		if strings.Count(summary, "x") > 3000 {
			t.Errorf("file content must be capped at the per-file budget")
		}
	})

	t.Run("Overall Budget", func(t *testing.T) {
		f := newFixture()
		setupDiff(f, 20, strings.Repeat("y", 2900))

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary := f.generator.captured().Context.DiffSummary
		if !strings.Contains(summary, "...(Remaining files truncated due to size limit)...") {
			t.Errorf("expected the overall budget marker")
		}
		slack := len("\n...(Remaining files truncated due to size limit)...") + len("\n...(file truncated)") + 64
		if len(summary) > 15000+slack {
			t.Errorf("summary length %d exceeds the budget", len(summary))
		}
	})

	t.Run("Exhausted Budget Skips The Next Header", func(t *testing.T) {
		f := newFixture()
		// Five full files land the running total 10 chars short of the
		// budget; the sixth header alone no longer fits, so the summary
		// must end with the overall marker, not an empty truncated entry.
		setupDiff(f, 8, strings.Repeat("z", 2958))

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary := f.generator.captured().Context.DiffSummary
		if !strings.Contains(summary, "...(Remaining files truncated due to size limit)...") {
			t.Errorf("expected the overall budget marker")
		}
		if strings.Contains(summary, "/pkg/file5.go") {
			t.Errorf("file past the budget must not emit a header:\n%s", summary)
		}
		if strings.Contains(summary, "(file truncated)") {
			t.Errorf("no file may be reported as truncated with zero content:\n%s", summary)
		}
	})

	t.Run("Source Files Come First And Binaries Are Skipped", func(t *testing.T) {
		f := newFixture()
		f.host.iterationsFn = func() ([]azuredevops.Iteration, error) {
			return []azuredevops.Iteration{{ID: 1}}, nil
		}
		f.host.changesFn = func() ([]azuredevops.ChangeEntry, error) {
			return []azuredevops.ChangeEntry{
				{Item: azuredevops.ChangeItem{Path: "/logo.png", ObjectID: "o1"}, ChangeType: "add"},
				{Item: azuredevops.ChangeItem{Path: "/README.md", ObjectID: "o2"}, ChangeType: "edit"},
				{Item: azuredevops.ChangeItem{Path: "/main.go", ObjectID: "o3"}, ChangeType: "edit"},
			}, nil
		}
		var fetched []string
		var mu sync.Mutex
		f.host.blobFn = func(objectID string) (string, error) {
			mu.Lock()
			fetched = append(fetched, objectID)
			mu.Unlock()
			return "content", nil
		}

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary := f.generator.captured().Context.DiffSummary

		if strings.Index(summary, "/main.go") > strings.Index(summary, "/README.md") {
			t.Errorf("source files must precede non-source files:\n%s", summary)
		}
		if !strings.Contains(summary, "/logo.png (Skipped large/binary file)") {
			t.Errorf("binary must be listed as skipped:\n%s", summary)
		}
		for _, id := range fetched {
			if id == "o1" {
				t.Errorf("binary content must never be fetched")
			}
		}
	})

	t.Run("Deep Thinking Collects Discussion", func(t *testing.T) {
		f := newFixture()
		f.registry.settings.DeepThinking = true
		f.host.threadsFn = func() ([]azuredevops.CommentThread, error) {
			review := azuredevops.ThreadComment{CommentType: "text", Content: "looks wrong"}
			review.Author.DisplayName = "Rey"
			system := azuredevops.ThreadComment{CommentType: "system", Content: "updated refs"}
			return []azuredevops.CommentThread{
				{Comments: []azuredevops.ThreadComment{review, system}},
				{IsDeleted: true, Comments: []azuredevops.ThreadComment{{CommentType: "text", Content: "gone"}}},
			}, nil
		}
		f.host.branchCommitsFn = func(branch string, top int) ([]azuredevops.CommitRef, error) {
			return []azuredevops.CommitRef{{CommitID: "aaa", Comment: "earlier fix"}}, nil
		}

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := f.generator.captured()
		if len(got.Context.Comments) != 1 || got.Context.Comments[0] != "[Rey]: looks wrong" {
			t.Errorf("unexpected comments: %v", got.Context.Comments)
		}
		if len(got.Context.PreviousCommits) != 1 {
			t.Errorf("expected previous commits, got %v", got.Context.PreviousCommits)
		}
		f.host.mu.Lock()
		args := f.host.branchCommitsArgs
		f.host.mu.Unlock()
		if args != "main/10" {
			t.Errorf("expected short branch name and top 10, got %q", args)
		}
	})

	t.Run("Standard Mode Skips Discussion", func(t *testing.T) {
		f := newFixture()
		f.host.threadsFn = func() ([]azuredevops.CommentThread, error) {
			t.Fatalf("threads must not be fetched without deep thinking")
			return nil, nil
		}

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.generator.captured(); len(got.Context.Comments) != 0 {
			t.Errorf("expected no comments, got %v", got.Context.Comments)
		}
	})

	t.Run("Collection Failure Still Generates", func(t *testing.T) {
		f := newFixture()
		f.host.iterationsFn = func() ([]azuredevops.Iteration, error) {
			return nil, errors.New("503")
		}
		f.host.commitsFn = func() ([]azuredevops.CommitRef, error) {
			return nil, errors.New("503")
		}

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Skipped {
			t.Errorf("collection failure must not skip the run")
		}
		if !out.Distribution.CommentPosted {
			t.Errorf("report must still be distributed")
		}
	})
}

func TestDistributionIsolation(t *testing.T) {
	ctx := context.Background()

	t.Run("Comment Failure Leaves Other Sinks Alone", func(t *testing.T) {
		f := newFixture()
		f.host.createThreadFn = func(content string) error { return errors.New("403") }
		f.host.workItemRefsFn = func() ([]azuredevops.WorkItemRef, error) {
			return []azuredevops.WorkItemRef{{ID: "7"}}, nil
		}
		f.host.workItemsFn = func(ids []int) ([]azuredevops.WorkItem, error) {
			return []azuredevops.WorkItem{{ID: 7, Fields: map[string]any{azuredevops.FieldWorkItemType: "Bug"}}}, nil
		}

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("sink failure must not fail the run: %v", err)
		}
		if out.Distribution.CommentPosted {
			t.Errorf("comment must be reported as failed")
		}
		if out.Distribution.WorkItemsUpdated != 1 {
			t.Errorf("work item sink must still run, got %d updated", out.Distribution.WorkItemsUpdated)
		}
		if !out.Distribution.EmailSent {
			t.Errorf("email sink must still run")
		}
	})

	t.Run("One Bad Work Item Does Not Stop The Rest", func(t *testing.T) {
		f := newFixture()
		f.host.workItemRefsFn = func() ([]azuredevops.WorkItemRef, error) {
			return []azuredevops.WorkItemRef{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
		}
		f.host.workItemsFn = func(ids []int) ([]azuredevops.WorkItem, error) {
			items := make([]azuredevops.WorkItem, 0, len(ids))
			for _, id := range ids {
				items = append(items, azuredevops.WorkItem{ID: id, Fields: map[string]any{}})
			}
			return items, nil
		}
		f.host.postWICommentFn = func(id int, text string) error {
			if id == 2 {
				return errors.New("locked")
			}
			return nil
		}

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Distribution.WorkItemsUpdated != 2 {
			t.Errorf("expected 2 of 3 work items updated, got %d", out.Distribution.WorkItemsUpdated)
		}
		if got := f.host.commentedWorkItems(); len(got) != 2 {
			t.Errorf("expected comments on the healthy work items, got %v", got)
		}
	})

	t.Run("Unknown Category Skips Field Update", func(t *testing.T) {
		f := newFixture()
		f.generator.report = "prose without a marker"
		f.host.workItemRefsFn = func() ([]azuredevops.WorkItemRef, error) {
			return []azuredevops.WorkItemRef{{ID: "9"}}, nil
		}
		f.host.workItemsFn = func(ids []int) ([]azuredevops.WorkItem, error) {
			return []azuredevops.WorkItem{{ID: 9, Fields: map[string]any{}}}, nil
		}
		f.host.updateWIFieldsFn = func(id int, fields map[string]any) error {
			t.Errorf("field update must not happen for an unknown category")
			return nil
		}

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestEmailRecipients(t *testing.T) {
	ctx := context.Background()

	t.Run("Auto Detect Adds Author And Dedupes", func(t *testing.T) {
		f := newFixture()
		f.registry.settings.AutoDetectDeveloper = true
		f.registry.settings.NotificationEmails = []string{"dana@example.com", "team@example.com", "not-an-email"}

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := f.mail.sent()
		if len(got) != 2 {
			t.Fatalf("expected deduped valid recipients, got %v", got)
		}
		if out.Distribution.EmailRecipients != 2 {
			t.Errorf("expected 2 recipients recorded, got %d", out.Distribution.EmailRecipients)
		}
	})

	t.Run("Fallback When Nothing Valid", func(t *testing.T) {
		f := newFixture()
		f.registry.settings.NotificationEmails = []string{"bogus"}

		if _, err := f.uc.Analyze(ctx, testEvent()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.mail.sent(); len(got) != 1 || got[0] != "fallback@example.com" {
			t.Errorf("expected fallback recipient, got %v", got)
		}
	})

	t.Run("Emails Disabled", func(t *testing.T) {
		f := newFixture()
		f.registry.settings.SendEmails = false

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Distribution.EmailSent || len(f.mail.sent()) != 0 {
			t.Errorf("no email may be sent when the setting is off")
		}
		if !f.log.logged("email disabled") {
			t.Errorf("disabled email must leave a log trail")
		}
	})

	t.Run("Unconfigured Mailer Skips With A Log", func(t *testing.T) {
		f := newFixture()
		f.mail.configured = false

		out, err := f.uc.Analyze(ctx, testEvent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Distribution.EmailSent || len(f.mail.sent()) != 0 {
			t.Errorf("no email may be sent without a configured mailer")
		}
		if !f.log.logged("mailer not configured") {
			t.Errorf("skipped send must leave a log trail")
		}
	})
}
