package service

import (
	"context"
	"testing"

	"github.com/blog-cms-api/internal/mocks"
	"github.com/blog-cms-api/internal/models"
	"github.com/rs/zerolog"
)

func newMaintenanceFixture() (*maintenanceService, *mocks.MockArticleRepository, *mocks.MockJobRepository) {
	articles := mocks.NewMockArticleRepository()
	jobs := mocks.NewMockJobRepository()
	svc := newMaintenanceService(jobs, newTestArticleService(articles), zerolog.Nop())
	return svc, articles, jobs
}

func TestCreateRederiveJob(t *testing.T) {
	svc, _, jobs := newMaintenanceFixture()
	ctx := context.Background()

	job, err := svc.CreateRederiveJob(ctx, "key-1")
	if err != nil {
		t.Fatalf("CreateRederiveJob: %v", err)
	}
	if job.Type != models.JobTypeRederive || job.Status != models.JobStatusPending {
		t.Errorf("job = %+v", job)
	}

	// same key returns the existing job instead of queueing another
	again, err := svc.CreateRederiveJob(ctx, "key-1")
	if err != nil {
		t.Fatalf("repeat CreateRederiveJob: %v", err)
	}
	if again.ID != job.ID {
		t.Errorf("idempotency key produced a second job: %s / %s", job.ID, again.ID)
	}
	if len(jobs.Jobs) != 1 {
		t.Errorf("stored jobs = %d, want 1", len(jobs.Jobs))
	}

	// different key queues a new pass
	other, err := svc.CreateRederiveJob(ctx, "key-2")
	if err != nil {
		t.Fatalf("CreateRederiveJob: %v", err)
	}
	if other.ID == job.ID {
		t.Error("distinct keys must create distinct jobs")
	}

	// an empty key never deduplicates
	a, _ := svc.CreateRederiveJob(ctx, "")
	b, _ := svc.CreateRederiveJob(ctx, "")
	if a.ID == b.ID {
		t.Error("empty idempotency keys deduplicated")
	}
}

func TestGetJob(t *testing.T) {
	svc, _, _ := newMaintenanceFixture()
	ctx := context.Background()

	created, err := svc.CreateRederiveJob(ctx, "")
	if err != nil {
		t.Fatalf("CreateRederiveJob: %v", err)
	}
	got, err := svc.GetJob(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Errorf("GetJob = %+v", got)
	}

	missing, err := svc.GetJob(ctx, "no-such-job")
	if err != nil || missing != nil {
		t.Errorf("missing job: %v, %+v", err, missing)
	}
}

func TestRunRederivePass(t *testing.T) {
	svc, articles, jobs := newMaintenanceFixture()
	ctx := context.Background()

	writer := newTestArticleService(articles)
	inStep, err := writer.Create(ctx, "owner", &models.Article{
		Title:   "Already Fine",
		Content: []models.ContentBlock{textBlock("stable body")},
	})
	if err != nil {
		t.Fatalf("fixture create: %v", err)
	}
	drifted, err := writer.Create(ctx, "owner", &models.Article{
		Title:   "Stale Derived",
		Content: []models.ContentBlock{textBlock("fresh body")},
	})
	if err != nil {
		t.Fatalf("fixture create: %v", err)
	}

	// corrupt one stored derived pair behind the service's back
	stored := articles.Articles[drifted.ID]
	stored.Excerpt = "old excerpt"
	stored.ReadTime = 99

	job, err := svc.CreateRederiveJob(ctx, "")
	if err != nil {
		t.Fatalf("CreateRederiveJob: %v", err)
	}
	svc.runRederive(ctx, job)

	persisted, _ := jobs.GetByID(ctx, job.ID)
	if persisted.Status != models.JobStatusCompleted {
		t.Fatalf("job status = %q, want completed", persisted.Status)
	}
	if persisted.TotalRecords != 2 || persisted.ProcessedCount != 2 {
		t.Errorf("total=%d processed=%d, want 2/2", persisted.TotalRecords, persisted.ProcessedCount)
	}
	if persisted.SuccessfulCount != 1 {
		t.Errorf("rewritten = %d, want only the drifted article", persisted.SuccessfulCount)
	}
	if persisted.FailedCount != 0 {
		t.Errorf("failed = %d", persisted.FailedCount)
	}
	if persisted.CompletedAt == nil || persisted.StartedAt == nil {
		t.Error("job timestamps not recorded")
	}

	fixed, _ := articles.GetByID(ctx, drifted.ID)
	if fixed.Excerpt != "fresh body..." || fixed.ReadTime != 1 {
		t.Errorf("drifted article not repaired: %q / %d", fixed.Excerpt, fixed.ReadTime)
	}
	untouched, _ := articles.GetByID(ctx, inStep.ID)
	if untouched.Excerpt != "stable body..." {
		t.Errorf("in-step article rewritten: %q", untouched.Excerpt)
	}

	// re-running a completed pass rewrites nothing
	job2, _ := svc.CreateRederiveJob(ctx, "")
	svc.runRederive(ctx, job2)
	persisted2, _ := jobs.GetByID(ctx, job2.ID)
	if persisted2.SuccessfulCount != 0 {
		t.Errorf("second pass rewrote %d articles, want 0", persisted2.SuccessfulCount)
	}
}
