package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/mocks"
	"github.com/blog-cms-api/internal/models"
	"github.com/rs/zerolog"
)

func newTestArticleService(repo *mocks.MockArticleRepository) *articleService {
	svc := newArticleService(repo, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func textBlock(text string) models.ContentBlock {
	return models.ContentBlock{Type: models.BlockText, Content: text}
}

func TestCreateDefaults(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	body := strings.Repeat("word ", 99) + "end"
	created, err := svc.Create(context.Background(), "author-1", &models.Article{
		Title:   "Hello World",
		Content: []models.ContentBlock{textBlock(body)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.Slug != "hello-world" {
		t.Errorf("slug = %q, want %q", created.Slug, "hello-world")
	}
	if created.Status != models.StatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.AuthorID != "author-1" {
		t.Errorf("author = %q", created.AuthorID)
	}
	if created.PublishedAt != nil {
		t.Error("draft must not have a publish timestamp")
	}
	if created.ReadTime != 1 {
		t.Errorf("read time = %d, want 1 (100 words)", created.ReadTime)
	}
	if !strings.HasPrefix(created.Excerpt, "word word") {
		t.Errorf("excerpt = %q, want prefix of the body", created.Excerpt)
	}
	if created.Views != 0 || created.Likes != 0 {
		t.Errorf("new article has views=%d likes=%d, want zero", created.Views, created.Likes)
	}
}

func TestCreateWithoutContent(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, err := svc.Create(context.Background(), "author-1", &models.Article{Title: "Hello, World!"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Slug != "hello-world" {
		t.Errorf("slug = %q, want hello-world", created.Slug)
	}
	if created.Excerpt != "" {
		t.Errorf("excerpt = %q, want empty", created.Excerpt)
	}
	if created.ReadTime != 0 {
		t.Errorf("read time = %d, want 0", created.ReadTime)
	}
}

func TestCreateDirectPublish(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	// without a category the transition into published is rejected
	_, err := svc.Create(context.Background(), "author-1", &models.Article{
		Title:  "No Category",
		Status: models.StatusPublished,
	})
	if !apperr.IsState(err) {
		t.Fatalf("expected StateError, got %v", err)
	}

	created, err := svc.Create(context.Background(), "author-1", &models.Article{
		Title:    "With Category",
		Status:   models.StatusPublished,
		Category: "technology",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PublishedAt == nil {
		t.Fatal("published article must carry a publish timestamp")
	}
}

func TestCreateArchivedRejected(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	// archived is only reachable through the archive transition
	_, err := svc.Create(context.Background(), "author-1", &models.Article{
		Title:  "Born Dead",
		Status: models.StatusArchived,
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError for archived create, got %v", err)
	}
	if f := err.(*apperr.ValidationError).Field; f != "status" {
		t.Errorf("field = %q, want status", f)
	}
}

func TestCreateSlugConflict(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	if _, err := svc.Create(context.Background(), "a1", &models.Article{Title: "Same Title"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), "a2", &models.Article{Title: "Same Title"})
	if !apperr.IsConflict(err) {
		t.Fatalf("expected ConflictError on slug collision, got %v", err)
	}
}

func TestCreateEmptySlug(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	_, err := svc.Create(context.Background(), "a1", &models.Article{Title: "!!!"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected ValidationError for unsluggable title, got %v", err)
	}
}

func TestGetOwnership(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, err := svc.Create(context.Background(), "owner", &models.Article{Title: "Private Draft"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), "owner", created.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}

	// another user sees not-found, never forbidden
	_, err = svc.Get(context.Background(), "stranger", created.ID)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFoundError for non-owner, got %v", err)
	}
}

func TestGetBySlugOwnership(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, err := svc.Create(context.Background(), "owner", &models.Article{
		Title: "Preview Me", Status: models.StatusPublished, Category: "news",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// the owner read never counts a view
	got, err := svc.GetBySlug(context.Background(), "owner", created.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got article %q, want %q", got.ID, created.ID)
	}
	if got.Views != 0 {
		t.Errorf("views after owner read = %d, want 0", got.Views)
	}

	_, err = svc.GetBySlug(context.Background(), "stranger", created.Slug)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFoundError for non-owner, got %v", err)
	}
	_, err = svc.GetBySlug(context.Background(), "owner", "no-such-slug")
	if !apperr.IsNotFound(err) {
		t.Errorf("expected NotFoundError for missing slug, got %v", err)
	}
}

func TestGetPublicCountsView(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, err := svc.Create(context.Background(), "owner", &models.Article{
		Title: "Viewed", Status: models.StatusPublished, Category: "news",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svc.GetPublic(context.Background(), created.Slug)
	if err != nil {
		t.Fatalf("GetPublic: %v", err)
	}
	if first.Views != 1 {
		t.Errorf("views after first read = %d, want 1", first.Views)
	}
	second, _ := svc.GetPublic(context.Background(), created.Slug)
	if second.Views != 2 {
		t.Errorf("views after second read = %d, want 2", second.Views)
	}
}

func TestGetPublicDraftHidden(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{Title: "Hidden Draft"})
	_, err := svc.GetPublic(context.Background(), created.Slug)
	if !apperr.IsNotFound(err) {
		t.Errorf("draft visible publicly: %v", err)
	}
}

func TestUpdateRecomputesDerived(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, err := svc.Create(context.Background(), "owner", &models.Article{
		Title:   "Original Title",
		Content: []models.ContentBlock{textBlock("short body")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTitle := "Renamed Title"
	newBody := strings.Repeat("lorem ", 400)
	updated, err := svc.Update(context.Background(), "owner", created.ID, &models.ArticleUpdate{
		Title:   &newTitle,
		Content: []models.ContentBlock{textBlock(newBody)},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Slug != "renamed-title" {
		t.Errorf("slug = %q, want renamed-title", updated.Slug)
	}
	if updated.ReadTime != 2 {
		t.Errorf("read time = %d, want 2 (400 words)", updated.ReadTime)
	}
	if !strings.HasSuffix(updated.Excerpt, "...") {
		t.Errorf("long body excerpt must be truncated, got %q", updated.Excerpt)
	}
}

func TestUpdateWithoutContentKeepsDerived(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{
		Title:   "Stable",
		Content: []models.ContentBlock{textBlock("the body")},
	})

	featured := true
	updated, err := svc.Update(context.Background(), "owner", created.ID, &models.ArticleUpdate{Featured: &featured})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Excerpt != created.Excerpt || updated.ReadTime != created.ReadTime {
		t.Error("metadata-only update must not touch derived fields")
	}
	if !updated.Featured {
		t.Error("featured flag not applied")
	}
}

func TestUpdatePreservesCounters(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{
		Title: "Busy", Status: models.StatusPublished, Category: "news",
	})
	// accumulate engagement between read and write
	if _, _, err := repo.ToggleLike(context.Background(), created.ID, "fan"); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	title := "Busy Renamed"
	if _, err := svc.Update(context.Background(), "owner", created.ID, &models.ArticleUpdate{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Likes != 1 || len(stored.LikedBy) != 1 {
		t.Errorf("counters lost by update: likes=%d likedBy=%v", stored.Likes, stored.LikedBy)
	}
}

func TestDelete(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{Title: "Doomed"})

	if err := svc.Delete(context.Background(), "stranger", created.ID); !apperr.IsNotFound(err) {
		t.Errorf("non-owner delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "owner", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "owner", created.ID); !apperr.IsNotFound(err) {
		t.Errorf("double delete: %v", err)
	}
}

func TestPublishLifecycle(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{Title: "Lifecycle"})

	// publish without category is rejected and the stored status is unchanged
	_, err := svc.Publish(context.Background(), "owner", created.ID)
	if !apperr.IsState(err) {
		t.Fatalf("expected StateError, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Status != models.StatusDraft {
		t.Fatalf("failed publish changed status to %q", stored.Status)
	}

	category := "technology"
	if _, err := svc.Update(context.Background(), "owner", created.ID, &models.ArticleUpdate{Category: &category}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	published, err := svc.Publish(context.Background(), "owner", created.ID)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.Status != models.StatusPublished || published.PublishedAt == nil {
		t.Fatal("publish did not set status and timestamp")
	}
	firstPublishedAt := *published.PublishedAt

	// re-publish is idempotent and preserves the original timestamp
	again, err := svc.Publish(context.Background(), "owner", created.ID)
	if err != nil {
		t.Fatalf("re-publish: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstPublishedAt) {
		t.Error("re-publish altered the publish timestamp")
	}
}

func TestUnpublishClearsTimestamp(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{
		Title: "Retracted", Status: models.StatusPublished, Category: "news",
	})

	draft, err := svc.Unpublish(context.Background(), "owner", created.ID)
	if err != nil {
		t.Fatalf("Unpublish: %v", err)
	}
	if draft.Status != models.StatusDraft || draft.PublishedAt != nil {
		t.Errorf("unpublish left status=%q publishedAt=%v", draft.Status, draft.PublishedAt)
	}
}

func TestArchiveIsTerminal(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{
		Title: "Finished", Status: models.StatusPublished, Category: "news",
	})

	archived, err := svc.Archive(context.Background(), "owner", created.ID)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if archived.Status != models.StatusArchived {
		t.Fatalf("status = %q", archived.Status)
	}

	if _, err := svc.Publish(context.Background(), "owner", created.ID); !apperr.IsState(err) {
		t.Errorf("publish after archive: %v", err)
	}
	if _, err := svc.Unpublish(context.Background(), "owner", created.ID); !apperr.IsState(err) {
		t.Errorf("unpublish after archive: %v", err)
	}
}

func TestRederiveArticle(t *testing.T) {
	repo := mocks.NewMockArticleRepository()
	svc := newTestArticleService(repo)

	created, _ := svc.Create(context.Background(), "owner", &models.Article{
		Title:   "Drifted",
		Content: []models.ContentBlock{textBlock("the real body")},
	})

	// stored derived pair is in step, so nothing is rewritten
	changed, err := svc.RederiveArticle(context.Background(), created)
	if err != nil {
		t.Fatalf("RederiveArticle: %v", err)
	}
	if changed {
		t.Error("in-step article reported as changed")
	}

	created.Excerpt = "stale excerpt"
	changed, err = svc.RederiveArticle(context.Background(), created)
	if err != nil {
		t.Fatalf("RederiveArticle: %v", err)
	}
	if !changed {
		t.Fatal("drifted article not rewritten")
	}
	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Excerpt != "the real body..." {
		t.Errorf("excerpt = %q after rederive", stored.Excerpt)
	}
}
