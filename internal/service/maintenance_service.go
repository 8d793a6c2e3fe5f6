package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/blog-cms-api/internal/models"
	"github.com/blog-cms-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maintenanceService is the concrete implementation of MaintenanceService.
// It runs explicitly-invoked maintenance jobs in the background; the only
// job type today is the bulk excerpt/read-time rederive, which pushes every
// article through the normal derived-field computation.
type maintenanceService struct {
	jobRepo  repository.JobRepository
	articles *articleService
	log      zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
	// Semaphore: buffered channel to limit concurrent job processing
	sem chan struct{}
}

// newMaintenanceService creates a new MaintenanceService with a small
// worker pool; the work is I/O-bound database traffic
func newMaintenanceService(jobRepo repository.JobRepository, articles *articleService, log zerolog.Logger) *maintenanceService {
	maxWorkers := runtime.NumCPU()
	if maxWorkers < 2 {
		maxWorkers = 2
	}
	if maxWorkers > 8 {
		maxWorkers = 8
	}

	return &maintenanceService{
		jobRepo:  jobRepo,
		articles: articles,
		log:      log.With().Str("service", "maintenance").Logger(),
		sem:      make(chan struct{}, maxWorkers),
	}
}

// CreateRederiveJob queues a bulk rederive pass. A repeated idempotency key
// returns the existing job instead of queueing a second pass.
func (s *maintenanceService) CreateRederiveJob(ctx context.Context, idempotencyKey string) (*models.Job, error) {
	if idempotencyKey != "" {
		existing, err := s.jobRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	job := &models.Job{
		ID:             uuid.New().String(),
		Type:           models.JobTypeRederive,
		Status:         models.JobStatusPending,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().Str("job_id", job.ID).Msg("Rederive job created")
	return job, nil
}

// GetJob retrieves a maintenance job by id
func (s *maintenanceService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// StartProcessor starts the background job processor
func (s *maintenanceService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Info().Msg("Maintenance processor started")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Maintenance processor stopping")
			return
		case <-ticker.C:
			s.processPendingJobs()
		}
	}
}

// StopProcessor stops the background job processor and waits for in-flight
// jobs
func (s *maintenanceService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Maintenance processor stopped")
}

func (s *maintenanceService) processPendingJobs() {
	jobs, err := s.jobRepo.GetPendingJobs(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get pending jobs")
		return
	}

	for _, job := range jobs {
		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			return
		}

		// Claim atomically so a second processor never runs the same job
		marked, err := s.jobRepo.MarkJobAsProcessing(s.ctx, job.ID)
		if err != nil || !marked {
			<-s.sem
			continue
		}

		s.wg.Add(1)
		go func(job *models.Job) {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.runRederive(s.ctx, job)
		}(job)
	}
}

// runRederive streams every article through the normal update path. The
// pass is idempotent: unchanged derived pairs are skipped, so re-running a
// completed job rewrites nothing.
func (s *maintenanceService) runRederive(ctx context.Context, job *models.Job) {
	startTime := time.Now()
	now := startTime
	job.Status = models.JobStatusProcessing
	job.StartedAt = &now

	s.log.Info().Str("job_id", job.ID).Msg("Starting rederive pass")

	err := s.articles.articles.StreamAll(ctx, func(article *models.Article) error {
		job.TotalRecords++
		changed, err := s.articles.RederiveArticle(ctx, article)
		job.ProcessedCount++
		if err != nil {
			job.FailedCount++
			s.log.Error().Err(err).Str("article_id", article.ID).Msg("Rederive failed for article")
			return nil // keep going; per-record failures are counted
		}
		if changed {
			job.SuccessfulCount++
		}
		return nil
	})

	job.DurationMs = time.Since(startTime).Milliseconds()
	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = models.JobStatusFailed
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Rederive pass failed")
	} else {
		job.Status = models.JobStatusCompleted
		s.log.Info().
			Str("job_id", job.ID).
			Int("total", job.TotalRecords).
			Int("rewritten", job.SuccessfulCount).
			Int("failed", job.FailedCount).
			Int64("duration_ms", job.DurationMs).
			Msg("Rederive pass completed")
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to persist job result")
	}
}
