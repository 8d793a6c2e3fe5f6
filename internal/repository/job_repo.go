package repository

import (
	"context"
	"database/sql"

	"github.com/blog-cms-api/internal/apperr"
	"github.com/blog-cms-api/internal/database"
	"github.com/blog-cms-api/internal/models"
)

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, type, status, idempotency_key, total_records, processed_count,
	successful_count, failed_count, duration_ms, created_at, started_at, completed_at`

// Create inserts a new maintenance job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, type, status, idempotency_key, total_records,
			processed_count, successful_count, failed_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Status, nullString(job.IdempotencyKey),
		job.TotalRecords, job.ProcessedCount, job.SuccessfulCount, job.FailedCount,
		job.CreatedAt,
	)
	return apperr.Unavailable("create job", err)
}

// Update updates job status and counters
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			status = $1, total_records = $2, processed_count = $3, successful_count = $4,
			failed_count = $5, duration_ms = $6, started_at = $7, completed_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, job.TotalRecords, job.ProcessedCount, job.SuccessfulCount,
		job.FailedCount, job.DurationMs, job.StartedAt, job.CompletedAt, job.ID,
	)
	return apperr.Unavailable("update job", err)
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return r.scanJobRow(r.db.QueryRowContext(ctx, query, id))
}

// GetByIdempotencyKey retrieves a job by idempotency key
func (r *jobRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE idempotency_key = $1`
	return r.scanJobRow(r.db.QueryRowContext(ctx, query, key))
}

// GetPendingJobs retrieves pending jobs in creation order
func (r *jobRepo) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = 'pending' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperr.Unavailable("query pending jobs", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, apperr.Unavailable("query pending jobs", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, apperr.Unavailable("query pending jobs", rows.Err())
}

// MarkJobAsProcessing atomically claims a pending job. Returns false when
// another worker already claimed it.
func (r *jobRepo) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = 'processing', started_at = NOW() WHERE id = $1 AND status = 'pending'`,
		jobID,
	)
	if err != nil {
		return false, apperr.Unavailable("claim job", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

func (r *jobRepo) scanJobRow(row rowScanner) (*models.Job, error) {
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Unavailable("get job", err)
	}
	return job, nil
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var idempotencyKey sql.NullString
	var durationMs sql.NullInt64
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.Type, &job.Status, &idempotencyKey,
		&job.TotalRecords, &job.ProcessedCount, &job.SuccessfulCount, &job.FailedCount,
		&durationMs, &job.CreatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.IdempotencyKey = idempotencyKey.String
	job.DurationMs = durationMs.Int64
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
