package gormdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streamsmart/server/internal/repository/job"
)

type repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *repo {
	return &repo{db: db}
}

func (r *repo) CreateJob(ctx context.Context, url string) (job.Job, error) {
	j := job.Job{
		ID:     uuid.NewString(),
		URL:    url,
		Status: job.StatusDownloading,
	}
	if err := r.db.WithContext(ctx).Create(&j).Error; err != nil {
		return job.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	return j, nil
}

func (r *repo) GetJobByID(ctx context.Context, id string) (job.Job, error) {
	var j job.Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.Job{}, job.ErrJobNotFound
		}

		return job.Job{}, fmt.Errorf("failed to get job: %w", err)
	}

	return j, nil
}

func (r *repo) UpdateJobStatus(ctx context.Context, id string, status string) error {
	res := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update job status: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return job.ErrJobNotFound
	}

	return nil
}

func (r *repo) UpdateJobError(ctx context.Context, id string, msg string) error {
	res := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": job.StatusFailed,
			"error":  msg,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update job error: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return job.ErrJobNotFound
	}

	return nil
}

func (r *repo) UpdateJobResult(ctx context.Context, params *job.UpdateResultParams) error {
	res := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("id = ?", params.ID).
		Updates(map[string]any{
			"status":     job.StatusCompleted,
			"title":      params.Title,
			"duration":   params.Duration,
			"transcript": params.Transcript,
			"summary":    params.Summary,
			"chapters":   params.Chapters,
			"highlights": params.Highlights,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update job result: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return job.ErrJobNotFound
	}

	return nil
}
