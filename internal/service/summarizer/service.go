package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streamsmart/server/internal/repository/job"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrQueueIsFull = errors.New("job queue is full")
)

type iJobRepo interface {
	CreateJob(ctx context.Context, url string) (job.Job, error)
	GetJobByID(ctx context.Context, id string) (job.Job, error)
	UpdateJobStatus(ctx context.Context, id string, status string) error
	UpdateJobError(ctx context.Context, id string, msg string) error
	UpdateJobResult(ctx context.Context, params *job.UpdateResultParams) error
}

type DownloadResult struct {
	AudioPath string
	Title     string
	Duration  int
}

type Downloader interface {
	Download(ctx context.Context, url string) (DownloadResult, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type Analysis struct {
	Summary    string          `json:"summary"`
	Chapters   json.RawMessage `json:"chapters"`
	Highlights json.RawMessage `json:"highlights"`
}

type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (Analysis, error)
}

type service struct {
	jobRepo     iJobRepo
	downloader  Downloader
	transcriber Transcriber
	analyzer    Analyzer
	logger      *slog.Logger
	queue       chan string
}

func NewService(jobRepo iJobRepo, downloader Downloader, transcriber Transcriber, analyzer Analyzer, logger *slog.Logger) *service {
	return &service{
		jobRepo:     jobRepo,
		downloader:  downloader,
		transcriber: transcriber,
		analyzer:    analyzer,
		logger:      logger,
		queue:       make(chan string, 64),
	}
}

func (s *service) CreateJob(ctx context.Context, url string) (job.Job, error) {
	j, err := s.jobRepo.CreateJob(ctx, url)
	if err != nil {
		return job.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	select {
	case s.queue <- j.ID:
	default:
		s.jobRepo.UpdateJobError(ctx, j.ID, ErrQueueIsFull.Error())
		return job.Job{}, ErrQueueIsFull
	}

	return j, nil
}

func (s *service) GetJobByID(ctx context.Context, id string) (job.Job, error) {
	j, err := s.jobRepo.GetJobByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return job.Job{}, ErrJobNotFound
		}

		return job.Job{}, fmt.Errorf("failed to get job: %w", err)
	}

	return j, nil
}

// Run consumes the queue until ctx is cancelled. Jobs are processed one at
// a time; a failed job is marked FAILED and never takes the worker down.
func (s *service) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id := <-s.queue:
			if err := s.process(ctx, id); err != nil {
				s.logger.WarnContext(ctx, "job failed", "job_id", id, "error", err)
				if err := s.jobRepo.UpdateJobError(ctx, id, err.Error()); err != nil {
					s.logger.WarnContext(ctx, "failed to mark job failed", "job_id", id, "error", err)
				}
			}
		}
	}
}

func (s *service) process(ctx context.Context, id string) error {
	j, err := s.jobRepo.GetJobByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	s.logger.InfoContext(ctx, "processing job", "job_id", id, "url", j.URL)

	downloaded, err := s.downloader.Download(ctx, j.URL)
	if err != nil {
		return fmt.Errorf("failed to download audio: %w", err)
	}

	if err := s.jobRepo.UpdateJobStatus(ctx, id, job.StatusTranscribing); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	transcript, err := s.transcriber.Transcribe(ctx, downloaded.AudioPath)
	if err != nil {
		return fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if err := s.jobRepo.UpdateJobStatus(ctx, id, job.StatusAnalyzing); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	analysis, err := s.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return fmt.Errorf("failed to analyze transcript: %w", err)
	}

	if err := s.jobRepo.UpdateJobResult(ctx, &job.UpdateResultParams{
		ID:         id,
		Title:      downloaded.Title,
		Duration:   downloaded.Duration,
		Transcript: transcript,
		Summary:    analysis.Summary,
		Chapters:   string(analysis.Chapters),
		Highlights: string(analysis.Highlights),
	}); err != nil {
		return fmt.Errorf("failed to update job result: %w", err)
	}

	s.logger.InfoContext(ctx, "job completed", "job_id", id)

	return nil
}
