package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/streamsmart/server/internal/repository/job"
	jobGorm "github.com/streamsmart/server/internal/repository/job/gormdb"
)

type fakeDownloader struct {
	err error
}

func (d fakeDownloader) Download(_ context.Context, url string) (DownloadResult, error) {
	if d.err != nil {
		return DownloadResult{}, d.err
	}
	if strings.Contains(url, "bad") {
		return DownloadResult{}, errors.New("boom")
	}

	return DownloadResult{AudioPath: "/tmp/a.mp3", Title: "My Video", Duration: 90}, nil
}

type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return "hello world", nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(_ context.Context, transcript string) (Analysis, error) {
	return Analysis{
		Summary:    "summary of " + transcript,
		Chapters:   json.RawMessage(`[{"start":0,"title":"Intro"}]`),
		Highlights: json.RawMessage(`["hello"]`),
	}, nil
}

func newTestService(t *testing.T, downloader Downloader) *service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&job.Job{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(jobGorm.NewRepo(db), downloader, fakeTranscriber{}, fakeAnalyzer{}, logger)
}

func waitForStatus(t *testing.T, s *service, id string, status string) job.Job {
	t.Helper()

	var got job.Job
	require.Eventually(t, func() bool {
		j, err := s.GetJobByID(context.Background(), id)
		if err != nil {
			return false
		}
		got = j

		return j.Status == status
	}, 2*time.Second, 10*time.Millisecond)

	return got
}

func TestJobRunsToCompletion(t *testing.T) {
	s := newTestService(t, fakeDownloader{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	created, err := s.CreateJob(ctx, "https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, job.StatusDownloading, created.Status)

	got := waitForStatus(t, s, created.ID, job.StatusCompleted)
	assert.Equal(t, "My Video", got.Title)
	assert.Equal(t, 90, got.Duration)
	assert.Equal(t, "hello world", got.Transcript)
	assert.Equal(t, "summary of hello world", got.Summary)
	assert.JSONEq(t, `[{"start":0,"title":"Intro"}]`, got.Chapters)
	assert.JSONEq(t, `["hello"]`, got.Highlights)
	assert.Empty(t, got.Error)
}

func TestFailedDownloadMarksJobFailed(t *testing.T) {
	s := newTestService(t, fakeDownloader{err: errors.New("video unavailable")})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	created, err := s.CreateJob(ctx, "https://example.com/v")
	require.NoError(t, err)

	got := waitForStatus(t, s, created.ID, job.StatusFailed)
	assert.Contains(t, got.Error, "video unavailable")
}

func TestWorkerSurvivesFailedJob(t *testing.T) {
	s := newTestService(t, fakeDownloader{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	bad, err := s.CreateJob(ctx, "https://example.com/bad")
	require.NoError(t, err)
	waitForStatus(t, s, bad.ID, job.StatusFailed)

	good, err := s.CreateJob(ctx, "https://example.com/good")
	require.NoError(t, err)
	waitForStatus(t, s, good.ID, job.StatusCompleted)
}

func TestGetJobNotFound(t *testing.T) {
	s := newTestService(t, fakeDownloader{})

	_, err := s.GetJobByID(context.Background(), "nosuch")
	require.ErrorIs(t, err, ErrJobNotFound)
}
