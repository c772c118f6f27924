package gormdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/streamsmart/server/internal/repository/job"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&job.Job{}))

	return NewRepo(db)
}

func TestCreateAndGetJob(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateJob(ctx, "https://example.com/v")
	require.NoError(t, err)
	assert.Len(t, created.ID, 36)
	assert.Equal(t, job.StatusDownloading, created.Status)

	got, err := r.GetJobByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "https://example.com/v", got.URL)
}

func TestGetJobNotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.GetJobByID(context.Background(), "nosuch")
	require.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestUpdateJobStatus(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateJob(ctx, "u")
	require.NoError(t, err)

	require.NoError(t, r.UpdateJobStatus(ctx, created.ID, job.StatusTranscribing))

	got, err := r.GetJobByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusTranscribing, got.Status)

	require.ErrorIs(t, r.UpdateJobStatus(ctx, "nosuch", job.StatusAnalyzing), job.ErrJobNotFound)
}

func TestUpdateJobError(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateJob(ctx, "u")
	require.NoError(t, err)

	require.NoError(t, r.UpdateJobError(ctx, created.ID, "download failed"))

	got, err := r.GetJobByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, got.Status)
	assert.Equal(t, "download failed", got.Error)
}

func TestUpdateJobResult(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateJob(ctx, "u")
	require.NoError(t, err)

	err = r.UpdateJobResult(ctx, &job.UpdateResultParams{
		ID:         created.ID,
		Title:      "My Video",
		Duration:   120,
		Transcript: "hello world",
		Summary:    "a greeting",
		Chapters:   `[{"start":0,"title":"Intro"}]`,
		Highlights: `["hello"]`,
	})
	require.NoError(t, err)

	got, err := r.GetJobByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, got.Status)
	assert.Equal(t, "My Video", got.Title)
	assert.Equal(t, 120, got.Duration)
	assert.Equal(t, "hello world", got.Transcript)
	assert.Equal(t, "a greeting", got.Summary)
	assert.JSONEq(t, `[{"start":0,"title":"Intro"}]`, got.Chapters)
}
