package job

import "time"

const (
	StatusDownloading  = "DOWNLOADING"
	StatusTranscribing = "TRANSCRIBING"
	StatusAnalyzing    = "ANALYZING"
	StatusCompleted    = "COMPLETED"
	StatusFailed       = "FAILED"
)

// Job is a video summarization job record.
type Job struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	URL        string    `json:"url" gorm:"not null"`
	Status     string    `json:"status" gorm:"size:20;default:DOWNLOADING"`
	Title      string    `json:"title"`
	Duration   int       `json:"duration"`
	Transcript string    `json:"transcript"`
	AudioPath  string    `json:"-"`
	Summary    string    `json:"summary"`
	Chapters   string    `json:"chapters" gorm:"type:json"`
	Highlights string    `json:"highlights" gorm:"type:json"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UpdateResultParams struct {
	ID         string
	Title      string
	Duration   int
	Transcript string
	Summary    string
	Chapters   string
	Highlights string
}
