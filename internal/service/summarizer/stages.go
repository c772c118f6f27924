package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ytdlpDownloader extracts a video's audio track to mp3 with the yt-dlp
// binary.
type ytdlpDownloader struct {
	outputDir string
}

func NewYtdlpDownloader(outputDir string) *ytdlpDownloader {
	return &ytdlpDownloader{outputDir: outputDir}
}

func (d *ytdlpDownloader) Download(ctx context.Context, url string) (DownloadResult, error) {
	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return DownloadResult{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-playlist",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", filepath.Join(d.outputDir, "%(id)s.%(ext)s"),
		"--print", "after_move:%(id)s\t%(title)s\t%(duration)s",
		"--no-simulate",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		return DownloadResult{}, fmt.Errorf("yt-dlp failed: %w", err)
	}

	fields := strings.SplitN(strings.TrimSpace(string(out)), "\t", 3)
	if len(fields) != 3 {
		return DownloadResult{}, fmt.Errorf("unexpected yt-dlp output: %q", out)
	}

	duration, _ := strconv.Atoi(fields[2])

	return DownloadResult{
		AudioPath: filepath.Join(d.outputDir, fields[0]+".mp3"),
		Title:     fields[1],
		Duration:  duration,
	}, nil
}

const (
	maxChunkBytes = 25 * 1024 * 1024
	// target just under the limit so re-encoding overhead cannot push a
	// chunk over it
	safeChunkBytes = 24 * 1024 * 1024
)

// audioChunk is one transcribable piece of a split audio file with its start
// offset in the original recording.
type audioChunk struct {
	path   string
	offset float64
}

func probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}

	return duration, nil
}

// splitAudioIfNeeded returns the file itself when it fits under the
// transcription upload limit, otherwise cuts it into offset chunks with
// ffmpeg.
func splitAudioIfNeeded(ctx context.Context, path string, limitBytes int64) ([]audioChunk, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}

	if info.Size() <= limitBytes {
		return []audioChunk{{path: path, offset: 0}}, nil
	}

	totalDuration, err := probeDuration(ctx, path)
	if err != nil {
		return nil, err
	}

	chunkSeconds := float64(safeChunkBytes) / float64(info.Size()) * totalDuration
	if chunkSeconds < 1 {
		chunkSeconds = 1
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	chunks := make([]audioChunk, 0, int(totalDuration/chunkSeconds)+1)

	for part, offset := 1, 0.0; offset < totalDuration; part, offset = part+1, offset+chunkSeconds {
		chunkPath := fmt.Sprintf("%s_part%d.mp3", base, part)
		cmd := exec.CommandContext(ctx, "ffmpeg",
			"-y",
			"-i", path,
			"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
			"-t", strconv.FormatFloat(chunkSeconds, 'f', 3, 64),
			"-acodec", "copy",
			chunkPath,
		)
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("ffmpeg failed to cut chunk %d: %w", part, err)
		}

		chunks = append(chunks, audioChunk{path: chunkPath, offset: offset})
	}

	return chunks, nil
}
