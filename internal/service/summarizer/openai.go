package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const analysisPrompt = `You are given the transcript of a video. Respond with a single JSON object with these keys:
"summary": a concise paragraph summarizing the video,
"chapters": an array of {"title", "start_seconds"} objects,
"highlights": an array of short strings with the most notable moments.`

type OpenAIConfig struct {
	BaseURL         string
	APIKey          string
	TranscribeModel string
	ChatModel       string
}

// openaiClient talks to an OpenAI-compatible API over plain HTTP.
type openaiClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

func newOpenAIClient(cfg OpenAIConfig) *openaiClient {
	return &openaiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *openaiClient) do(ctx context.Context, path, contentType string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(c.cfg.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *openaiClient) transcribeFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to copy audio file: %w", err)
	}
	mw.WriteField("model", c.cfg.TranscribeModel)
	if err := mw.Close(); err != nil {
		return "", err
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, "/audio/transcriptions", mw.FormDataContentType(), &buf, &result); err != nil {
		return "", err
	}

	return result.Text, nil
}

func (c *openaiClient) chatJSON(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model": c.cfg.ChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.do(ctx, "/chat/completions", "application/json", bytes.NewReader(payload), &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("api returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// openaiTranscriber transcribes audio through the transcriptions endpoint,
// splitting files that exceed the upload limit into offset chunks first.
type openaiTranscriber struct {
	client *openaiClient
}

func NewOpenAITranscriber(cfg OpenAIConfig) *openaiTranscriber {
	return &openaiTranscriber{client: newOpenAIClient(cfg)}
}

func (t *openaiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	chunks, err := splitAudioIfNeeded(ctx, audioPath, maxChunkBytes)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		text, err := t.client.transcribeFile(ctx, chunk.path)
		if chunk.path != audioPath {
			os.Remove(chunk.path)
		}
		if err != nil {
			return "", fmt.Errorf("failed to transcribe chunk at %.0fs: %w", chunk.offset, err)
		}

		parts = append(parts, text)
	}

	os.Remove(audioPath)

	return strings.Join(parts, " "), nil
}

// openaiAnalyzer asks a chat model for a JSON summary of the transcript.
type openaiAnalyzer struct {
	client *openaiClient
}

func NewOpenAIAnalyzer(cfg OpenAIConfig) *openaiAnalyzer {
	return &openaiAnalyzer{client: newOpenAIClient(cfg)}
}

func (a *openaiAnalyzer) Analyze(ctx context.Context, transcript string) (Analysis, error) {
	content, err := a.client.chatJSON(ctx, analysisPrompt, transcript)
	if err != nil {
		return Analysis{}, err
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("failed to parse analysis: %w", err)
	}

	return analysis, nil
}
