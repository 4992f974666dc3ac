package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyTranscript signals an HTTP 200 whose text field was empty. An
// empty transcript is a failure, never a degenerate success.
var ErrEmptyTranscript = errors.New("transcription returned empty text")

// Client posts normalized WAV audio to a speech-to-text endpoint. The same
// logical request can be encoded three equivalent ways; the strategies are
// tried in a fixed order and the first non-empty transcript wins.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		language:   "pt",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// uploadStrategy builds the multipart request body for a WAV file. The
// cleanup func is always non-nil and must run after the request completes.
type uploadStrategy struct {
	name  string
	build func(wavPath string) (body io.Reader, contentType string, cleanup func(), err error)
}

// Transcribe sends the WAV file through each upload strategy until one
// produces a non-empty transcript.
func (c *Client) Transcribe(ctx context.Context, wavPath string) (string, error) {
	strategies := []uploadStrategy{
		{"file handle", c.buildFromHandle},
		{"memory buffer", c.buildFromBuffer},
		{"temp copy", c.buildFromTempCopy},
	}

	var lastErr error
	for _, strategy := range strategies {
		text, err := c.attempt(ctx, wavPath, strategy)
		if err == nil {
			return text, nil
		}
		log.Printf("Transcription strategy %q failed: %v", strategy.name, err)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all transcription strategies failed: %w", lastErr)
}

func (c *Client) attempt(ctx context.Context, wavPath string, strategy uploadStrategy) (string, error) {
	body, contentType, cleanup, err := strategy.build(wavPath)
	if err != nil {
		return "", err
	}
	defer cleanup()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse transcription response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// writeFields adds the non-file form fields shared by every strategy.
func (c *Client) writeFields(writer *multipart.Writer) error {
	fields := map[string]string{
		"model":           c.model,
		"language":        c.language,
		"response_format": "json",
		"temperature":     "0",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	return nil
}

// buildFromHandle streams the multipart body straight from the open file.
func (c *Client) buildFromHandle(wavPath string) (io.Reader, string, func(), error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return nil, "", nil, err
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", "audio.wav")
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = c.writeFields(writer)
		}
		if err == nil {
			err = writer.Close()
		}
		pw.CloseWithError(err)
	}()

	cleanup := func() {
		pr.Close()
		file.Close()
	}
	return pr, writer.FormDataContentType(), cleanup, nil
}

// buildFromBuffer reads the whole file into memory first.
func (c *Client) buildFromBuffer(wavPath string) (io.Reader, string, func(), error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, "", nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, "", nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", nil, err
	}
	if err := c.writeFields(writer); err != nil {
		return nil, "", nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, "", nil, err
	}

	return body, writer.FormDataContentType(), func() {}, nil
}

// buildFromTempCopy uploads from a fresh copy of the file, routing around
// environments where re-reading the original handle misbehaves.
func (c *Client) buildFromTempCopy(wavPath string) (io.Reader, string, func(), error) {
	copyPath := filepath.Join(os.TempDir(), "cerebro_upload_"+uuid.New().String()+".wav")

	data, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, "", nil, err
	}
	if err := os.WriteFile(copyPath, data, 0o600); err != nil {
		return nil, "", nil, err
	}

	body, contentType, _, err := c.buildFromBuffer(copyPath)
	cleanup := func() { os.Remove(copyPath) }
	if err != nil {
		cleanup()
		return nil, "", nil, err
	}
	return body, contentType, cleanup, nil
}
