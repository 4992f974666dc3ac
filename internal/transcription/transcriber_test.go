package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWAV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFfakewavdataWAVE"), 0o600))
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "pt", r.FormValue("language"))
		assert.Equal(t, "json", r.FormValue("response_format"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		json.NewEncoder(w).Encode(transcriptionResponse{Text: "Preciso criar um app de lembretes"})
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, "whisper-1")

	text, err := client.Transcribe(context.Background(), writeTestWAV(t))
	require.NoError(t, err)
	assert.Equal(t, "Preciso criar um app de lembretes", text)
}

func TestTranscribeEmptyTextIsFailure(t *testing.T) {
	// HTTP 200 with an empty transcript must not be treated as success.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcriptionResponse{Text: ""})
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, "whisper-1")

	_, err := client.Transcribe(context.Background(), writeTestWAV(t))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestTranscribeWhitespaceTextIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcriptionResponse{Text: "   \n"})
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, "whisper-1")

	_, err := client.Transcribe(context.Background(), writeTestWAV(t))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestTranscribeFallsBackToNextStrategy(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		json.NewEncoder(w).Encode(transcriptionResponse{Text: "segunda tentativa"})
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, "whisper-1")

	text, err := client.Transcribe(context.Background(), writeTestWAV(t))
	require.NoError(t, err)
	assert.Equal(t, "segunda tentativa", text)
	assert.Equal(t, 2, requests)
}

func TestTranscribeAllStrategiesExhausted(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, "whisper-1")

	_, err := client.Transcribe(context.Background(), writeTestWAV(t))
	assert.Error(t, err)
	assert.Equal(t, 3, requests)
}

func TestTranscribeMissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for a missing file")
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, "whisper-1")

	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
