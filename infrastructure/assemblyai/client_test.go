package assemblyai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake-mp3-bytes"), 0o644))
	return path
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", nil)
	c.BaseURL = srv.URL
	c.PollInterval = time.Millisecond
	return c
}

func TestTranscribe_UploadCreatePollCycle(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("authorization"))
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/upload/1"})
	})
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://cdn.example/upload/1", body["audio_url"])
		assert.Equal(t, "best", body["speech_model"])
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
	})
	mux.HandleFunc("GET /v2/transcript/tr-1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 3 {
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-1", "status": "processing"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "tr-1", "status": "completed", "text": "hello world",
			"audio_duration": 12.5, "confidence": 0.93,
		})
	})

	c := testClient(t, mux)
	tr, err := c.Transcribe(context.Background(), writeTempAudio(t))
	require.NoError(t, err)

	assert.Equal(t, "tr-1", tr.ID)
	assert.Equal(t, "hello world", tr.Text)
	assert.Equal(t, 12.5, tr.AudioDuration)
	assert.Equal(t, 0.93, tr.Confidence)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
	assert.Contains(t, string(tr.Raw), "hello world")
}

func TestTranscribe_JobError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
	})
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-2"})
	})
	mux.HandleFunc("GET /v2/transcript/tr-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "tr-2", "status": "error", "error": "audio too noisy"})
	})

	c := testClient(t, mux)
	_, err := c.Transcribe(context.Background(), writeTempAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio too noisy")
}

func TestTranscribe_MissingKey(t *testing.T) {
	c := NewClient("", nil)
	_, err := c.Transcribe(context.Background(), "irrelevant.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not provided")
}

func TestTranscribe_PollCancelled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
	})
	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "tr-3"})
	})
	mux.HandleFunc("GET /v2/transcript/tr-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "tr-3", "status": "processing"})
	})

	c := testClient(t, mux)
	c.PollInterval = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err := c.Transcribe(ctx, writeTempAudio(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParagraphsAndSentences(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/transcript/tr-4/paragraphs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"paragraphs": []map[string]any{{"text": "intro paragraph", "start": 0, "end": 4000}},
		})
	})
	mux.HandleFunc("GET /v2/transcript/tr-4/sentences", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"sentences": []map[string]any{
				{"text": "first sentence", "start": 0, "end": 1500},
				{"text": "second sentence", "start": 1500, "end": 4000},
			},
		})
	})

	c := testClient(t, mux)

	paragraphs, err := c.Paragraphs(context.Background(), "tr-4")
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)
	assert.Equal(t, "intro paragraph", paragraphs[0].Text)

	sentences, err := c.Sentences(context.Background(), "tr-4")
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, 1500, sentences[1].Start)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:05.250", FormatTimestamp(5250))
	assert.Equal(t, "01:01:01.001", FormatTimestamp(3661001))
}

func TestRenderSRT(t *testing.T) {
	srt := RenderSRT([]Sentence{
		{Text: "first", Start: 0, End: 1500},
		{Text: "second", Start: 1500, End: 3000},
	})
	assert.Contains(t, srt, "1\n00:00,000 --> 00:01,500\nfirst\n")
	assert.Contains(t, srt, "2\n00:01,500 --> 00:03,000\nsecond\n")
}
