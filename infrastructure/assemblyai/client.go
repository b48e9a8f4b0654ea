// Package assemblyai is the transcription collaborator: it uploads local
// audio to the AssemblyAI API, starts a transcript job, and polls until the
// service reports completion or failure.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ytmcp/pkg/logsink"
)

const (
	defaultBaseURL      = "https://api.assemblyai.com"
	defaultPollInterval = 3 * time.Second
	defaultMaxPolls     = 600 // 30 minutes at the default interval
	uploadTimeout       = 10 * time.Minute
)

type Client struct {
	APIKey       string
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration
	MaxPolls     int
	Sink         logsink.Sink
}

func NewClient(apiKey string, sink logsink.Sink) *Client {
	if sink == nil {
		sink = logsink.Nop{}
	}
	return &Client{
		APIKey:       strings.TrimSpace(apiKey),
		BaseURL:      defaultBaseURL,
		HTTPClient:   &http.Client{Timeout: uploadTimeout},
		PollInterval: defaultPollInterval,
		MaxPolls:     defaultMaxPolls,
		Sink:         sink,
	}
}

// Transcript is the completed job. Raw keeps the provider's full JSON
// response so it can be stored verbatim as the transcript artifact.
type Transcript struct {
	ID            string
	Text          string
	AudioDuration float64
	Confidence    float64
	Raw           json.RawMessage
}

type transcriptStatus struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Text          string  `json:"text"`
	AudioDuration float64 `json:"audio_duration"`
	Confidence    float64 `json:"confidence"`
	Error         string  `json:"error"`
}

// Transcribe runs the full upload/create/poll cycle for a local audio file.
// Polling is bounded: it stops on ctx cancellation or after MaxPolls
// attempts rather than blocking forever.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	if c.APIKey == "" {
		return Transcript{}, fmt.Errorf("AssemblyAI API key not provided")
	}

	uploadURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return Transcript{}, err
	}
	c.Sink.Debugf("uploaded %s", audioPath)

	id, err := c.create(ctx, uploadURL)
	if err != nil {
		return Transcript{}, err
	}
	c.Sink.Debugf("transcript job %s created", id)

	return c.poll(ctx, id)
}

// TranscribeWithKey runs Transcribe under a per-call API key. The shared
// client is never mutated, so concurrent calls with different credentials
// are safe.
func (c *Client) TranscribeWithKey(ctx context.Context, apiKey, audioPath string) (Transcript, error) {
	if apiKey == "" {
		return c.Transcribe(ctx, audioPath)
	}
	scoped := *c
	scoped.APIKey = strings.TrimSpace(apiKey)
	return scoped.Transcribe(ctx, audioPath)
}

// ParseTranscript decodes a stored provider response back into a Transcript.
func ParseTranscript(raw []byte) (Transcript, error) {
	var status transcriptStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return Transcript{}, err
	}
	return Transcript{
		ID:            status.ID,
		Text:          status.Text,
		AudioDuration: status.AudioDuration,
		Confidence:    status.Confidence,
		Raw:           raw,
	}, nil
}

func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/upload", f)
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.APIKey)

	var res struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.do(req, &res); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return res.UploadURL, nil
}

func (c *Client) create(ctx context.Context, audioURL string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"audio_url":    audioURL,
		"speech_model": "best",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.APIKey)
	req.Header.Set("content-type", "application/json")

	var res transcriptStatus
	if err := c.do(req, &res); err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	return res.ID, nil
}

func (c *Client) poll(ctx context.Context, id string) (Transcript, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxPolls := c.MaxPolls
	if maxPolls <= 0 {
		maxPolls = defaultMaxPolls
	}

	for attempt := 0; attempt < maxPolls; attempt++ {
		raw, status, err := c.status(ctx, id)
		if err != nil {
			return Transcript{}, err
		}

		switch status.Status {
		case "completed":
			return Transcript{
				ID:            status.ID,
				Text:          status.Text,
				AudioDuration: status.AudioDuration,
				Confidence:    status.Confidence,
				Raw:           raw,
			}, nil
		case "error":
			msg := status.Error
			if msg == "" {
				msg = "unknown error"
			}
			return Transcript{}, fmt.Errorf("transcription failed: %s", msg)
		}

		select {
		case <-ctx.Done():
			return Transcript{}, ctx.Err()
		case <-time.After(interval):
		}
	}
	return Transcript{}, fmt.Errorf("transcription timed out after %d polls", maxPolls)
}

func (c *Client) status(ctx context.Context, id string) (json.RawMessage, transcriptStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v2/transcript/"+id, nil)
	if err != nil {
		return nil, transcriptStatus{}, err
	}
	req.Header.Set("authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, transcriptStatus{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transcriptStatus{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, transcriptStatus{}, fmt.Errorf("status poll failed: %s", strings.TrimSpace(string(raw)))
	}

	var status transcriptStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, transcriptStatus{}, err
	}
	return raw, status, nil
}

func (c *Client) getRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("authorization", c.APIKey)
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}
