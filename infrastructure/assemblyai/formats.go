package assemblyai

import (
	"context"
	"fmt"
	"strings"
)

// Paragraph and Sentence are the structural breakdowns AssemblyAI serves
// per transcript. Start/End are in milliseconds.
type Paragraph struct {
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Speaker string `json:"speaker,omitempty"`
}

type Sentence struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (c *Client) Paragraphs(ctx context.Context, transcriptID string) ([]Paragraph, error) {
	req, err := c.getRequest(ctx, "/v2/transcript/"+transcriptID+"/paragraphs")
	if err != nil {
		return nil, err
	}
	var res struct {
		Paragraphs []Paragraph `json:"paragraphs"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, fmt.Errorf("failed to get paragraphs: %w", err)
	}
	return res.Paragraphs, nil
}

func (c *Client) Sentences(ctx context.Context, transcriptID string) ([]Sentence, error) {
	req, err := c.getRequest(ctx, "/v2/transcript/"+transcriptID+"/sentences")
	if err != nil {
		return nil, err
	}
	var res struct {
		Sentences []Sentence `json:"sentences"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, fmt.Errorf("failed to get sentences: %w", err)
	}
	return res.Sentences, nil
}

// FormatTimestamp renders milliseconds as MM:SS.mmm, with an hour field
// only when needed.
func FormatTimestamp(ms int) string {
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	secs := (ms % 60000) / 1000
	millis := ms % 1000

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, secs, millis)
}

// RenderSRT renders sentences as an SRT subtitle document.
func RenderSRT(sentences []Sentence) string {
	var b strings.Builder
	for i, s := range sentences {
		start := strings.ReplaceAll(FormatTimestamp(s.Start), ".", ",")
		end := strings.ReplaceAll(FormatTimestamp(s.End), ".", ",")
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, start, end, s.Text)
	}
	return b.String()
}
