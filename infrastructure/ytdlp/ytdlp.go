// Package ytdlp drives the yt-dlp extraction engine as a subprocess. It is
// the media collaborator: given a URL and format parameters it produces a
// local file plus metadata, or fails.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"ytmcp/pkg/cachekey"
	"ytmcp/pkg/logsink"
)

// Info is the subset of yt-dlp's JSON output the server passes through.
type Info struct {
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Duration    float64                    `json:"duration"`
	Uploader    string                     `json:"uploader"`
	UploadDate  string                     `json:"upload_date"`
	ViewCount   int64                      `json:"view_count"`
	LikeCount   int64                      `json:"like_count"`
	Thumbnail   string                     `json:"thumbnail"`
	Formats     []json.RawMessage          `json:"formats"`
	Subtitles   map[string]json.RawMessage `json:"subtitles"`
}

// SubtitleLanguages returns the available subtitle language codes, sorted.
func (i Info) SubtitleLanguages() []string {
	langs := make([]string, 0, len(i.Subtitles))
	for lang := range i.Subtitles {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

type Downloader struct {
	binary string
	sink   logsink.Sink
}

func NewDownloader(binary string, sink logsink.Sink) *Downloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	if sink == nil {
		sink = logsink.Nop{}
	}
	return &Downloader{binary: binary, sink: sink}
}

// videoFormat builds the yt-dlp format selector for an mp4 download.
// quality is "best" or a pixel-height cap like "720".
func videoFormat(quality string) string {
	if quality == "best" {
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	}
	return fmt.Sprintf("bestvideo[height<=%s][ext=mp4]+bestaudio[ext=m4a]/best[height<=%s][ext=mp4]/best", quality, quality)
}

// Download fetches url using outputPath as the yt-dlp output template
// (callers pass `<key>.%(ext)s` so post-processing picks the extension) and
// returns the extractor's metadata.
func (d *Downloader) Download(ctx context.Context, url string, kind cachekey.Kind, quality, outputPath string) (Info, error) {
	args := []string{"--no-warnings", "--no-progress", "--print-json", "-o", outputPath}

	switch kind {
	case cachekey.KindAudio:
		bitrate := quality
		if bitrate == "best" || bitrate == "" {
			bitrate = "192"
		}
		args = append(args, "-f", "bestaudio/best", "--extract-audio", "--audio-format", "mp3", "--audio-quality", bitrate+"K")
	case cachekey.KindVideo:
		if quality == "" {
			quality = "best"
		}
		args = append(args, "-f", videoFormat(quality), "--merge-output-format", "mp4")
	default:
		return Info{}, fmt.Errorf("ytdlp: unsupported artifact kind %q", kind)
	}
	args = append(args, url)

	out, err := d.run(ctx, args)
	if err != nil {
		return Info{}, err
	}
	return parseInfo(out)
}

// Probe fetches metadata only, without downloading.
func (d *Downloader) Probe(ctx context.Context, url string) (Info, error) {
	out, err := d.run(ctx, []string{"--no-warnings", "--no-progress", "--dump-json", "--skip-download", url})
	if err != nil {
		return Info{}, err
	}
	return parseInfo(out)
}

func (d *Downloader) run(ctx context.Context, args []string) ([]byte, error) {
	d.sink.Debugf("running %s %s", d.binary, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		d.sink.Errorf("extraction failed: %s", msg)
		return nil, fmt.Errorf("yt-dlp: %s", firstLine(msg))
	}
	return stdout.Bytes(), nil
}

// parseInfo decodes the last JSON object printed on stdout; with
// --print-json that is the post-processing result.
func parseInfo(out []byte) (Info, error) {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var info Info
		if err := json.Unmarshal(line, &info); err != nil {
			return Info{}, fmt.Errorf("yt-dlp: cannot decode metadata: %w", err)
		}
		return info, nil
	}
	return Info{}, fmt.Errorf("yt-dlp: no metadata in output")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
