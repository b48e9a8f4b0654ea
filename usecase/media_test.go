package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ytmcp/infrastructure/ytdlp"
	"ytmcp/pkg/cachekey"
	pkgError "ytmcp/pkg/error"
	"ytmcp/pkg/inflight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	downloads atomic.Int32
	fail      bool
	info      ytdlp.Info
}

func (f *fakeExtractor) Download(_ context.Context, _ string, kind cachekey.Kind, _, outputPath string) (ytdlp.Info, error) {
	f.downloads.Add(1)
	if f.fail {
		return ytdlp.Info{}, os.ErrNotExist
	}
	final := strings.Replace(outputPath, ".%(ext)s", kind.Ext(), 1)
	if err := os.WriteFile(final, []byte("media-content"), 0o644); err != nil {
		return ytdlp.Info{}, err
	}
	return f.info, nil
}

func (f *fakeExtractor) Probe(_ context.Context, _ string) (ytdlp.Info, error) {
	if f.fail {
		return ytdlp.Info{}, os.ErrNotExist
	}
	return f.info, nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(filePath string, _ time.Duration) (string, error) {
	return "tok-" + filepath.Base(filePath), nil
}

func newTestMedia(t *testing.T, extractor *fakeExtractor) (*mediaService, *inflight.Registry) {
	t.Helper()
	cache := newTestCache(t, 7*24*time.Hour)
	registry := inflight.NewRegistry()
	svc := NewMediaService(cache, extractor, fakeTokens{}, registry, "http://localhost:8080")
	return svc.(*mediaService), registry
}

func TestResolveDownloadsAndCaches(t *testing.T) {
	extractor := &fakeExtractor{info: ytdlp.Info{Title: "A Talk", Duration: 120}}
	svc, _ := newTestMedia(t, extractor)

	resp, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindAudio, "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.Cached)
	assert.Equal(t, "A Talk", resp.Title)
	assert.Equal(t, int64(len("media-content")), resp.Size)
	assert.True(t, strings.HasPrefix(resp.URL, "http://localhost:8080/files/tok-"))
	assert.NotEmpty(t, resp.ExpiresAt)
	assert.True(t, strings.HasSuffix(resp.FilePath, ".mp3"))

	// Second call is a cache hit and never reaches the extractor again.
	resp2, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindAudio, "")
	require.NoError(t, err)
	assert.True(t, resp2.Cached)
	assert.Equal(t, int32(1), extractor.downloads.Load())
}

func TestResolveQualityIsPartOfFingerprint(t *testing.T) {
	extractor := &fakeExtractor{}
	svc, _ := newTestMedia(t, extractor)

	_, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindVideo, "best")
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindVideo, "720")
	require.NoError(t, err)

	assert.Equal(t, int32(2), extractor.downloads.Load())
}

func TestResolveExtractorFailure(t *testing.T) {
	svc, _ := newTestMedia(t, &fakeExtractor{fail: true})

	resp, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindVideo, "")
	require.Error(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	typed, ok := err.(pkgError.GenericError)
	require.True(t, ok)
	assert.Equal(t, "COLLABORATOR_ERROR", typed.ErrCode())
}

func TestResolveDuplicateInFlight(t *testing.T) {
	svc, registry := newTestMedia(t, &fakeExtractor{})

	key := cachekey.Derive("https://youtu.be/x", cachekey.KindAudio, "192")
	require.True(t, registry.TryAcquire(key))
	defer registry.Release(key)

	_, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindAudio, "192")
	require.Error(t, err)

	typed, ok := err.(pkgError.GenericError)
	require.True(t, ok)
	assert.Equal(t, "DOWNLOAD_IN_PROGRESS", typed.ErrCode())
}

func TestResolveReleasesSlotAfterFailure(t *testing.T) {
	extractor := &fakeExtractor{fail: true}
	svc, registry := newTestMedia(t, extractor)

	_, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindAudio, "")
	require.Error(t, err)
	assert.Equal(t, 0, registry.Len())

	// A retry is allowed once the failed attempt released its slot.
	extractor.fail = false
	resp, err := svc.Resolve(context.Background(), "https://youtu.be/x", cachekey.KindAudio, "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestMetadata(t *testing.T) {
	extractor := &fakeExtractor{info: ytdlp.Info{
		Title:     "A Talk",
		Uploader:  "someone",
		Duration:  300,
		ViewCount: 42,
	}}
	svc, _ := newTestMedia(t, extractor)

	info, err := svc.Metadata(context.Background(), "https://youtu.be/x")
	require.NoError(t, err)
	assert.Equal(t, "A Talk", info.Title)
	assert.Equal(t, "someone", info.Uploader)
	assert.Equal(t, int64(42), info.ViewCount)
}

func TestMetadataFailure(t *testing.T) {
	svc, _ := newTestMedia(t, &fakeExtractor{fail: true})

	_, err := svc.Metadata(context.Background(), "https://youtu.be/x")
	require.Error(t, err)
}
