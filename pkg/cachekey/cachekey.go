package cachekey

import (
	"crypto/md5"
	"encoding/hex"
)

// Kind identifies what a cached artifact contains.
type Kind string

const (
	KindVideo      Kind = "video"
	KindAudio      Kind = "audio"
	KindTranscript Kind = "transcript"
)

// Ext returns the file extension used for this kind in the cache directory.
func (k Kind) Ext() string {
	switch k {
	case KindVideo:
		return ".mp4"
	case KindAudio:
		return ".mp3"
	case KindTranscript:
		return ".json"
	default:
		return ""
	}
}

// DefaultQuality returns the canonical quality applied when the caller omits one.
func (k Kind) DefaultQuality() string {
	if k == KindAudio {
		return "192"
	}
	return "best"
}

// Derive fingerprints a (url, kind, quality) work request. An empty quality
// canonicalizes to the kind's default first, so an explicit default and an
// omitted one collide on purpose.
func Derive(url string, kind Kind, quality string) string {
	if quality == "" {
		quality = kind.DefaultQuality()
	}
	sum := md5.Sum([]byte(url + "_" + string(kind) + "_" + quality))
	return hex.EncodeToString(sum[:])
}
