// Package inflight tracks which cache keys currently have a download or
// transcription running, so the same work is never started twice.
package inflight

import "sync"

// Registry is a process-wide set of in-flight cache keys.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]struct{})}
}

// TryAcquire atomically claims key. It returns false when another caller
// already holds it; there is no queueing, the caller is expected to retry.
func (r *Registry) TryAcquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.keys[key]; held {
		return false
	}
	r.keys[key] = struct{}{}
	return true
}

// Release frees key. Releasing a key that is not held is a programming
// error and panics: every Release must pair with exactly one successful
// TryAcquire.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, held := r.keys[key]; !held {
		panic("inflight: release of key not held: " + key)
	}
	delete(r.keys, key)
}

// Len reports how many keys are currently in flight.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
