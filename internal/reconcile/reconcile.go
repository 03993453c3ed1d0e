package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/totoromaum/h5p-cornell/internal/notes"
)

// cacheLabel prefixes every cache key so entries from other content types
// sharing the same store never collide with ours.
const cacheLabel = "h5p-cornell"

// Cache is the keyed string storage the reconciler persists snapshots to.
// Get returns an error when the key is absent or the store is unusable.
type Cache interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Logger receives the reconciler's warnings. Storage trouble is expected
// and non-fatal, so warnings are the only level it needs.
type Logger interface {
	Warn(event string, fields map[string]any)
}

// ContentID is the host-assigned content identity in wire form. Caching is
// only attempted when it parses as a non-negative base-10 integer.
type ContentID string

// CacheKey derives the stable cache key for the identity. The second
// return is false when the identity is not numeric, which callers treat
// as "no cache available" rather than an error.
func (id ContentID) CacheKey() (string, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(string(id)), 10, 64)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s-%d", cacheLabel, n), true
}

// Valid reports whether the identity can address the cache at all.
func (id ContentID) Valid() bool {
	_, ok := id.CacheKey()
	return ok
}

// Reconciler decides which saved snapshot seeds a widget instance and
// keeps the local cache fresh afterwards. Every public operation degrades
// to a safe default instead of failing; none of them return errors.
type Reconciler struct {
	cache  Cache
	logger Logger
}

func New(cache Cache, logger Logger) *Reconciler {
	return &Reconciler{cache: cache, logger: logger}
}

// ResolveInitialState picks the authoritative starting snapshot: the host
// snapshot verbatim when it holds anything, else the local cache, else an
// empty default. Host and cached state are never merged.
func (r *Reconciler) ResolveInitialState(host *notes.Snapshot, id ContentID) notes.Snapshot {
	if host != nil && !host.IsEmpty() {
		return host.Clone()
	}
	if cached := r.ReadLocalCache(id); cached != nil {
		return cached.Clone()
	}
	return notes.Snapshot{}
}

// ReadLocalCache returns the cached snapshot for id, or nil. It fails
// closed: read errors and unparsable payloads are logged as warnings and
// collapse to nil, and a non-numeric identity skips the lookup silently.
func (r *Reconciler) ReadLocalCache(id ContentID) *notes.Snapshot {
	key, ok := id.CacheKey()
	if !ok || r.cache == nil {
		return nil
	}
	raw, err := r.cache.Get(key)
	if err != nil {
		r.warn("reconcile.cache_read_failed", map[string]any{"key": key, "error": err.Error()})
		return nil
	}
	snap, err := notes.Decode(raw)
	if err != nil {
		r.warn("reconcile.cache_payload_invalid", map[string]any{"key": key, "error": err.Error()})
		return nil
	}
	return &snap
}

// WriteLocalCache stores the snapshot under id. Best effort: failures are
// logged and dropped, never retried, and a non-numeric identity skips the
// write silently. The host may clear its own copy on trivial content
// edits, so this runs on every state query to keep the fallback current.
func (r *Reconciler) WriteLocalCache(id ContentID, snap notes.Snapshot) {
	key, ok := id.CacheKey()
	if !ok || r.cache == nil {
		return
	}
	payload, err := snap.Encode()
	if err != nil {
		r.warn("reconcile.cache_encode_failed", map[string]any{"key": key, "error": err.Error()})
		return
	}
	if err := r.cache.Set(key, payload); err != nil {
		r.warn("reconcile.cache_write_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

func (r *Reconciler) warn(event string, fields map[string]any) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(event, fields)
}
