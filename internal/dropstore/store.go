// Package dropstore implements the expiring, collision-aware,
// prefix-indexed content store: the hard engineering behind the drop
// clipboard service. Everything HTTP-shaped (content negotiation, form
// decoding, route mounting) lives one layer up, in internal/httpapi; this
// package only exposes Store / Get / Remove / IsEmpty.
package dropstore

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/dropsrv/drop/cache"
	"github.com/dropsrv/drop/internal/metrics"
	"github.com/dropsrv/drop/log"
)

// MinPrefixLen is the shortest prefix length the table will ever report as
// uniquely addressing a hash, even when a single-character prefix would
// already be unambiguous.
const MinPrefixLen = 4

// StorageKind tags where a blob's bytes live.
type StorageKind int

const (
	// Memory blobs live in the entry table.
	Memory StorageKind = iota
	// Persistent blobs live in a file under the storage directory, named
	// by their full hash; the entry table holds only the marker.
	Persistent
)

var storeLogger = log.WithContext("pkg", "dropstore")

// kindLabel is the metrics label for an entry's storage kind.
func kindLabel(memory bool) string {
	if memory {
		return "memory"
	}
	return "persistent"
}

// Store is the only surface the HTTP adapter uses: store/get/remove over
// content-addressed, expiring blobs.
type Store struct {
	tb      *table
	persist *persistence

	// prefixCache remembers prefix -> full hash for prefixes that have
	// already resolved unambiguously, to skip the trie walk on repeated
	// GETs of the same handle. It is purged wholesale on every Store and
	// Remove call, since a single store()/remove() can change the
	// ambiguity of any prefix in the table. Expiry does not purge it; Get
	// drops a cached prefix whose hash is no longer stored.
	prefixCache *cache.LRU

	// reads collapses concurrent Get() calls for the same persistent hash
	// into a single file read.
	reads singleflight.Group
}

// NewStore creates a Store rooted at dir, creating the directory if it
// does not already exist. cacheSize bounds the prefix-resolution cache;
// callers with no strong opinion should pass a few hundred.
func NewStore(dir string, cacheSize int) (*Store, error) {
	persist, err := newPersistence(dir)
	if err != nil {
		return nil, err
	}
	return &Store{
		tb:          newTable(),
		persist:     persist,
		prefixCache: cache.NewLRU(cacheSize),
	}, nil
}

// Store inserts blob under hash with the given storage kind and TTL,
// cancelling any previous entry for the same hash, and returns the
// minimum prefix length that uniquely addresses hash immediately after
// this call.
func (s *Store) Store(hash string, blob []byte, kind StorageKind, ttl time.Duration) (minPrefixLen int, err error) {
	var newAbort chan struct{}

	prev, minPrefixLen, err := s.tb.storeCritical(
		hash,
		func(minPrefixLen int) (*entryValue, error) {
			if kind == Persistent {
				if err := s.persist.write(hash, blob); err != nil {
					return nil, errors.Wrapf(ErrStorageIO, "write %q: %v", hash, err)
				}
			}
			newAbort = make(chan struct{})
			v := &entryValue{hash: hash, memory: kind == Memory, abort: newAbort}
			if kind == Memory {
				v.blob = append([]byte(nil), blob...)
			}
			return v, nil
		},
		func(prev *entryValue) error {
			if !prev.memory {
				if err := s.persist.remove(hash); err != nil {
					return errors.Wrapf(ErrStorageIO, "remove stale %q: %v", hash, err)
				}
			}
			return nil
		},
	)
	if err != nil {
		return 0, err
	}

	s.prefixCache.Purge()

	if prev != nil {
		// Cancel the superseded task. close() never blocks, so doing
		// this after releasing the table lock (storeCritical already
		// returned) cannot deadlock against a task that is itself
		// trying to acquire the lock.
		close(prev.abort)
		metrics.EntryRemoved(kindLabel(prev.memory), "replaced")
		storeLogger.Debug("superseded previous entry", "hash", hash)
	}

	spawnExpiry(s.tb, s.persist, hash, ttl, newAbort)
	return minPrefixLen, nil
}

// Get resolves prefix to exactly one stored blob. Returns ErrNotFound if
// no entry matches or if more than one does; it does not return
// ErrAmbiguous.
func (s *Store) Get(prefix string) ([]byte, error) {
	if cached, ok := s.prefixCache.Get(prefix); ok {
		hash := cached.(string)
		if v, ok := s.tb.lookup(hash); ok {
			return s.readValue(v)
		}
		s.prefixCache.Remove(prefix)
	}

	v, ok := s.tb.lookup(prefix)
	if !ok {
		return nil, ErrNotFound
	}
	s.prefixCache.Add(prefix, v.hash)
	return s.readValue(v)
}

func (s *Store) readValue(v *entryValue) ([]byte, error) {
	if v.memory {
		return append([]byte(nil), v.blob...), nil
	}

	// Collapse concurrent reads of the same persistent hash into one
	// file read.
	data, err, _ := s.reads.Do(v.hash, func() (any, error) {
		return s.persist.read(v.hash)
	})
	if err != nil {
		// A missing file for a Persistent entry means the table and the
		// filesystem have drifted apart — that should never happen. Don't
		// mutate under a lock we don't hold here; opportunistically
		// drop the dangling trie value so a future operation doesn't
		// keep tripping over it, and report absence to the caller —
		// the expiry task will eventually reclaim whatever is left.
		s.tb.dropIfDangling(v.hash)
		storeLogger.Debug("persistent entry missing its file", "hash", v.hash, "err", err)
		return nil, ErrNotFound
	}
	return data.([]byte), nil
}

// Remove cancels and deletes the entry for hash, if any, including its
// backing file. Reports whether an entry was actually removed.
func (s *Store) Remove(hash string) (bool, error) {
	v := s.tb.remove(hash)
	if v == nil {
		return false, nil
	}
	s.prefixCache.Purge()
	close(v.abort)
	metrics.EntryRemoved(kindLabel(v.memory), "removed")

	if !v.memory {
		if err := s.persist.remove(hash); err != nil {
			return true, errors.Wrapf(ErrStorageIO, "remove %q: %v", hash, err)
		}
	}
	return true, nil
}

// IsEmpty reports whether the store currently holds zero entries.
func (s *Store) IsEmpty() bool {
	return s.tb.isEmpty()
}
