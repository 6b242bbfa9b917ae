package dropstore

import (
	"time"

	"github.com/dropsrv/drop/internal/metrics"
	"github.com/dropsrv/drop/log"
)

var expiryLogger = log.WithContext("pkg", "dropstore-expiry")

// spawnExpiry starts one cooperative task for a freshly stored entry. It
// races a sleep of ttl against abort being closed. Tasks never reference
// each other and there is no global reaper — each one is independently
// responsible for at most one hash.
//
// On timeout, it removes the entry identified by hash from tb, but only if
// the entry found there is still the one this task was spawned for (same
// abort channel) — a store() that replaced the hash in the meantime owns
// it now and must not be touched. On abort, it returns without side
// effect: either store() superseded this hash, or an explicit Remove
// cancelled it.
func spawnExpiry(tb *table, persist *persistence, hash string, ttl time.Duration, abort chan struct{}) {
	go func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()

		select {
		case <-abort:
			return
		case <-timer.C:
		}

		removed := tb.removeIfOwnedBy(hash, abort)
		if removed == nil {
			// Lost the identity race: hash was replaced or explicitly
			// removed between the timer firing and the lock being
			// acquired. Nothing to clean up.
			return
		}
		if !removed.memory {
			if err := persist.remove(hash); err != nil {
				expiryLogger.Debug("failed to remove expired blob file", "hash", hash, "err", err)
			}
		}
		metrics.EntryRemoved(kindLabel(removed.memory), "expired")
		expiryLogger.Debug("entry expired", "hash", hash)
	}()
}
