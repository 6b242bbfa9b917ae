package dropstore

import "sync"

// table owns the trie under one mutual-exclusion lock. It has no notion of
// HTTP, hashing, or time — only the structural operations spec section 4.3
// describes: replace-or-insert, remove, and point/prefix lookups. All
// locking for the store lives here; everything above (Store, the expiry
// scheduler) calls into table and never touches the trie directly.
type table struct {
	mu   sync.Mutex
	trie *trie
}

func newTable() *table {
	return &table{trie: newTrie()}
}

// storeCritical runs the full replace-then-insert sequence for store(),
// under a single lock acquisition so that a concurrent reader never
// observes a hash with its old value removed but its new value not yet
// inserted. Between removing the previous value and inserting the new
// one it calls onRemoved (if prev != nil) and newValue, giving the
// caller a chance to do the file writes that belong in that same
// window; either callback returning an error aborts the whole operation
// and leaves the trie in its post-removal state.
func (t *table) storeCritical(
	hash string,
	newValue func(minPrefixLen int) (*entryValue, error),
	onRemoved func(prev *entryValue) error,
) (prev *entryValue, minPrefixLen int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev = t.removePrevLocked(hash)
	if prev != nil && onRemoved != nil {
		if err := onRemoved(prev); err != nil {
			return prev, 0, err
		}
	}

	minPrefixLen = t.minPrefixLenLocked(hash)

	v, err := newValue(minPrefixLen)
	if err != nil {
		return prev, minPrefixLen, err
	}
	t.trie.insert(hash, v)
	return prev, minPrefixLen, nil
}

// removePrevLocked detaches hash's current value, if any, returning it.
func (t *table) removePrevLocked(hash string) *entryValue {
	n := t.trie.remove(hash)
	if n == nil {
		return nil
	}
	return n.value
}

// minPrefixLenLocked computes the shortest prefix of hash (at least
// MinPrefixLen) that uniquely addresses it against whatever is presently
// in the trie. Must be called with t.mu held, and — to match the store()
// contract — after any previous entry for the same hash has already been
// removed, so a re-post of the same hash is measured against its
// siblings, not itself.
func (t *table) minPrefixLenLocked(hash string) int {
	n := t.trie.getChild(hash[:min(MinPrefixLen, len(hash))])
	if n == nil {
		return MinPrefixLen
	}
	for i := MinPrefixLen; i < len(hash); i++ {
		if n.directChild(hash[i]) == nil {
			return i + 1
		}
		n = n.directChild(hash[i])
	}
	return len(hash)
}

// remove detaches hash's entry (used by the public Remove), returning it.
// Does not touch the filesystem — that is the caller's responsibility.
func (t *table) remove(hash string) *entryValue {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removePrevLocked(hash)
}

// removeIfOwnedBy detaches hash's entry only if its abort channel is
// identically the one the caller holds, returning the removed value, or
// nil if nothing was removed. This
// is the identity check the expiry task uses to guard against deleting an
// entry that replaced the one it was scheduled for.
func (t *table) removeIfOwnedBy(hash string, abort chan struct{}) *entryValue {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.trie.getChild(hash)
	if n == nil || n.value == nil || n.value.abort != abort {
		return nil
	}
	t.trie.remove(hash)
	return n.value
}

// lookup resolves prefix to exactly one value, returning (value, true) or
// (nil, false) if the prefix is absent or ambiguous.
func (t *table) lookup(prefix string) (*entryValue, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.trie.getChild(prefix)
	if n == nil {
		return nil, false
	}
	vals := allValuedDescendants(n)
	if len(vals) != 1 {
		return nil, false
	}
	return vals[0], true
}

// dropIfDangling removes the entry stored under the full hash, if any,
// used to opportunistically clean up a trie entry whose backing file has
// gone missing.
func (t *table) dropIfDangling(hash string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trie.remove(hash)
}

// isEmpty reports whether the trie has zero valued descendants at the
// root.
func (t *table) isEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(allValuedDescendants(t.trie.root)) == 0
}
