package dropstore

import "errors"

// Sentinel error kinds returned by the store's public API. Callers compare
// with errors.Is. Of these, only NotFound, Ambiguous and Empty are ever
// described to an HTTP client; StorageIO, InvalidName and
// InternalInvariant are logged with full detail and surfaced generically.
var (
	// ErrNotFound means a prefix resolved to zero entries.
	ErrNotFound = errors.New("dropstore: not found")

	// ErrAmbiguous names the case of a prefix resolving to more than one
	// entry. Store.Get reports that case as ErrNotFound and does not
	// return ErrAmbiguous; the HTTP adapter treats both identically.
	ErrAmbiguous = errors.New("dropstore: ambiguous prefix")

	// ErrEmpty means the blob was zero bytes at ingest.
	ErrEmpty = errors.New("dropstore: empty blob")

	// ErrStorageIO wraps a filesystem error on write/read/delete. The
	// underlying cause is never embedded in a client-visible body.
	ErrStorageIO = errors.New("dropstore: storage I/O error")

	// ErrInvalidName means a name handed to the persistence layer was not
	// a bare hash (e.g. contained a path separator).
	ErrInvalidName = errors.New("dropstore: invalid name")

	// ErrInternalInvariant marks a violation of the table/trie's internal
	// invariants that should never happen in practice.
	ErrInternalInvariant = errors.New("dropstore: internal invariant violated")
)
