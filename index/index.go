// Package index implements the storage index: a concurrent-safe
// associative store from (owner public key, path) to an opaque byte
// payload, with byte-wise prefix listing.
//
// Two backends share the Index contract: MemIndex keeps entries in
// process memory and BoltIndex persists them in a bbolt database.
package index

import "github.com/ownkv/ownkv-go/identity"

// Index is the storage contract shared by all backends. Absence is never
// an error: Get reports it through ok and Delete through its bool result.
// The error returns exist for durable backends; MemIndex never returns a
// non-nil error.
type Index interface {
	// Put stores value at (owner, path), overwriting any previous value.
	// Last writer wins; callers cannot distinguish insert from overwrite.
	Put(owner identity.PublicKey, path string, value []byte) error

	// Get returns the payload stored at exactly (owner, path).
	Get(owner identity.PublicKey, path string) (value []byte, ok bool, err error)

	// Delete removes the entry at exactly (owner, path) and reports
	// whether an entry was removed. Deleting an absent entry is not an
	// error.
	Delete(owner identity.PublicKey, path string) (bool, error)

	// List returns every path under owner that starts with prefix,
	// byte-wise ("a/" matches "a/b" and "a/bc", never "b/a"). Order is
	// unspecified. No matches yields an empty result, never an error.
	List(owner identity.PublicKey, prefix string) ([]string, error)
}
