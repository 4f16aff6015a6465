package index

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/ownkv/ownkv-go/identity"
)

var bucketEntries = []byte("entries")

// BoltIndex is the durable Index backend on bbolt. Entries live in a
// single bucket keyed by owner[32] || path; the fixed-width owner prefix
// makes per-owner listing a cursor range scan.
type BoltIndex struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Index = (*BoltIndex)(nil)

// OpenBoltIndex opens or creates the bbolt database at dbPath. The parent
// directory is created if it does not exist.
func OpenBoltIndex(dbPath string) (*BoltIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("index: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("index: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("index: create bucket: %w", err)
	}

	return &BoltIndex{db: db}, nil
}

// Close closes the underlying database.
func (b *BoltIndex) Close() error { return b.db.Close() }

// entryKey builds the composite owner || path key.
func entryKey(owner identity.PublicKey, path string) []byte {
	k := make([]byte, identity.PublicKeySize+len(path))
	copy(k, owner[:])
	copy(k[identity.PublicKeySize:], path)
	return k
}

// Put stores value at (owner, path), overwriting any previous value.
func (b *BoltIndex) Put(owner identity.PublicKey, path string, value []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Put(entryKey(owner, path), value)
	})
	if err != nil {
		return fmt.Errorf("index: put: %w", err)
	}
	return nil
}

// Get returns the payload at exactly (owner, path). Presence is checked
// with a cursor seek because bbolt's Get cannot distinguish an absent key
// from a stored zero-length value.
func (b *BoltIndex) Get(owner identity.PublicKey, path string) ([]byte, bool, error) {
	key := entryKey(owner, path)

	var value []byte
	var found bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		k, v := c.Seek(key)
		if k == nil || !bytes.Equal(k, key) {
			return nil
		}
		found = true
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("index: get: %w", err)
	}
	return value, found, nil
}

// Delete removes the entry at (owner, path), reporting whether it existed.
func (b *BoltIndex) Delete(owner identity.PublicKey, path string) (bool, error) {
	key := entryKey(owner, path)

	var removed bool
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketEntries)
		c := bkt.Cursor()
		k, _ := c.Seek(key)
		if k == nil || !bytes.Equal(k, key) {
			return nil
		}
		removed = true
		return bkt.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("index: delete: %w", err)
	}
	return removed, nil
}

// List returns all of owner's paths starting with prefix, in byte-sorted
// order.
func (b *BoltIndex) List(owner identity.PublicKey, prefix string) ([]string, error) {
	seek := entryKey(owner, prefix)

	paths := []string{}
	err := b.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		for k, _ := c.Seek(seek); k != nil && bytes.HasPrefix(k, seek); k, _ = c.Next() {
			paths = append(paths, string(k[identity.PublicKeySize:]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index: list: %w", err)
	}
	return paths, nil
}
