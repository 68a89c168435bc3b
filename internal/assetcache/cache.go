// Package assetcache is a local BoltDB index of downloaded-asset
// fingerprints, recording a content hash and ETag alongside the project
// state's mtime-only conditional check. It is pure bookkeeping: the
// downloader writes records but never reads them, so the on-disk mtime
// path alone governs whether a re-download is attempted.
package assetcache

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

var assetsBucket = []byte("assets")

// AssetRecord fingerprints one downloaded asset, keyed by the path the
// caller chooses (the downloader uses the destination file path).
type AssetRecord struct {
	Path        string `msgpack:"path"`
	Size        int64  `msgpack:"size"`
	ModTime     int64  `msgpack:"mod_time"`
	ContentHash string `msgpack:"content_hash"`
	ETag        string `msgpack:"etag,omitempty"`
}

// Cache wraps a BoltDB database holding one bucket of msgpack-encoded
// AssetRecords.
type Cache struct {
	db *bolt.DB
}

// Open opens (creating if absent) the asset cache at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("assetcache: opening %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(assetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("assetcache: initializing %s: %w", path, err)
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database file.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get looks up the record stored under path.
func (c *Cache) Get(path string) (AssetRecord, bool, error) {
	var rec AssetRecord
	var found bool

	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(assetsBucket).Get([]byte(path))
		if v == nil {
			return nil
		}
		found = true
		return msgpack.Unmarshal(v, &rec)
	})
	if err != nil {
		return AssetRecord{}, false, fmt.Errorf("assetcache: reading %s: %w", path, err)
	}

	return rec, found, nil
}

// Put upserts the record stored under path.
func (c *Cache) Put(path string, rec AssetRecord) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("assetcache: encoding record for %s: %w", path, err)
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(assetsBucket).Put([]byte(path), data)
	})
	if err != nil {
		return fmt.Errorf("assetcache: writing %s: %w", path, err)
	}

	return nil
}
