package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"
)

var cacheBucket = []byte("Features")

// Cache is a bbolt-backed store of extracted feature vectors so repeated
// runs skip files that have not changed. Keys include file size and
// mtime; a touched file is re-extracted. Cache trouble is never fatal:
// a miss or a failed put just means the file is extracted again.
type Cache struct {
	db *bbolt.DB
}

// OpenCache opens (or creates) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open feature cache: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached feature vector for path, if the file is
// unchanged since it was stored.
func (c *Cache) Get(path string) ([]float64, bool) {
	key, err := cacheKey(path)
	if err != nil {
		return nil, false
	}
	var features []float64
	c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(cacheBucket).Get(key)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &features); err != nil {
			features = nil
		}
		return nil
	})
	if len(features) != NumFeatures {
		return nil, false
	}
	return features, true
}

// Put stores the feature vector for path under its current size/mtime.
func (c *Cache) Put(path string, features []float64) error {
	key, err := cacheKey(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(key, data)
	})
}

func cacheKey(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().UnixNano())), nil
}
