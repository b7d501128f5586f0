package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"apiscan/internal/project"
	"apiscan/internal/source"
)

// Current schema version - increment when the entry format changes
const cacheSchemaVersion uint16 = 3

// CacheFileName is the bbolt database inside the cache directory.
const CacheFileName = "manifests.db"

var bucketManifests = []byte("manifests")

// Cache keeps scan results on disk keyed by file content and scan options.
// Values are msgpack entries compressed with zstd. Safe for concurrent use:
// bbolt serializes writers and the zstd coders are used only through
// EncodeAll/DecodeAll.
type Cache struct {
	db  *bolt.DB
	dir string
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// DefaultCacheDir returns $XDG_CACHE_HOME/app or ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenCache opens (or creates) dir/manifests.db. An empty dir selects
// DefaultCacheDir("apiscan").
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir("apiscan"); err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	db, err := bolt.Open(filepath.Join(dir, CacheFileName), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketManifests)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Close releases the database and the coders.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		_ = c.db.Close()
		return err
	}
	return c.db.Close()
}

// cacheKey: H(content || options fingerprint).
func cacheKey(file *source.File, opts Options) project.Digest {
	fp := project.Fingerprint(
		"schema="+strconv.Itoa(int(cacheSchemaVersion)),
		"max_depth="+strconv.Itoa(opts.maxDepth()),
		"macros="+strconv.FormatBool(opts.Macros),
	)
	return project.Combine(project.Digest(file.Hash), fp)
}

func (c *Cache) get(key project.Digest) (*entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	var raw []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketManifests)
		if b == nil {
			return nil
		}
		// bbolt slices are only valid inside the transaction
		if v := b.Get(key[:]); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, false, err
	}

	data, err := c.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if e.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *Cache) put(key project.Digest, e *entry) error {
	if c == nil || e == nil {
		return nil
	}
	data, err := msgpack.Marshal(e)
	if err != nil {
		return err
	}
	compressed := c.enc.EncodeAll(data, make([]byte, 0, len(data)/2))
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketManifests)
		if err != nil {
			return err
		}
		return b.Put(key[:], compressed)
	})
}

// Len returns the number of stored entries.
func (c *Cache) Len() (int, error) {
	if c == nil {
		return 0, nil
	}
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketManifests); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// DropAll removes every entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketManifests); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketManifests)
		return err
	})
}
