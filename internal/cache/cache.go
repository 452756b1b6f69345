package cache

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Responses holds encoded API responses.
	Responses = "responses"
	// Objects holds files fetched from object storage.
	Objects = "miniocache"

	prefix = "hds_"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Cache struct {
	Location string
	Log      *zap.Logger
}

func New(location string, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{Location: location, Log: log}
}

// Key hashes the parts of a request into a cache file name.
func Key(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return prefix + strconv.FormatUint(d.Sum64(), 16)
}

// Setup creates the cache directories.
func (c *Cache) Setup() error {
	for _, sub := range []string{Responses, Objects} {
		if err := os.MkdirAll(c.Dir(sub), 0o755); err != nil {
			return errors.Wrapf(err, "create cache directory %s", c.Dir(sub))
		}
	}
	return nil
}

func (c *Cache) Dir(subDir string) string {
	return filepath.Join(c.Location, subDir)
}

func (c *Cache) path(name, subDir string) string {
	return filepath.Join(c.Location, subDir, name)
}

// Get reads a cached item.
func (c *Cache) Get(name, subDir string) ([]byte, error) {
	return os.ReadFile(c.path(name, subDir))
}

// Open returns a cached item as a file.
func (c *Cache) Open(name, subDir string) (*os.File, error) {
	return os.Open(c.path(name, subDir))
}

// Put stores data under name. The item is written to a temporary file and
// renamed so readers never see a partial item.
func (c *Cache) Put(name, subDir string, data []byte) error {
	dir := c.Dir(subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create cache directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".tmp_"+name)
	if err != nil {
		return errors.Wrap(err, "create cache file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write cache file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close cache file")
	}
	if err := os.Rename(tmp.Name(), c.path(name, subDir)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "commit cache file")
	}
	return nil
}

// Marshal encodes a response for the cache.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Purge removes the oldest cache items in dir until the total size is at
// most maxBytes. Only files carrying the cache prefix are removed.
func Purge(dir string, maxBytes int64, log *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "read cache directory %s", dir)
	}
	type item struct {
		name string
		size int64
		mod  time.Time
	}
	var (
		items []item
		total int64
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{e.Name(), info.Size(), info.ModTime()})
		total += info.Size()
	}
	sort.Slice(items, func(i, j int) bool { return items[i].mod.Before(items[j].mod) })

	for _, it := range items {
		if total <= maxBytes {
			break
		}
		if err := os.Remove(filepath.Join(dir, it.name)); err != nil {
			log.Warn("remove cache item", zap.String("name", it.name), zap.Error(err))
			continue
		}
		total -= it.size
		log.Info("cache over maximum, removed oldest item",
			zap.String("name", it.name),
			zap.Int64("size", it.size),
			zap.Int64("total", total),
		)
	}
	return nil
}

// CheckCache purges dir every interval until ctx is done.
func CheckCache(ctx context.Context, log *zap.Logger, dir string, interval time.Duration, maxBytes int64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := Purge(dir, maxBytes, log); err != nil {
			log.Error("cache check", zap.String("dir", dir), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
