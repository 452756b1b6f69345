package datasource

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/spectriclabs/heka-data-service/internal/cache"
	"github.com/spectriclabs/heka-data-service/internal/config"
)

var (
	// ErrUnknownLocation is returned for a location name not in the config.
	ErrUnknownLocation = errors.New("unknown location")
	// ErrNotFound is returned when the path does not exist at the location.
	ErrNotFound = errors.New("not found")
	// ErrBadPath is returned for paths that escape the location root.
	ErrBadPath = errors.New("bad path")
)

// Entry is one item of a directory listing.
type Entry struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size,omitempty"`
}

type Source struct {
	Cfg   *config.Config
	Cache *cache.Cache
	Log   *zap.Logger
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func (s *Source) location(name string) (config.Location, error) {
	loc, ok := s.Cfg.Lookup(name)
	if !ok {
		return config.Location{}, errors.Wrapf(ErrUnknownLocation, "%s", name)
	}
	return loc, nil
}

// LocalPath joins filePath onto the root of a localFile location.
func LocalPath(loc config.Location, filePath string) (string, error) {
	for _, part := range strings.Split(filePath, "/") {
		if part == ".." {
			return "", errors.Wrapf(ErrBadPath, "%s", filePath)
		}
	}
	return filepath.Join(loc.Path, filepath.FromSlash(path.Clean("/"+filePath))), nil
}

// Open opens filePath at the named location. Objects in MinIO are fetched
// whole, into the local object cache when caching is enabled.
func (s *Source) Open(ctx context.Context, locationName, filePath string) (io.ReadSeekCloser, error) {
	loc, err := s.location(locationName)
	if err != nil {
		return nil, err
	}

	switch loc.LocationType {
	case config.LocalFile:
		full, err := LocalPath(loc, filePath)
		if err != nil {
			return nil, err
		}
		s.Log.Debug("reading local file",
			zap.String("location_name", locationName),
			zap.String("path", full),
		)
		fh, err := os.Open(full)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrNotFound, "%s", filePath)
			}
			return nil, errors.Wrapf(err, "open %s", full)
		}
		return fh, nil

	case config.Minio:
		return s.openObject(ctx, loc, filePath)
	}
	return nil, errors.Errorf("unsupported location type %s in %s", loc.LocationType, loc.LocationName)
}

func (s *Source) openObject(ctx context.Context, loc config.Location, filePath string) (io.ReadSeekCloser, error) {
	start := time.Now()
	objectPath := strings.TrimPrefix(path.Join(loc.Path, filePath), "/")
	key := cache.Key(loc.MinioBucket, objectPath)

	if s.Cfg.UseCache && s.Cache != nil {
		if fh, err := s.Cache.Open(key, cache.Objects); err == nil {
			s.Log.Debug("object served from cache", zap.String("object", objectPath))
			return fh, nil
		}
	}

	client, err := NewMinioClient(loc)
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, loc.MinioBucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %s", objectPath)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.Wrapf(ErrNotFound, "%s", objectPath)
		}
		return nil, errors.Wrapf(err, "read object %s", objectPath)
	}
	s.Log.Info("fetched object",
		zap.String("bucket", loc.MinioBucket),
		zap.String("object", objectPath),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if s.Cfg.UseCache && s.Cache != nil {
		if err := s.Cache.Put(key, cache.Objects, data); err != nil {
			s.Log.Warn("cache object", zap.String("object", objectPath), zap.Error(err))
		} else if fh, err := s.Cache.Open(key, cache.Objects); err == nil {
			return fh, nil
		}
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

func NewMinioClient(loc config.Location) (*minio.Client, error) {
	client, err := minio.New(loc.Location, &minio.Options{
		Creds:  credentials.NewStaticV4(loc.MinioAccessKey, loc.MinioSecretKey, ""),
		Secure: loc.MinioSecure,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "connect to minio at %s", loc.Location)
	}
	return client, nil
}

// IsDir reports whether filePath is a directory at the location. Object
// storage has no directories; a path is one when objects exist below it.
func (s *Source) IsDir(ctx context.Context, locationName, filePath string) (bool, error) {
	loc, err := s.location(locationName)
	if err != nil {
		return false, err
	}
	switch loc.LocationType {
	case config.LocalFile:
		full, err := LocalPath(loc, filePath)
		if err != nil {
			return false, err
		}
		fi, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				return false, errors.Wrapf(ErrNotFound, "%s", filePath)
			}
			return false, errors.Wrapf(err, "stat %s", full)
		}
		return fi.IsDir(), nil
	case config.Minio:
		if filePath == "" || strings.HasSuffix(filePath, "/") {
			return true, nil
		}
		client, err := NewMinioClient(loc)
		if err != nil {
			return false, err
		}
		objectPath := strings.TrimPrefix(path.Join(loc.Path, filePath), "/")
		if _, err := client.StatObject(ctx, loc.MinioBucket, objectPath, minio.StatObjectOptions{}); err == nil {
			return false, nil
		}
		return true, nil
	}
	return false, errors.Errorf("unsupported location type %s in %s", loc.LocationType, loc.LocationName)
}

// List returns the entries of a directory, sorted by name.
func (s *Source) List(ctx context.Context, locationName, dir string) ([]Entry, error) {
	loc, err := s.location(locationName)
	if err != nil {
		return nil, err
	}
	var out []Entry
	switch loc.LocationType {
	case config.LocalFile:
		full, err := LocalPath(loc, dir)
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(full)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrNotFound, "%s", dir)
			}
			return nil, errors.Wrapf(err, "read directory %s", full)
		}
		for _, e := range entries {
			ent := Entry{Filename: e.Name(), Type: "file"}
			if e.IsDir() {
				ent.Type = "directory"
			} else if info, err := e.Info(); err == nil {
				ent.Size = info.Size()
			}
			out = append(out, ent)
		}

	case config.Minio:
		client, err := NewMinioClient(loc)
		if err != nil {
			return nil, err
		}
		prefix := strings.TrimPrefix(path.Join(loc.Path, dir), "/")
		if prefix != "" && prefix != "." {
			prefix += "/"
		} else {
			prefix = ""
		}
		for obj := range client.ListObjects(ctx, loc.MinioBucket, minio.ListObjectsOptions{Prefix: prefix}) {
			if obj.Err != nil {
				return nil, errors.Wrapf(obj.Err, "list %s/%s", loc.MinioBucket, prefix)
			}
			name := strings.TrimPrefix(obj.Key, prefix)
			if strings.HasSuffix(name, "/") {
				out = append(out, Entry{Filename: strings.TrimSuffix(name, "/"), Type: "directory"})
				continue
			}
			out = append(out, Entry{Filename: name, Type: "file", Size: obj.Size})
		}

	default:
		return nil, errors.Errorf("unsupported location type %s in %s", loc.LocationType, loc.LocationName)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}
