package cacheinfra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	fileExt      = ".cache"
	keySeparator = "::"
	dirPerm      = 0o775
)

// ErrInvalidKey is returned for keys that cannot be mapped to a file name.
var ErrInvalidKey = errors.New("cacheinfra: invalid cache key")

// fileStore keeps one msgpack file per key under <dir>/<namespace>/<key>.cache.
// A file is fresh while its mtime is no older than ttl.
type fileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

func newFileStore(dir string, ttl time.Duration) *fileStore {
	return &fileStore{dir: dir, ttl: ttl, now: time.Now}
}

// get decodes the file for key into dest. It reports false for absent or stale
// files; an error means the file exists but could not be read or decoded.
func (f *fileStore) get(key string, dest any) (bool, error) {
	path, err := f.path(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if f.now().Sub(info.ModTime()) > f.ttl {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := msgpack.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// set writes value for key. The payload goes to a temp file in the same
// directory which is then renamed over the target, so readers never see a
// partially written entry.
func (f *fileStore) set(key string, value any) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (f *fileStore) delete(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// deleteByPrefix removes every file of the prefix's namespace whose key starts
// with the key part of prefix. It returns the number of removed files.
func (f *fileStore) deleteByPrefix(prefix string) (int, error) {
	namespace, keyPrefix := splitKey(prefix)
	if namespace != "" && !validSegment(namespace) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, prefix)
	}

	dir := filepath.Join(f.dir, namespace)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		if !strings.HasPrefix(strings.TrimSuffix(name, fileExt), keyPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// purge removes the whole directory of a namespace.
func (f *fileStore) purge(namespace string) error {
	if !validSegment(namespace) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidKey, namespace)
	}
	return os.RemoveAll(filepath.Join(f.dir, namespace))
}

func (f *fileStore) path(key string) (string, error) {
	namespace, name := splitKey(key)
	if !validSegment(name) || (namespace != "" && !validSegment(namespace)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, namespace, name+fileExt), nil
}

func splitKey(full string) (namespace, key string) {
	ns, k, found := strings.Cut(full, keySeparator)
	if !found {
		return "", full
	}
	return ns, k
}

// validSegment accepts lower case letters, digits, '_' and '-'.
func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
