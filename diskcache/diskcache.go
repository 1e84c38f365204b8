// Package diskcache provides a file-backed cache level: one file per key
// under a root directory. It implements cache.Level[string, []byte] and is
// meant to sit below an in-memory level via cache.Compose.
package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"

	"github.com/saltfishpr/asynccache/cache"
	"github.com/saltfishpr/asynccache/future"
	"github.com/saltfishpr/asynccache/routine"
)

const fileMode = 0o600

// Level is a file-backed cache.Level[string, []byte].
type Level struct {
	dir string
}

// New creates the root directory if needed and returns a Level storing one
// file per key inside it.
func New(dir string) (*Level, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Level{dir: dir}, nil
}

// Get reads the file for key on the future executor. A missing file fails
// the Future with cache.ErrValueNotFound.
func (l *Level) Get(key string) *future.Future[[]byte] {
	return future.Async(func() ([]byte, error) {
		data, err := os.ReadFile(l.path(key))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cache.ErrValueNotFound
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return data, nil
	})
}

// Set writes the value in the background, write-then-rename so readers never
// observe a partial file. Failures are dropped per the fire-and-forget
// contract.
func (l *Level) Set(value []byte, key string) {
	path := l.path(key)
	routine.GoSafe(func() {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, value, fileMode); err != nil {
			return
		}
		_ = os.Rename(tmp, path)
	})
}

// Clear removes every cached file. In-flight Get futures already returned to
// callers are unaffected.
func (l *Level) Clear() {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			_ = os.Remove(filepath.Join(l.dir, e.Name()))
		}
	}
}

// OnMemoryWarning is a no-op: the level holds no in-memory state.
func (l *Level) OnMemoryWarning() {}

// path maps a key to its file. Keys are NFC-normalized before hashing so that
// canonically equivalent Unicode spellings of a key share one entry, and
// hashed so arbitrary keys yield valid file names.
func (l *Level) path(key string) string {
	sum := sha256.Sum256([]byte(norm.NFC.String(key)))
	return filepath.Join(l.dir, hex.EncodeToString(sum[:]))
}
