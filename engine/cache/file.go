package cache

import (
	"context"
	"encoding/base32"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// File is a local-file-backed capability.Cache. Each key is stored as
// one file under Root; a sibling `.lock` file guards concurrent
// writers from separate processes, since keys may legitimately collide
// across concurrent runs sharing a root (deterministic cache reuse).
type File struct {
	Root string
}

// NewFile constructs a file cache rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{Root: dir}, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := f.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (f *File) Put(_ context.Context, key string, value []byte) error {
	path := f.path(key)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// path maps a cache key to a filesystem-safe filename: keys are ASCII
// per the capability contract but may contain path separators or other
// characters unsafe in a filename (job names are free-form), so they're
// base32-encoded rather than used verbatim.
func (f *File) path(key string) string {
	name := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(key))
	return filepath.Join(f.Root, strings.ToLower(name))
}
