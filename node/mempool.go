package node

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PoolSource yields the candidate pool keyed by transaction identity.
type PoolSource interface {
	LoadPool(ctx context.Context) (map[string][]byte, error)
}

// DirSource reads one transaction per regular file in Dir. The key is the
// file name without its extension; dotfiles and non-regular entries are
// skipped.
type DirSource struct {
	Dir string
}

func (s DirSource) LoadPool(ctx context.Context) (map[string][]byte, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, fmt.Errorf("pool dir required")
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read pool dir: %w", err)
	}
	pool := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		key := strings.TrimSuffix(name, filepath.Ext(name))
		if _, dup := pool[key]; dup {
			return nil, fmt.Errorf("duplicate pool key %q", key)
		}
		raw, err := readFileFromDir(s.Dir, name)
		if err != nil {
			return nil, fmt.Errorf("read pool entry %s: %w", name, err)
		}
		pool[key] = raw
	}
	return pool, nil
}

// MapSource serves a fixed in-memory pool.
type MapSource map[string][]byte

func (s MapSource) LoadPool(context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}
