// cache.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
// Copyright (C) 2026  The nobby authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cache

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

// Cache provides a facility to store rendered fragments on disk for
// later retrieval.  All methods are safe for concurrent use.
type Cache struct {
	cacheDir string
	log      *zap.SugaredLogger
	start    time.Time

	mu      sync.Mutex
	entries map[string]*entry
	hits    int
	misses  int
}

// DefaultDir returns the default cache directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("NOBBY_CACHE"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "nobby"), nil
}

// New creates a new cache, backed by the directory cacheDir.  If
// cacheDir is empty, DefaultDir() is used.  The cache is
// pre-populated with any files found in this directory.
func New(cacheDir string, log *zap.SugaredLogger) (*Cache, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cacheDir == "" {
		var err error
		cacheDir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	c := &Cache{
		cacheDir: cacheDir,
		log:      log,
		start:    time.Now(),
		entries:  make(map[string]*entry),
	}
	err := os.MkdirAll(c.cacheDir, 0755)
	if err != nil {
		return nil, err
	}

	files, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, de := range files {
		name := de.Name()
		ext := filepath.Ext(name)
		if de.IsDir() || (ext != ".svg" && ext != ".png") {
			log.Warnw("unexpected file in cache", "dir", c.cacheDir, "file", name)
			continue
		}
		fi, err := de.Info()
		if err != nil {
			continue
		}
		e := &entry{
			Ext:  ext,
			Size: fi.Size(),
			Time: fi.ModTime(),
		}
		c.entries[strings.TrimSuffix(name, ext)] = e
		total += e.Size
	}
	log.Infow("cache opened", "dir", c.cacheDir,
		"size", humanize.Bytes(uint64(total)), "objects", len(c.entries))

	return c, nil
}

// Close must be called when the cache is no longer needed.  Up to
// 'pruneLimit' bytes of data may be left behind in the cache
// directory; these files will be used to pre-populate future Cache
// instances.
//
// If pruneLimit >= 0, entries used by the current Cache instance
// will always be retained, even if their total size exceeds
// pruneLimit.  If pruneLimit < 0, all cached data is removed.
func (c *Cache) Close(pruneLimit int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var of oldestFirst
	var total int64
	for hash, e := range c.entries {
		of = append(of, pruneEntry{key: hash, entry: e})
		total += e.Size
	}
	sort.Sort(of)

	var err error
	var pruneCount int
	var pruneBytes int64
	for _, pe := range of {
		if total <= pruneLimit {
			break
		}
		if pruneLimit >= 0 && c.start.Before(pe.Time) {
			break
		}
		e2 := os.Remove(c.filePath(pe.key, pe.Ext))
		if err == nil {
			err = e2
		}
		pruneCount++
		pruneBytes += pe.Size
		total -= pe.Size
	}
	if pruneCount > 0 {
		c.log.Infow("cache pruned", "dir", c.cacheDir,
			"removed", humanize.Bytes(uint64(pruneBytes)), "objects", pruneCount)
	}
	c.log.Debugw("cache closed", "hits", c.hits, "misses", c.misses)

	if pruneLimit < 0 {
		_ = os.Remove(c.cacheDir)
	}

	c.entries = nil
	return err
}

// Has returns true, if the cache contains data which has previously
// been stored for the given key.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[hashKey(key)]
	if ok {
		entry.Time = time.Now()
	}
	return ok
}

// Put stores new data in the cache.  The argument `ext` gives the
// file name extension, including the leading dot.  Any preexisting
// data using the same key is overwritten.
func (c *Cache) Put(key, ext string, data []byte) error {
	hash := hashKey(key)

	c.mu.Lock()
	old := c.entries[hash]
	c.mu.Unlock()
	if old != nil && old.Ext != ext {
		_ = os.Remove(c.filePath(hash, old.Ext))
	}

	err := os.WriteFile(c.filePath(hash, ext), data, 0644)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[hash] = &entry{
		Ext:  ext,
		Size: int64(len(data)),
		Time: time.Now(),
	}
	c.mu.Unlock()
	return nil
}

// Get returns data which has previously been stored in the cache for
// the given key, together with its file name extension.  If the key
// is not present, an error satisfying os.IsNotExist is returned.
func (c *Cache) Get(key string) (string, []byte, error) {
	hash := hashKey(key)

	c.mu.Lock()
	e, ok := c.entries[hash]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return "", nil, &os.PathError{Op: "get", Path: key, Err: os.ErrNotExist}
	}
	e.Time = time.Now()
	ext := e.Ext
	c.hits++
	c.mu.Unlock()

	data, err := os.ReadFile(c.filePath(hash, ext))
	if err != nil {
		return "", nil, err
	}
	return ext, data, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) filePath(hash, ext string) string {
	return filepath.Join(c.cacheDir, hash+ext)
}

func hashKey(key string) string {
	h := sha3.NewShake128()
	h.Write([]byte(key))
	buf := make([]byte, 15)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

type entry struct {
	Ext  string
	Size int64
	Time time.Time
}

type pruneEntry struct {
	key string
	*entry
}

type oldestFirst []pruneEntry

func (of oldestFirst) Len() int { return len(of) }
func (of oldestFirst) Less(i, j int) bool {
	return of[i].Time.Before(of[j].Time)
}
func (of oldestFirst) Swap(i, j int) { of[i], of[j] = of[j], of[i] }
