// cache_test.go -
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
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]byte, 100)
	rand.Read(data)

	err = c.Put("A", ".png", data)
	if err != nil {
		t.Error(err)
	}

	if !c.Has("A") {
		t.Error("key A not found")
	}
	if c.Has("B") {
		t.Error("non-existent key B found")
	}

	ext, d2, err := c.Get("A")
	if err != nil {
		t.Fatal(err)
	}
	if ext != ".png" || !bytes.Equal(d2, data) {
		t.Error("key A yielded wrong data")
	}
	_, _, err = c.Get("B")
	if !os.IsNotExist(err) {
		t.Error("requesting non-existent key B returned wrong error", err)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("wrong statistics: %d hits, %d misses", hits, misses)
	}

	err = c.Close(-1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cache directory not removed")
	}
}

func TestCacheReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = c.Put("formula", ".svg", []byte("<svg/>"))
	if err != nil {
		t.Fatal(err)
	}
	err = c.Close(1 << 20)
	if err != nil {
		t.Fatal(err)
	}

	c, err = New(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	ext, data, err := c.Get("formula")
	if err != nil {
		t.Fatal(err)
	}
	if ext != ".svg" || string(data) != "<svg/>" {
		t.Errorf("wrong cached data %q %q", ext, data)
	}

	// replacing an entry with a different format removes the old file
	err = c.Put("formula", ".png", []byte("png"))
	if err != nil {
		t.Fatal(err)
	}
	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Errorf("expected one file in cache, found %d", len(files))
	}
	c.Close(0)
}
