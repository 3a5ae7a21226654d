// scanner_test.go -
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

package scanner

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestScannerSimple(t *testing.T) {
	target := "testing"
	scan := New("test", iotest.OneByteReader(strings.NewReader(target)))

	for len(target) > 0 {
		hasData := scan.Next()
		if !hasData {
			t.Fatal("unexpected end of data")
		}
		buf, err := scan.Peek()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if string(buf) != target {
			t.Fatalf("expected %q, got %q", target, string(buf))
		}
		scan.Skip(1)
		target = target[1:]
	}

	hasData := scan.Next()
	if hasData {
		t.Fatal("unexpected data")
	}
	if !scan.AtEOF() {
		t.Error("AtEOF() false at end of input")
	}
}

func TestScannerPosition(t *testing.T) {
	scan := NewString("pos", "ab\ncä\nd")
	scan.Next()
	scan.Skip(4)
	pos := scan.Pos()
	if pos.Offset != 4 || pos.Line != 2 || pos.Col != 2 {
		t.Errorf("wrong position %+v", pos)
	}
	scan.Next()
	scan.Skip(3)
	pos = scan.Pos()
	if pos.Line != 3 || pos.Col != 1 {
		t.Errorf("wrong position %+v", pos)
	}
}

type failingReader struct {
	data string
}

func (r *failingReader) Read(buf []byte) (int, error) {
	if r.data == "" {
		return 0, errors.New("something bad happened")
	}
	n := copy(buf, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestScannerError(t *testing.T) {
	scan := New("level1", &failingReader{data: "line 1\nline 2\nlin"})

	for scan.Next() {
		buf, err := scan.Peek()
		if err != nil {
			e2, ok := err.(*StructuralError)
			if !ok {
				t.Fatalf("wrong error %q", err)
			}
			if e2.Name != "level1" || e2.Pos.Line != 3 {
				t.Fatalf("wrong error location in %q", err)
			}
			return
		}
		scan.Skip(len(buf))
	}
	t.Fatal("error not reported")
}

func TestMakeErrorContext(t *testing.T) {
	scan := NewString("ctx", "\\end{itemize} and some more text after it\nnext")
	scan.Next()
	err := scan.MakeError("unexpected \\end")
	if err.Context != "\\end{itemize} and..." {
		t.Errorf("wrong context %q", err.Context)
	}
	msg := err.Error()
	if !strings.Contains(msg, "ctx, line 1, column 1") {
		t.Errorf("position missing from %q", msg)
	}
	var target *StructuralError
	if !errors.As(error(err), &target) {
		t.Error("errors.As failed")
	}
}

func TestNewStringAt(t *testing.T) {
	start := Pos{Offset: 10, Line: 3, Col: 5}
	scan := NewStringAt("part", "x\ny", start)
	scan.Next()
	scan.Skip(2)
	pos := scan.Pos()
	if pos.Offset != 12 || pos.Line != 4 || pos.Col != 1 {
		t.Errorf("wrong position %+v", pos)
	}
}
