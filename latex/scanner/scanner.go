// scanner.go -
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
	"bytes"
	"io"
	"strings"
)

// PeekWindowSize gives the minimum size of the lookahead buffer.
// Unless the end of input is reached, at least this many bytes
// are visible in the buffer returned by the .Peek() method.
const PeekWindowSize = 128

const peekBufferSize = 1024

// Scanner walks through a single input stream and keeps track of the
// current source position.
type Scanner struct {
	name string
	r    io.Reader
	err  error

	buf   []byte
	pos   Pos
	ready bool
}

// New creates a scanner which reads from r.  The argument `name` is
// used to identify the input in error messages and should be a short,
// human-readable string, typically the file name.
func New(name string, r io.Reader) *Scanner {
	return &Scanner{
		name: name,
		r:    r,
		pos:  Pos{Line: 1, Col: 1},
	}
}

// NewString creates a scanner which reads from an in-memory string.
func NewString(name, data string) *Scanner {
	return New(name, strings.NewReader(data))
}

// NewStringAt is like NewString, but source positions are counted
// from start.  This is used to scan one part of a larger file.
func NewStringAt(name, data string, start Pos) *Scanner {
	scan := NewString(name, data)
	scan.pos = start
	return scan
}

// Name returns the name of the input.
func (scan *Scanner) Name() string {
	return scan.name
}

// Pos returns the current input position.
func (scan *Scanner) Pos() Pos {
	return scan.pos
}

// Next checks whether more input is available.  This method must be
// called before every call to the .Peek() method.
func (scan *Scanner) Next() bool {
	scan.fill(PeekWindowSize)
	scan.ready = true
	return len(scan.buf) > 0 || scan.err != nil
}

// Lookahead returns at least n bytes of look-ahead, or fewer if the
// end of input is reached first.  The current input position is not
// changed.  The returned buffer is only valid until the next call to
// the .Skip() method.
func (scan *Scanner) Lookahead(n int) []byte {
	scan.fill(n)
	return scan.buf
}

func (scan *Scanner) fill(n int) {
	for len(scan.buf) < n && scan.r != nil && scan.err == nil {
		tmp := make([]byte, peekBufferSize)
		k, err := scan.r.Read(tmp)
		scan.buf = append(scan.buf, tmp[:k]...)
		if err == io.EOF {
			scan.r = nil
		} else if err != nil {
			scan.err = err
		}
	}
}

// Peek returns a buffer showing the first input bytes after the
// current input position.  Unless the end of file is reached, this
// buffer is at least PeekWindowSize bytes long.  The current input
// position is not changed by calls to .Peek().
//
// The contents of the returned buffer are only valid until the next
// call to the .Skip() method.  The .Next() method must be called to
// populate the look-ahead buffer before every call to .Peek().
func (scan *Scanner) Peek() ([]byte, error) {
	if !scan.ready {
		panic("scanner not ready, missing call to .Next()")
	}
	if len(scan.buf) > 0 {
		return scan.buf, nil
	}
	return nil, scan.MakeError(scan.err.Error())
}

// AtEOF reports whether the whole input has been consumed.  Unlike
// .Next(), this does not mark the scanner as ready.
func (scan *Scanner) AtEOF() bool {
	return len(scan.buf) == 0 && scan.r == nil && scan.err == nil
}

// Skip advances the current position in the scanner input by n bytes.
func (scan *Scanner) Skip(n int) {
	if n < 0 || n > len(scan.buf) {
		panic("invalid skip amount")
	}
	scan.ready = false
	scan.pos = scan.pos.Advance(scan.buf[:n])
	scan.buf = scan.buf[n:]
}

// MakeError returns an error object which includes the given message
// together with human-readable information about the current input
// position.
func (scan *Scanner) MakeError(message string) *StructuralError {
	return scan.MakeErrorAt(scan.pos, message)
}

// MakeErrorAt is like MakeError, but reports the given position
// instead of the current one.
func (scan *Scanner) MakeErrorAt(pos Pos, message string) *StructuralError {
	var context string
	if pos == scan.pos {
		context = string(scan.buf)
		if i := bytes.IndexByte(scan.buf, '\n'); i >= 0 {
			context = context[:i]
		}
		if len(context) > 20 {
			context = context[:17] + "..."
		}
	}
	return &StructuralError{
		Message: message,
		Name:    scan.name,
		Pos:     pos,
		Context: context,
	}
}
