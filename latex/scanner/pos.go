// pos.go -
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
	"fmt"
	"unicode/utf8"
)

// Pos describes a position in the input.  Offset counts bytes from
// the start of the input, Line and Col start at 1.  Col counts runes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// Advance returns the position after reading the given bytes.
func (p Pos) Advance(data []byte) Pos {
	p.Offset += len(data)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == '\n' {
			p.Line++
			p.Col = 1
		} else {
			p.Col++
		}
	}
	return p
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span describes the source range [Start, End) of a syntactic unit.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
