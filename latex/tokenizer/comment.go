// comment.go -
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

package tokenizer

import (
	"bytes"
	"strings"

	"github.com/olitheolix/nobby/latex/scanner"
)

// readComment reads a comment, from the "%" up to and including the
// end of the line.
func (p *Tokenizer) readComment() (*Token, error) {
	start := p.scan.Pos()
	var raw []byte
	for p.scan.Next() {
		buf, err := p.scan.Peek()
		if err != nil {
			return nil, err
		}
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			raw = append(raw, buf[:i+1]...)
			p.scan.Skip(i + 1)
			break
		}
		raw = append(raw, buf...)
		p.scan.Skip(len(buf))
	}
	return &Token{
		Type: CommentRun,
		Raw:  string(raw),
		Span: scanner.Span{Start: start, End: p.scan.Pos()},
	}, nil
}

// CommentText returns the text of a comment, without the leading "%"
// and without trailing white space.
func CommentText(raw string) string {
	return strings.TrimRight(strings.TrimPrefix(raw, "%"), " \t\r\n")
}
