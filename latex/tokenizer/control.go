// control.go -
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
)

var shortOpen = map[byte]*frame{
	'(': {open: "\\(", name: "math", close: "\\)"},
	'[': {open: "\\[", name: "displaymath", close: "\\]"},
}

// readControl reads a construct introduced by a backslash.  The caller
// has checked that the backslash is followed by a character which
// does not denote an escaped literal.
func (p *Tokenizer) readControl() (*Token, error) {
	buf := p.scan.Lookahead(maxLookahead)
	c := buf[1]

	if !isLetter(c) {
		switch c {
		case '(', '[':
			f := *shortOpen[c]
			f.pos = p.scan.Pos()
			p.push(&f)
			tok := p.take(BlockBegin, f.name, 2)
			tok.Short = true
			return tok, nil
		case ')', ']':
			top := p.top()
			delim := string(buf[:2])
			if top == nil || top.close != delim {
				if top == nil {
					return nil, p.scan.MakeError("unexpected " + delim)
				}
				return nil, p.mismatch(top, delim)
			}
			p.pop()
			tok := p.take(BlockEnd, top.name, 2)
			tok.Short = true
			return tok, nil
		}
		p.adjacent = true
		return p.take(MarkerStart, string(c), 2), nil
	}

	n := 1
	for n < len(buf) && isLetter(buf[n]) {
		n++
	}
	if n < len(buf) && buf[n] == '*' {
		n++
	}
	if n == len(buf) && n >= maxLookahead {
		return nil, p.scan.MakeError("construct name too long")
	}
	name := string(buf[1:n])

	switch name {
	case "begin":
		return p.readBegin(buf, n)
	case "end":
		return p.readEnd(buf, n)
	case "verb", "verb*":
		return p.readVerb(buf, name, n)
	}
	p.adjacent = true
	return p.take(MarkerStart, name, n), nil
}

// envName reads the environment name following \begin or \end.  The
// argument `n` is the length of the control word in buf.  The function
// returns the name and the total length of the delimiter.
func (p *Tokenizer) envName(buf []byte, n int) (string, int, error) {
	word := string(buf[:n])
	for n < len(buf) && (buf[n] == ' ' || buf[n] == '\t') {
		n++
	}
	if n >= len(buf) || buf[n] != '{' {
		return "", 0, p.scan.MakeError("missing environment name after " + word)
	}
	end := bytes.IndexByte(buf[n:], '}')
	if end < 0 {
		return "", 0, p.scan.MakeError("unterminated environment name after " + word)
	}
	name := buf[n+1 : n+end]
	if len(name) == 0 || bytes.ContainsAny(name, "\\{%\n") {
		return "", 0, p.scan.MakeError("invalid environment name after " + word)
	}
	return string(name), n + end + 1, nil
}

func (p *Tokenizer) readBegin(buf []byte, n int) (*Token, error) {
	name, n, err := p.envName(buf, n)
	if err != nil {
		return nil, err
	}
	f := &frame{
		open:  "env",
		name:  name,
		close: "\\end{" + name + "}",
		pos:   p.scan.Pos(),
	}
	p.push(f)
	tok := p.take(BlockBegin, name, n)

	if p.verbatim[name] {
		err = p.readVerbatim(f)
		if err != nil {
			return nil, err
		}
	} else {
		p.adjacent = true
	}
	return tok, nil
}

func (p *Tokenizer) readEnd(buf []byte, n int) (*Token, error) {
	name, n, err := p.envName(buf, n)
	if err != nil {
		return nil, err
	}
	top := p.top()
	if top == nil {
		return nil, p.scan.MakeError("unexpected \\end{" + name + "}")
	}
	if top.open != "env" || top.name != name {
		return nil, p.mismatch(top, "\\end{"+name+"}")
	}
	p.pop()
	return p.take(BlockEnd, name, n), nil
}

// readVerb reads \verb|...|.  The body is returned as a group
// delimited by the separator character.
func (p *Tokenizer) readVerb(buf []byte, name string, n int) (*Token, error) {
	if n >= len(buf) || isLetter(buf[n]) || isSpace(buf[n]) {
		return nil, p.scan.MakeError("missing delimiter after \\" + name)
	}
	sep := buf[n]
	end := bytes.IndexByte(buf[n+1:], sep)
	nl := bytes.IndexByte(buf[n+1:], '\n')
	if end < 0 || nl >= 0 && nl < end {
		return nil, p.scan.MakeError("unterminated \\" + name)
	}

	tok := p.take(MarkerStart, name, n)
	open := p.take(GroupOpen, string(sep), 1)
	open.Adjacent = true
	p.pending = append(p.pending, open)
	if end > 0 {
		p.pending = append(p.pending, p.take(TextRun, "", end))
	}
	p.pending = append(p.pending, p.take(GroupClose, string(sep), 1))
	return tok, nil
}
