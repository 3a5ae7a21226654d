// tokenizer.go -
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
	"fmt"
	"io"

	"github.com/olitheolix/nobby/latex/scanner"
)

// maxLookahead bounds the look-ahead used to recognise optional
// arguments, construct names and \verb bodies.
const maxLookahead = 1024

// Options control details of the tokenizer.
type Options struct {
	// ArgWhitespace allows spaces, tabs and a single line break
	// between a marker and its argument groups.
	ArgWhitespace bool

	// Verbatim lists the environments whose contents are passed
	// through as a single text run.  If nil, DefaultVerbatim is used.
	Verbatim []string
}

// DefaultVerbatim lists the environments read verbatim by default.
var DefaultVerbatim = []string{
	"verbatim", "verbatim*", "lstlisting", "minted", "comment", "d2",
}

// A Tokenizer splits a LaTeX file into lexical events.
type Tokenizer struct {
	scan     *scanner.Scanner
	argSpace bool
	verbatim map[string]bool

	stack    []*frame
	pending  []*Token
	adjacent bool
	done     bool
}

// frame records an open group, environment or math block.
type frame struct {
	open  string // the opening delimiter, or "env"
	name  string
	close string
	pos   scanner.Pos
}

// New creates and initialises a new Tokenizer.
func New(scan *scanner.Scanner, opt *Options) *Tokenizer {
	if opt == nil {
		opt = &Options{}
	}
	verbatim := opt.Verbatim
	if verbatim == nil {
		verbatim = DefaultVerbatim
	}
	p := &Tokenizer{
		scan:     scan,
		argSpace: opt.ArgWhitespace,
		verbatim: make(map[string]bool),
	}
	for _, name := range verbatim {
		p.verbatim[name] = true
	}
	return p
}

// NewString creates a Tokenizer which reads from a string.
func NewString(name, src string, opt *Options) *Tokenizer {
	return New(scanner.NewString(name, src), opt)
}

// Name returns the name of the input, as used in error messages.
func (p *Tokenizer) Name() string {
	return p.scan.Name()
}

// Next returns the next token.  At the end of input, io.EOF is
// returned.  Structural problems are reported as
// *scanner.StructuralError.
func (p *Tokenizer) Next() (*Token, error) {
	if len(p.pending) > 0 {
		tok := p.pending[0]
		p.pending = p.pending[1:]
		return tok, nil
	}
	if p.done {
		return nil, io.EOF
	}
	if !p.scan.Next() {
		p.done = true
		if k := len(p.stack); k > 0 {
			return nil, p.unterminated(p.stack[k-1])
		}
		return nil, io.EOF
	}
	buf, err := p.scan.Peek()
	if err != nil {
		return nil, err
	}

	adjacent := p.adjacent
	p.adjacent = false
	if adjacent {
		if n := p.argGap(); n >= 0 {
			return p.openGroup(n, true), nil
		}
	}

	switch c := buf[0]; {
	case c == '{':
		return p.openGroup(0, false), nil
	case c == '}' || c == ']' && p.inside("["):
		return p.closeGroup(string(c))
	case c == '%':
		return p.readComment()
	case c == '$':
		return p.mathShift(buf)
	case c == '\\' && len(buf) > 1 && !isEscape(buf[1]):
		return p.readControl()
	default:
		return p.readText()
	}
}

// argGap checks whether an argument group follows at the current
// position.  The return value is the number of bytes of white space
// before the group, or -1 if there is no adjacent group.
func (p *Tokenizer) argGap() int {
	buf := p.scan.Lookahead(maxLookahead)
	n := 0
	if p.argSpace {
		nl := 0
		for n < len(buf) && isSpace(buf[n]) {
			if buf[n] == '\n' {
				nl++
				if nl > 1 {
					return -1
				}
			}
			n++
		}
	}
	if n >= len(buf) {
		return -1
	}
	switch buf[n] {
	case '{':
		return n
	case '[':
		if optionalArgEnd(buf[n:]) > 0 {
			return n
		}
	}
	return -1
}

func (p *Tokenizer) openGroup(gap int, adjacent bool) *Token {
	start := p.scan.Pos()
	buf := p.scan.Lookahead(gap + 1)
	open := string(buf[gap])
	p.push(&frame{open: open, close: CloseDelim(open), pos: start})
	tok := p.take(GroupOpen, open, gap+1)
	tok.Adjacent = adjacent
	return tok
}

func (p *Tokenizer) closeGroup(c string) (*Token, error) {
	top := p.top()
	if top == nil {
		return nil, p.scan.MakeError("unbalanced " + c)
	}
	if top.close != c {
		return nil, p.mismatch(top, c)
	}
	p.pop()
	p.adjacent = true
	return p.take(GroupClose, top.open, 1), nil
}

// mathShift handles the single-marker math delimiters $ and $$.
func (p *Tokenizer) mathShift(buf []byte) (*Token, error) {
	delim := "$"
	if len(buf) > 1 && buf[1] == '$' && !p.inside("$") {
		delim = "$$"
	}

	top := p.top()
	if top != nil && top.open == delim {
		p.pop()
		tok := p.take(BlockEnd, top.name, len(delim))
		tok.Short = true
		return tok, nil
	}
	if top != nil && top.open == "$$" {
		return nil, p.mismatch(top, delim)
	}

	name := "math"
	if delim == "$$" {
		name = "displaymath"
	}
	p.push(&frame{open: delim, name: name, close: delim, pos: p.scan.Pos()})
	tok := p.take(BlockBegin, name, len(delim))
	tok.Short = true
	return tok, nil
}

func (p *Tokenizer) readText() (*Token, error) {
	start := p.scan.Pos()
	inBracket := p.inside("[")
	var raw []byte
	for p.scan.Next() {
		buf, err := p.scan.Peek()
		if err != nil {
			return nil, err
		}

		pos := 0
	scan:
		for pos < len(buf) {
			switch c := buf[pos]; {
			case c == '\\':
				if pos+1 < len(buf) && isEscape(buf[pos+1]) {
					pos += 2
					continue
				}
				if pos+1 == len(buf) && pos == 0 && len(raw) == 0 {
					// a lone backslash at the end of input
					pos++
				}
				break scan
			case c == '{' || c == '}' || c == '%' || c == '$':
				break scan
			case c == ']' && inBracket:
				break scan
			}
			pos++
		}
		raw = append(raw, buf[:pos]...)
		p.scan.Skip(pos)
		if pos < len(buf) {
			break
		}
	}
	return &Token{
		Type: TextRun,
		Raw:  string(raw),
		Span: scanner.Span{Start: start, End: p.scan.Pos()},
	}, nil
}

// take consumes n bytes of input and returns them as a token.
func (p *Tokenizer) take(tp TokenType, name string, n int) *Token {
	start := p.scan.Pos()
	buf := p.scan.Lookahead(n)
	raw := string(buf[:n])
	p.scan.Skip(n)
	return &Token{
		Type: tp,
		Name: name,
		Raw:  raw,
		Span: scanner.Span{Start: start, End: p.scan.Pos()},
	}
}

func (p *Tokenizer) push(f *frame) {
	p.stack = append(p.stack, f)
}

func (p *Tokenizer) pop() {
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *Tokenizer) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *Tokenizer) inside(open string) bool {
	top := p.top()
	return top != nil && top.open == open
}

func (f *frame) describe() string {
	switch f.open {
	case "env":
		return "\\begin{" + f.name + "}"
	case "{", "[":
		return "group " + f.open
	}
	return "math " + f.open
}

func (p *Tokenizer) mismatch(top *frame, found string) error {
	msg := fmt.Sprintf("unexpected %s inside %s opened at line %d, expected %s",
		found, top.describe(), top.pos.Line, top.close)
	return p.scan.MakeError(msg)
}

func (p *Tokenizer) unterminated(top *frame) error {
	msg := fmt.Sprintf("unterminated %s, missing %s", top.describe(), top.close)
	return p.scan.MakeErrorAt(top.pos, msg)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// isEscape reports whether a backslash followed by c denotes a literal
// character rather than a construct.
func isEscape(c byte) bool {
	switch c {
	case '#', '$', '%', '&', '_', '{', '}', '~', '^', ' ', '\n':
		return true
	}
	return false
}

// optionalArgEnd returns the index of the "]" which closes the
// optional argument at the start of buf, or -1 if buf does not start
// with a complete optional argument.
func optionalArgEnd(buf []byte) int {
	depth := 0
	for i := 1; i < len(buf); i++ {
		switch buf[i] {
		case '\\':
			if i+1 < len(buf) {
				switch buf[i+1] {
				case '(', ')', '[', ']':
					return -1
				}
			}
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return -1
			}
			depth--
		case '$', '%':
			if depth == 0 {
				return -1
			}
		case '\n':
			if i+1 < len(buf) && buf[i+1] == '\n' {
				return -1
			}
		case ']':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// groupEnd returns the index of the delimiter which closes the group
// at the start of buf, or -1.  Groups are not tokenized any further,
// so this is used for arguments of verbatim environments.
func groupEnd(buf []byte) int {
	if buf[0] == '[' {
		return optionalArgEnd(buf)
	}
	depth := 0
	for i := 0; i < len(buf); i++ {
		switch buf[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
