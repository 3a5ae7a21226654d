// verbatim.go -
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

	"github.com/olitheolix/nobby/latex/scanner"
)

// readVerbatim reads the arguments and the body of a verbatim
// environment, after the \begin{...} token has been consumed.  The
// resulting tokens are queued in p.pending.
func (p *Tokenizer) readVerbatim(f *frame) error {
	// Arguments like the language in \begin{minted}{go} or the
	// options in \begin{lstlisting}[language=Go] are kept as groups,
	// but their contents are not tokenized.
	for {
		buf := p.scan.Lookahead(maxLookahead)
		if len(buf) == 0 || buf[0] != '{' && buf[0] != '[' {
			break
		}
		end := groupEnd(buf)
		if end < 0 {
			break
		}
		open := p.take(GroupOpen, string(buf[0]), 1)
		open.Adjacent = true
		p.pending = append(p.pending, open)
		if end > 1 {
			p.pending = append(p.pending, p.take(TextRun, "", end-1))
		}
		p.pending = append(p.pending, p.take(GroupClose, open.Name, 1))
	}

	term := []byte(f.close)
	start := p.scan.Pos()
	var body []byte
	found := false
	for !found {
		buf := p.scan.Lookahead(len(term) + maxLookahead)
		if len(buf) == 0 {
			break
		}
		n := len(buf) - len(term) + 1
		if i := bytes.Index(buf, term); i >= 0 {
			n = i
			found = true
		} else if n <= 0 {
			n = len(buf)
		}
		body = append(body, buf[:n]...)
		p.scan.Skip(n)
	}
	if !found {
		return p.unterminated(f)
	}

	if len(body) > 0 {
		p.pending = append(p.pending, &Token{
			Type: TextRun,
			Raw:  string(body),
			Span: scanner.Span{Start: start, End: p.scan.Pos()},
		})
	}
	p.pop()
	p.pending = append(p.pending, p.take(BlockEnd, f.name, len(term)))
	return nil
}
