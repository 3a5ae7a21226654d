// token.go -
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

	"github.com/olitheolix/nobby/latex/scanner"
)

// TokenType is used to enumerate different types of token
type TokenType int

// The different token types used by this package.
const (
	TextRun TokenType = iota
	CommentRun
	MarkerStart
	GroupOpen
	GroupClose
	BlockBegin
	BlockEnd
)

var tokenTypeNames = []string{
	"TextRun", "CommentRun", "MarkerStart", "GroupOpen", "GroupClose",
	"BlockBegin", "BlockEnd",
}

func (tp TokenType) String() string {
	if int(tp) < len(tokenTypeNames) {
		return tokenTypeNames[tp]
	}
	return fmt.Sprintf("TokenType(%d)", int(tp))
}

// Token is a single lexical event in the LaTeX source.
type Token struct {
	// Type describes which kind of token this is.
	Type TokenType

	// For MarkerStart, BlockBegin and BlockEnd this is the construct
	// name without the leading backslash, e.g. "section*" or "itemize".
	// Single-marker math delimiters use the names "math" and
	// "displaymath".  For GroupOpen and GroupClose this is the opening
	// delimiter of the group, usually "{" or "[".
	Name string

	// Raw is the exact source text of the token.  Concatenating the Raw
	// fields of all tokens reproduces the input.
	Raw string

	// Short is set for block delimiters of the single-marker forms
	// $, $$, \(, \), \[ and \].
	Short bool

	// Adjacent is set for GroupOpen tokens which immediately follow a
	// marker, a block opening or the end of a previous group.
	Adjacent bool

	// Span gives the source location of the token.
	Span scanner.Span
}

func (tok *Token) String() string {
	return fmt.Sprintf("%s(%q)", tok.Type, tok.Raw)
}

// CloseDelim returns the closing delimiter matching the given group
// opening delimiter.
func CloseDelim(open string) string {
	switch open {
	case "{":
		return "}"
	case "[":
		return "]"
	}
	return open
}
