// document.go -
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

package latex

import (
	"regexp"
	"strings"

	"rsc.io/edit"

	"github.com/olitheolix/nobby/latex/scanner"
)

// defaultPreamble is used for files without \begin{document}.
const defaultPreamble = "\\documentclass{article}"

var (
	beginDocument = regexp.MustCompile(`\\begin\s*\{document\}`)
	endDocument   = regexp.MustCompile(`\\end\s*\{document\}`)
)

// document is a LaTeX file, split into preamble and body.
type document struct {
	Preamble string
	Body     string

	// BodyStart is the position of the body inside the file, so that
	// error messages use line numbers of the whole file.
	BodyStart scanner.Pos
}

// splitDocument separates the preamble from the body.  Occurrences of
// \begin{document} inside comments are ignored.  If the file has no
// \begin{document}, everything is body and a minimal preamble is used.
// Everything after \end{document} is discarded.
func splitDocument(src string) *document {
	masked := maskComments(src)
	start := scanner.Pos{Line: 1, Col: 1}

	loc := beginDocument.FindStringIndex(masked)
	if loc == nil {
		body := src
		if end := endDocument.FindStringIndex(masked); end != nil {
			body = body[:end[0]]
		}
		return &document{
			Preamble:  defaultPreamble,
			Body:      body,
			BodyStart: start,
		}
	}

	body := src[loc[1]:]
	if end := endDocument.FindStringIndex(masked[loc[1]:]); end != nil {
		body = body[:end[0]]
	}
	return &document{
		Preamble:  strings.TrimSpace(src[:loc[0]]),
		Body:      body,
		BodyStart: start.Advance([]byte(src[:loc[1]])),
	}
}

// maskComments replaces the text of all comments with spaces.  The
// result has the same length as src, so that offsets can be used for
// both strings.
func maskComments(src string) string {
	buf := []byte(src)
	inComment := false
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			} else {
				buf[i] = ' '
			}
		case c == '\\':
			i++
		case c == '%':
			inComment = true
			buf[i] = ' '
		}
	}
	return string(buf)
}

var lineBreaks = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// prettify normalises the line breaks in the HTML body: a single line
// break becomes a space, and every paragraph break becomes exactly one
// empty line.  The contents of <pre> elements are left alone.
func prettify(body string) string {
	keep := preRegions(body)
	buf := edit.NewBuffer([]byte(body))
	for _, loc := range lineBreaks.FindAllStringIndex(body, -1) {
		if inRegions(keep, loc[0], loc[1]) {
			continue
		}
		sep := " "
		if strings.Count(body[loc[0]:loc[1]], "\n") > 1 {
			sep = "\n\n"
		}
		buf.Replace(loc[0], loc[1], sep)
	}
	return strings.TrimSpace(buf.String())
}

// preRegions returns the byte ranges of all <pre> elements.
func preRegions(body string) [][2]int {
	var res [][2]int
	pos := 0
	for {
		start := strings.Index(body[pos:], "<pre")
		if start < 0 {
			break
		}
		start += pos
		end := strings.Index(body[start:], "</pre>")
		if end < 0 {
			res = append(res, [2]int{start, len(body)})
			break
		}
		end += start + len("</pre>")
		res = append(res, [2]int{start, end})
		pos = end
	}
	return res
}

func inRegions(regions [][2]int, start, end int) bool {
	for _, r := range regions {
		if start < r[1] && end > r[0] {
			return true
		}
	}
	return false
}
