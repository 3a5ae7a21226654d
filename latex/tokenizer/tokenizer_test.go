// tokenizer_test.go -
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
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olitheolix/nobby/latex/scanner"
)

func collect(p *Tokenizer) ([]*Token, error) {
	var res []*Token
	for {
		tok, err := p.Next()
		if err == io.EOF {
			return res, nil
		} else if err != nil {
			return res, err
		}
		res = append(res, tok)
	}
}

// summary describes a token as "Type:Name:Raw".
func summary(toks []*Token) []string {
	var res []string
	for _, tok := range toks {
		res = append(res, tok.Type.String()+":"+tok.Name+":"+tok.Raw)
	}
	return res
}

func TestTokens(t *testing.T) {
	type testCase struct {
		in  string
		out []string
	}
	testCases := []testCase{
		{"hello", []string{"TextRun::hello"}},
		{"\\ldots", []string{"MarkerStart:ldots:\\ldots"}},
		{"\\foo{bar}", []string{
			"MarkerStart:foo:\\foo",
			"GroupOpen:{:{", "TextRun::bar", "GroupClose:{:}",
		}},
		{"\\item[x] y", []string{
			"MarkerStart:item:\\item",
			"GroupOpen:[:[", "TextRun::x", "GroupClose:[:]",
			"TextRun:: y",
		}},
		{"a [b] c", []string{"TextRun::a [b] c"}},
		{"\\section*{A}", []string{
			"MarkerStart:section*:\\section*",
			"GroupOpen:{:{", "TextRun::A", "GroupClose:{:}",
		}},
		{"\\begin{itemize}\\item A\\item B\\end{itemize}", []string{
			"BlockBegin:itemize:\\begin{itemize}",
			"MarkerStart:item:\\item", "TextRun:: A",
			"MarkerStart:item:\\item", "TextRun:: B",
			"BlockEnd:itemize:\\end{itemize}",
		}},
		{"$x$ and $$y$$", []string{
			"BlockBegin:math:$", "TextRun::x", "BlockEnd:math:$",
			"TextRun:: and ",
			"BlockBegin:displaymath:$$", "TextRun::y", "BlockEnd:displaymath:$$",
		}},
		{"\\(a\\)\\[b\\]", []string{
			"BlockBegin:math:\\(", "TextRun::a", "BlockEnd:math:\\)",
			"BlockBegin:displaymath:\\[", "TextRun::b", "BlockEnd:displaymath:\\]",
		}},
		{"$[0,1)$", []string{
			"BlockBegin:math:$", "TextRun::[0,1)", "BlockEnd:math:$",
		}},
		{"\\$5 and \\{x\\}", []string{"TextRun::\\$5 and \\{x\\}"}},
		{"a\\\\b", []string{
			"TextRun::a", "MarkerStart:\\:\\\\", "TextRun::b",
		}},
		{"\\verb|\\x{|", []string{
			"MarkerStart:verb:\\verb",
			"GroupOpen:|:|", "TextRun::\\x{", "GroupClose:|:|",
		}},
		{"\\begin{verbatim}\\foo{\n\\end{verbatim}", []string{
			"BlockBegin:verbatim:\\begin{verbatim}",
			"TextRun::\\foo{\n",
			"BlockEnd:verbatim:\\end{verbatim}",
		}},
		{"\\begin{lstlisting}[language=Go]x\\end{lstlisting}", []string{
			"BlockBegin:lstlisting:\\begin{lstlisting}",
			"GroupOpen:[:[", "TextRun::language=Go", "GroupClose:[:]",
			"TextRun::x",
			"BlockEnd:lstlisting:\\end{lstlisting}",
		}},
		{"x%c\ny", []string{
			"TextRun::x", "CommentRun::%c\n", "TextRun::y",
		}},
	}

	for _, test := range testCases {
		toks, err := collect(NewString("test", test.in, nil))
		if err != nil {
			t.Errorf("%q: unexpected error %s", test.in, err)
			continue
		}
		if diff := cmp.Diff(test.out, summary(toks)); diff != "" {
			t.Errorf("%q: wrong tokens (-want +got):\n%s", test.in, diff)
		}
	}
}

func TestAdjacency(t *testing.T) {
	toks, err := collect(NewString("test", "\\a{x}{y} {z}", nil))
	if err != nil {
		t.Fatal(err)
	}
	var adjacent []bool
	for _, tok := range toks {
		if tok.Type == GroupOpen {
			adjacent = append(adjacent, tok.Adjacent)
		}
	}
	if diff := cmp.Diff([]bool{true, true, false}, adjacent); diff != "" {
		t.Errorf("wrong adjacency (-want +got):\n%s", diff)
	}
}

func TestArgWhitespace(t *testing.T) {
	in := "\\section {A}\n[b]\n\n{c}"
	opt := &Options{ArgWhitespace: true}
	toks, err := collect(NewString("test", in, opt))
	if err != nil {
		t.Fatal(err)
	}
	var raw []string
	for _, tok := range toks {
		if tok.Type == GroupOpen && tok.Adjacent {
			raw = append(raw, tok.Raw)
		}
	}
	if diff := cmp.Diff([]string{" {", "\n["}, raw); diff != "" {
		t.Errorf("wrong adjacent groups (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	in := `\documentclass[12pt]{article}
% comment with $ and {
\begin{document}
Text with \emph{emphasis} and $\frac{a}{b}[x]$, 50\% off.
\begin{align}
  x &= 1 \label{eq:x} \\[2pt]
  y &= 2 \nonumber
\end{align}
\verb+{+ \begin{verbatim}
\end{itemize}
\end{verbatim}
\end{document}
`
	toks, err := collect(NewString("test", in, nil))
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	for _, tok := range toks {
		out.WriteString(tok.Raw)
	}
	if out.String() != in {
		t.Errorf("round trip failed:\n%s", cmp.Diff(in, out.String()))
	}
}

func TestSpans(t *testing.T) {
	toks, err := collect(NewString("test", "a\n\\b{c}", nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks {
		if tok.Span.Len() != len(tok.Raw) {
			t.Errorf("%s: span %s does not match raw text", tok, tok.Span)
		}
	}
	if pos := toks[1].Span.Start; pos.Line != 2 || pos.Col != 1 {
		t.Errorf("wrong start position %s", pos)
	}
}

func TestStructuralErrors(t *testing.T) {
	testCases := []struct {
		in   string
		line int
	}{
		{"\\foo{bar", 1},
		{"x}", 1},
		{"\\begin{a}\n\\end{b}", 2},
		{"\\begin{a}\nxx", 1},
		{"\n$x", 2},
		{"$$x$y$$", 1},
		{"{\\]}", 1},
		{"\\end{a}", 1},
		{"\\begin{verbatim} no end", 1},
		{"\\verb|x", 1},
		{"\\begin x", 1},
	}
	for _, test := range testCases {
		_, err := collect(NewString("test", test.in, nil))
		var sErr *scanner.StructuralError
		if !errors.As(err, &sErr) {
			t.Errorf("%q: expected StructuralError, got %v", test.in, err)
			continue
		}
		if sErr.Pos.Line != test.line {
			t.Errorf("%q: error reported at line %d, expected %d",
				test.in, sErr.Pos.Line, test.line)
		}
	}
}
