// builtin_test.go -
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

package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
	"github.com/olitheolix/nobby/latex/xref"
)

func convert(t *testing.T, src string, opt *Options) (string, *expand.Result) {
	t.Helper()
	doc, err := tree.Build(tokenizer.NewString("test", src, nil))
	if err != nil {
		t.Fatal(err)
	}
	reg := expand.NewRegistry()
	if err := Register(reg, opt); err != nil {
		t.Fatal(err)
	}
	reg.Freeze()

	res := xref.NewResolver()
	if opt != nil {
		for _, thm := range opt.Theorems {
			if err := res.DefineTheorem(thm.Name, thm.Counter, thm.Prefix, thm.Within); err != nil {
				t.Fatal(err)
			}
		}
	}
	out, err := expand.New(reg, res, nil).Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("%q: %s", src, err)
	}
	leaves, err := doc.Flatten()
	if err != nil {
		t.Fatal(err)
	}

	b := &strings.Builder{}
	for _, n := range leaves {
		switch n.Kind() {
		case tree.KindAnchor:
			b.WriteString("[#" + n.Text() + "]")
		case tree.KindRef:
			b.WriteString("[" + n.Name() + ":" + n.Text() + "]")
		case tree.KindImage:
			b.WriteString("[img]")
		default:
			b.WriteString(n.Text())
		}
	}
	return b.String(), out
}

func TestHandlers(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"\\begin{itemize}\\item A\\item B\\end{itemize}", "<ul><li> A<li> B</ul>"},
		{"\\begin{enumerate}\\item[x] A\\end{enumerate}", "<ol><li><b>x</b> A</ol>"},
		{"\\begin{description}\\item[T] def\\end{description}", "<dl><dt>T</dt><dd> def</dl>"},
		{"a\\ldots b\\dots", "a... b..."},
		{"\\emph{x} \\textbf{y} \\texttt{z}", "<em>x</em> <b>y</b> <code>z</code>"},
		{"\\textbf {spaced}", "<b></b> spaced"},
		{"\\LaTeX{} and \\TeX", "LaTeX and TeX"},
		{"a\\footnote{gone} b", "a b"},
		{"\\noindent{kept}", "kept"},
		{"x\\\\y", "x<br>y"},
		{"\\href{http://a.b/c\\#d}{link}", `<a href="http://a.b/c#d">link</a>`},
		{"\\url{http://x.y/?a=1&b=2}", `<a href="http://x.y/?a=1&amp;b=2">http://x.y/?a=1&amp;b=2</a>`},
		{"\\label{a}\\ref{a}", "[#a][ref:a]"},
		{"\\hyperref[sec:x]{see}", "[link:sec:x]see</a>"},
		{"\\verb|<a>|", "<code>&lt;a&gt;</code>"},
		{"\\begin{verbatim}\na < b\n\\end{verbatim}", "<pre>a &lt; b</pre>"},
		{"\\begin{comment}\nhidden\n\\end{comment}", ""},
		{"\\begin{center}x\\end{center}", `<div align="center">x</div>`},
		{"\\title{T}\\author{A}\\date{D}\\maketitle", ""},
	}
	for _, test := range cases {
		got, _ := convert(t, test.in, nil)
		if got != test.out {
			t.Errorf("%q:\n  got  %q\n  want %q", test.in, got, test.out)
		}
	}
}

func TestSections(t *testing.T) {
	src := "\\section{Intro}\\label{s}\\subsection{More \\emph{text}}\\section*{Notes}\\section{End}"
	got, res := convert(t, src, nil)
	want := `<h2 id="section-1">1&nbsp;&nbsp;Intro</h2>[#s]` +
		`<h3 id="subsection-1-1">1.1&nbsp;&nbsp;More <em>text</em></h3>` +
		`<h2 id="sec-Notes">Notes</h2>` +
		`<h2 id="section-2">2&nbsp;&nbsp;End</h2>`
	if got != want {
		t.Errorf("wrong output:\n  got  %q\n  want %q", got, want)
	}

	headings := []expand.Heading{
		{Level: 2, Number: "1", Title: "Intro", Anchor: "section-1"},
		{Level: 3, Number: "1.1", Title: "More text", Anchor: "subsection-1-1"},
		{Level: 2, Title: "Notes", Anchor: "sec-Notes"},
		{Level: 2, Number: "2", Title: "End", Anchor: "section-2"},
	}
	if d := cmp.Diff(headings, res.Headings); d != "" {
		t.Errorf("wrong headings (-want +got):\n%s", d)
	}
}

func TestTheorems(t *testing.T) {
	opt := &Options{
		Theorems: []*Theorem{
			{Name: "theorem", Prefix: "Theorem", Within: "section"},
			{Name: "lemma", Counter: "theorem", Prefix: "Lemma", Style: "definition"},
		},
	}
	src := "\\section{A}\\begin{theorem}[Main]T\\end{theorem}\\begin{lemma}L\\end{lemma}"
	got, _ := convert(t, src, opt)
	want := `<h2 id="section-1">1&nbsp;&nbsp;A</h2>` +
		`<div class="amsthm-plain" id="theorem-1-1"><b>Theorem&nbsp;1.1 (Main).</b> T</div>` +
		`<div class="amsthm-definition" id="theorem-1-2"><b>Lemma&nbsp;1.2.</b> L</div>`
	if got != want {
		t.Errorf("wrong output:\n  got  %q\n  want %q", got, want)
	}
}

func TestMacros(t *testing.T) {
	deflt := "world"
	opt := &Options{
		Macros: []*Macro{
			{Name: "hello", Args: 1, Default: &deflt, Body: "Hello, #1!"},
			{Name: "pair", Args: 2, Body: "(#1, #2)"},
			{Name: "strong", Args: 1, Body: "\\textbf{#1}"},
			{Name: "emph", Args: 1, Body: "<#1>"},
		},
	}
	cases := []struct {
		in, out string
	}{
		{"\\hello", "Hello, world!"},
		{"\\hello[you]", "Hello, you!"},
		{"\\pair{a}{b}", "(a, b)"},
		{"\\strong{x}", "<b>x</b>"},
		{"\\emph{x}", "<x>"},
	}
	for _, test := range cases {
		got, _ := convert(t, test.in, opt)
		if got != test.out {
			t.Errorf("%q:\n  got  %q\n  want %q", test.in, got, test.out)
		}
	}
}

func TestListing(t *testing.T) {
	src := "\\begin{lstlisting}[language=Go, caption=x]\nfunc main() {}\n\\end{lstlisting}"
	got, _ := convert(t, src, nil)
	if !strings.HasPrefix(got, `<pre class="code">`) || !strings.Contains(got, "main") {
		t.Errorf("wrong listing %q", got)
	}
	if strings.Contains(got, "lstlisting") {
		t.Errorf("environment markup leaked into %q", got)
	}

	if lang := listingLanguage("caption=x, language={[Sharp]C}"); lang != "C" {
		t.Errorf("wrong language %q", lang)
	}
}

func TestDiagram(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping diagram layout in short mode")
	}
	got, res := convert(t, "\\begin{d2}\na -> b\n\\end{d2}", nil)
	if got != "[img]" {
		t.Fatalf("wrong output %q", got)
	}
	if len(res.Images) != 0 {
		t.Error("diagram was passed to the fragment renderer")
	}
}

func TestPlainText(t *testing.T) {
	doc, err := tree.Build(tokenizer.NewString("test", "A \\emph{b}~c $x$ 50\\%", nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := PlainText(doc.Root().Body()); got != "A b c $x$ 50%" {
		t.Errorf("wrong text %q", got)
	}
}
