// convert_test.go -
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
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/xref"
)

// fakeRenderer produces a deterministic image for every fragment.
type fakeRenderer struct {
	mu       sync.Mutex
	sources  []string
	preamble string
}

func (r *fakeRenderer) Render(ctx context.Context, preamble string, frag *render.Fragment, opt *render.Options) (*render.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, frag.Source)
	r.preamble = preamble
	return &render.Image{
		Format: render.FormatSVG,
		Data:   []byte("<svg>" + frag.Source + "</svg>"),
	}, nil
}

func convert(t *testing.T, src string, opt *Options) (*Output, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	if opt == nil {
		opt = &Options{}
	}
	opt.Renderer = r
	out, err := Convert(context.Background(), "test.tex", []byte(src), opt)
	if err != nil {
		t.Fatal(err)
	}
	return out, r
}

func TestConvertItemize(t *testing.T) {
	out, r := convert(t, `\begin{itemize}\item A\item B\end{itemize}`, nil)
	if out.Body != "<ul><li> A<li> B</ul>" {
		t.Errorf("wrong body %q", out.Body)
	}
	if len(r.sources) != 0 || out.Fragments != 0 {
		t.Errorf("unexpected renders %q", r.sources)
	}
}

func TestConvertLdots(t *testing.T) {
	out, r := convert(t, `a\ldots b`, nil)
	if out.Body != "a... b" {
		t.Errorf("wrong body %q", out.Body)
	}
	if len(r.sources) != 0 {
		t.Errorf("unexpected renders %q", r.sources)
	}
}

func TestConvertFallback(t *testing.T) {
	out, r := convert(t, `\foo{bar}`, nil)
	if d := cmp.Diff([]string{`\foo{bar}`}, r.sources); d != "" {
		t.Error(d)
	}
	want := `<img src="nobby-000001.svg" class="latex-inline" style="vertical-align: middle;">`
	if out.Body != want {
		t.Errorf("wrong body %q", out.Body)
	}
	if len(out.Images) != 1 || out.Images[0].Path != "nobby-000001.svg" {
		t.Fatalf("wrong images %v", out.Images)
	}
	if string(out.Images[0].Data) != `<svg>\foo{bar}</svg>` {
		t.Errorf("wrong image data %q", out.Images[0].Data)
	}
	if r.preamble != defaultPreamble {
		t.Errorf("wrong preamble %q", r.preamble)
	}
}

func TestConvertDocument(t *testing.T) {
	src := `\documentclass[12pt]{article}
\newtheorem{thm}{Theorem}
\title{A Test}
\begin{document}
\section{Intro}\label{sec:intro}
See Section~\ref{sec:intro} and \eqref{eq:1}.

\begin{equation}\label{eq:1}x=1\end{equation}
\begin{thm}[Euclid]\label{t}Primes.\end{thm}
By Theorem~\ref{t}, $p > 2$.
\end{document}`
	out, r := convert(t, src, &Options{ImageDir: "img"})

	if r.preamble != "\\documentclass{article}\n\\newtheorem{thm}{Theorem}\n\\title{A Test}" {
		t.Errorf("wrong preamble %q", r.preamble)
	}
	if out.Title != "A Test" {
		t.Errorf("wrong title %q", out.Title)
	}
	if d := cmp.Diff([]string{"Unknown"}, out.Authors); d != "" {
		t.Error(d)
	}

	for _, want := range []string{
		`<h2 id="section-1">1&nbsp;&nbsp;Intro</h2>`,
		`<a id="sec-intro"></a>`,
		`See Section&nbsp;<a href="#sec-intro">1</a> and (<a href="#eq-1">1</a>).`,
		"\n\n<p>\n\n",
		`<a id="equation-1"></a><a id="eq-1"></a><div align="center"><img src="img/nobby-000001.svg" class="latex-display"`,
		`<div class="amsthm-plain" id="thm-1"><b>Theorem&nbsp;1 (Euclid).</b> <a id="t"></a>Primes.</div>`,
		`By Theorem&nbsp;<a href="#t">1</a>, <img src="img/nobby-000002.svg" class="latex-inline"`,
	} {
		if !strings.Contains(out.Body, want) {
			t.Errorf("%q missing from body %q", want, out.Body)
		}
	}

	sort.Strings(r.sources)
	if d := cmp.Diff([]string{`$p > 2$`, `\begin{equation}\label{eq:1}x=1\end{equation}`}, r.sources); d != "" {
		t.Error(d)
	}
	if out.Anchors["thm-1"] != (xref.Entry{Kind: "thm", Ordinal: 1}) {
		t.Errorf("wrong anchor entry %v", out.Anchors["thm-1"])
	}
	if len(out.Headings) != 1 || out.Headings[0].Title != "Intro" {
		t.Errorf("wrong headings %v", out.Headings)
	}
}

func TestConvertMacro(t *testing.T) {
	src := `\newcommand{\hello}[1]{Hello \textbf{#1}}
\begin{document}\hello{World}\end{document}`
	out, r := convert(t, src, nil)
	if out.Body != "Hello <b>World</b>" {
		t.Errorf("wrong body %q", out.Body)
	}
	if len(r.sources) != 0 {
		t.Errorf("unexpected renders %q", r.sources)
	}
}

func TestConvertHandlers(t *testing.T) {
	opt := &Options{
		Handlers: map[string]expand.Handler{
			"foo":   expand.Subst("FOO"),
			"ldots": expand.Subst("&hellip;"),
		},
	}
	out, _ := convert(t, `\foo{} \ldots`, opt)
	if out.Body != "FOO &hellip;" {
		t.Errorf("wrong body %q", out.Body)
	}
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert(context.Background(), "test.tex",
		[]byte(`\label{x} text \label{x}`), &Options{})
	var dup *xref.DuplicateLabelError
	if !errors.As(err, &dup) || dup.Label != "x" {
		t.Errorf("expected duplicate label error, got %v", err)
	}

	_, err = Convert(context.Background(), "test.tex",
		[]byte("line 1\nsee \\ref{nope}"), &Options{})
	var unresolved *xref.UnresolvedLabelError
	if !errors.As(err, &unresolved) || unresolved.Label != "nope" {
		t.Fatalf("expected unresolved label error, got %v", err)
	}
	if unresolved.Span.Start.Line != 2 {
		t.Errorf("wrong error position %s", unresolved.Span)
	}

	_, err = Convert(context.Background(), "test.tex",
		[]byte("\\begin{document}\n\n\\begin{itemize}\\end{enumerate}"), &Options{})
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error in line 3, got %v", err)
	}

	_, err = Convert(context.Background(), "test.tex", []byte(`$x$`), &Options{})
	if !errors.Is(err, expand.ErrNoRenderer) {
		t.Errorf("expected ErrNoRenderer, got %v", err)
	}
}

func TestConvertComments(t *testing.T) {
	src := "a % note -- here\nb"
	out, _ := convert(t, src, nil)
	if out.Body != "a b" {
		t.Errorf("wrong body %q", out.Body)
	}
	out, _ = convert(t, src, &Options{KeepComments: true})
	if out.Body != "a <!-- note - - here --> b" {
		t.Errorf("wrong body %q", out.Body)
	}
}
