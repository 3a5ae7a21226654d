// preamble_test.go -
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

package latex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewTheorem(t *testing.T) {
	src := `\usepackage{amsthm}%
\newtheorem{theorem}{Abc}[section]
\theoremstyle{definition}
\newtheorem{lemma}[theorem]{Def}
\newtheorem*{remark}{Remark}`

	conv := newConverter("test", nil)
	decl := conv.analysePreamble(src)

	if len(decl.Theorems) != 3 {
		t.Fatalf("expected 3 theorems, got %d", len(decl.Theorems))
	}
	theorem := decl.theorem("theorem")
	if theorem == nil {
		t.Fatal("theorem environment missing")
	}
	if theorem.Prefix != "Abc" || theorem.Within != "section" || theorem.Style != "plain" {
		t.Errorf("wrong theorem %+v", theorem)
	}
	lemma := decl.theorem("lemma")
	if lemma == nil {
		t.Fatal("lemma environment missing")
	}
	if lemma.Prefix != "Def" || lemma.Counter != "theorem" {
		t.Errorf("wrong lemma %+v", lemma)
	}
	if lemma.Style != "definition" {
		t.Errorf("wrong lemma style %q", lemma.Style)
	}
	if remark := decl.theorem("remark"); remark == nil || !remark.Unnumbered {
		t.Errorf("wrong remark %+v", remark)
	}
}

func TestNewCommand(t *testing.T) {
	src := `\newcommand{\R}{\mathbb{R}}
\newcommand{\pair}[2]{(#1, #2)}
\newcommand\opt[2][x]{#1^#2}
\renewcommand{\R}{\mathbf{R}}
\providecommand{\R}{ignored}`

	conv := newConverter("test", nil)
	decl := conv.analysePreamble(src)

	type macro struct {
		Name    string
		Args    int
		Default string
		Body    string
	}
	var got []macro
	for _, m := range decl.Macros {
		def := ""
		if m.Default != nil {
			def = "[" + *m.Default + "]"
		}
		got = append(got, macro{m.Name, m.Args, def, m.Body})
	}
	want := []macro{
		{"R", 0, "", `\mathbf{R}`},
		{"pair", 2, "", "(#1, #2)"},
		{"opt", 2, "[x]", "#1^#2"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestTitleAuthor(t *testing.T) {
	conv := newConverter("test", nil)
	decl := conv.analysePreamble(`\title{On \emph{Things}}
\author{A. Person \and B.~Other}`)
	if decl.title() != "On Things" {
		t.Errorf("wrong title %q", decl.title())
	}
	if d := cmp.Diff([]string{"A. Person", "B. Other"}, decl.authors()); d != "" {
		t.Error(d)
	}

	empty := conv.analysePreamble(`\documentclass{article}`)
	if empty.title() != "No Title" {
		t.Errorf("wrong default title %q", empty.title())
	}
	if d := cmp.Diff([]string{"Unknown"}, empty.authors()); d != "" {
		t.Error(d)
	}
}

func TestDropFontSize(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{`\documentclass[12pt]{article}`, `\documentclass{article}`},
		{`\documentclass[a4paper, 11pt]{article}`, `\documentclass[a4paper]{article}`},
		{`\documentclass[10pt,twocolumn]{article}`, `\documentclass[twocolumn]{article}`},
		{`\documentclass[a4paper]{article}`, `\documentclass[a4paper]{article}`},
		{`\documentclass{article}`, `\documentclass{article}`},
		{"% \\documentclass[12pt]{article}\n\\documentclass{book}",
			"% \\documentclass[12pt]{article}\n\\documentclass{book}"},
	}
	conv := newConverter("test", nil)
	for _, test := range testCases {
		decl := conv.analysePreamble(test.in)
		if decl.Preamble != test.out {
			t.Errorf("%q: expected %q, got %q", test.in, test.out, decl.Preamble)
		}
	}
}

func TestBrokenPreamble(t *testing.T) {
	src := `\newcommand{\x}{\begin{itemize}}`
	conv := newConverter("test", nil)
	decl := conv.analysePreamble(src)
	if decl.Preamble != src {
		t.Errorf("preamble changed to %q", decl.Preamble)
	}
	if len(decl.Macros) != 0 {
		t.Errorf("unexpected macros %v", decl.Macros)
	}
}
