// xref_test.go -
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

package xref

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/scanner"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
)

func parse(t *testing.T, src string) *tree.Node {
	t.Helper()
	doc, err := tree.Build(tokenizer.NewString("test", src, nil))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Root()
}

func TestSecNo(t *testing.T) {
	var sec SecNo
	sec = sec.Inc(1)
	sec = sec.Inc(2)
	sec = sec.Inc(2)
	if sec.String() != "1.2" {
		t.Errorf("wrong section number %s", sec)
	}
	sec = sec.Inc(1)
	if sec.String() != "2" {
		t.Errorf("wrong section number %s", sec)
	}
	sec = sec.Inc(3)
	if sec.String() != "2.0.1" {
		t.Errorf("wrong section number %s", sec)
	}
	if sec.Get(1) != 2 || sec.Get(2) != 0 || sec.Get(4) != 0 {
		t.Errorf("wrong components in %s", sec)
	}
}

func TestNormalise(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"eq:main", "eq-main"},
		{"fig 1", "fig-1"},
		{"1st", "x1st"},
		{"a::b", "a-b"},
		{"", "x"},
		{"trailing:", "trailing"},
	}
	for _, test := range cases {
		if got := normalise(test.in); got != test.out {
			t.Errorf("normalise(%q) = %q, want %q", test.in, got, test.out)
		}
	}

	a := &anchors{}
	first := a.alloc("eq:x", Entry{})
	second := a.alloc("eq-x", Entry{})
	third := a.alloc("eq x", Entry{})
	if first != "eq-x" || second != "eq-x-2" || third != "eq-x-3" {
		t.Errorf("wrong unique ids %q %q %q", first, second, third)
	}
}

func TestOrdinals(t *testing.T) {
	r := NewResolver()
	var got []int
	for _, name := range []string{"equation", "figure", "align", "equation", "figure*", "multline"} {
		tgt := r.Step(name)
		if tgt.Kind == "equation" {
			got = append(got, tgt.Ordinal)
		}
	}
	if d := cmp.Diff([]int{1, 2, 3, 4}, got); d != "" {
		t.Errorf("wrong equation ordinals (-want +got):\n%s", d)
	}
	if r.Step("itemize") != nil || r.Step("section*") != nil {
		t.Error("unnumbered construct was counted")
	}
}

func TestSections(t *testing.T) {
	r := NewResolver()
	if err := r.DefineTheorem("theorem", "", "Theorem", "section"); err != nil {
		t.Fatal(err)
	}
	if err := r.DefineTheorem("lemma", "theorem", "Lemma", ""); err != nil {
		t.Fatal(err)
	}

	var numbers []string
	for _, name := range []string{
		"section", "theorem", "subsection", "lemma", "section", "subsection",
		"subsection", "lemma",
	} {
		numbers = append(numbers, r.Step(name).Number)
	}
	want := []string{"1", "1.1", "1.1", "1.2", "2", "2.1", "2.2", "2.1"}
	if d := cmp.Diff(want, numbers); d != "" {
		t.Errorf("wrong numbers (-want +got):\n%s", d)
	}

	lemma := r.Step("lemma")
	if lemma.Kind != "theorem" || lemma.Ordinal != 4 || lemma.Prefix != "Lemma" {
		t.Errorf("wrong target %+v", lemma)
	}

	snap := r.Snapshot()
	wantSnap := []render.Counter{
		{Name: "section", Value: 2},
		{Name: "subsection", Value: 2},
		{Name: "theorem", Value: 2},
	}
	if d := cmp.Diff(wantSnap, snap); d != "" {
		t.Errorf("wrong snapshot (-want +got):\n%s", d)
	}

	if err := r.DefineTheorem("remark", "nosuchcounter", "Remark", ""); err == nil {
		t.Error("unknown shared counter accepted")
	}
}

func TestNumberWithin(t *testing.T) {
	r := NewResolver()
	if err := r.NumberWithin("equation", "section"); err != nil {
		t.Fatal(err)
	}
	r.Step("section")
	r.Step("equation")
	r.Step("section")
	if got := r.Step("equation").Number; got != "2.1" {
		t.Errorf("wrong equation number %q", got)
	}
	if err := r.NumberWithin("equation", "chapter"); err == nil {
		t.Error("unknown parent accepted")
	}
}

func TestLabels(t *testing.T) {
	r := NewResolver()
	early, err := r.Bind("early", scanner.Span{})
	if err != nil {
		t.Fatal(err)
	}
	if early.Target != nil || early.Number() != "" {
		t.Errorf("label before any target bound to %v", early.Target)
	}

	r.Step("section")
	r.Step("equation")
	b, err := r.Bind("eq:one", scanner.Span{})
	if err != nil {
		t.Fatal(err)
	}
	if b.Target.Kind != "equation" || b.Target.Ordinal != 1 || b.Number() != "1" {
		t.Errorf("wrong binding %+v", b.Target)
	}

	_, err = r.Bind("eq:one", scanner.Span{})
	var dup *DuplicateLabelError
	if !errors.As(err, &dup) || dup.Label != "eq:one" {
		t.Errorf("expected DuplicateLabelError for eq:one, got %v", err)
	}

	got, err := r.Resolve("eq:one")
	if err != nil || got != b {
		t.Errorf("Resolve failed: %v", err)
	}
	_, err = r.Resolve("missing")
	var unresolved *UnresolvedLabelError
	if !errors.As(err, &unresolved) || unresolved.Label != "missing" {
		t.Errorf("expected UnresolvedLabelError, got %v", err)
	}

	table := r.Table()
	if e := table[b.Anchor]; e != (Entry{Kind: "equation", Ordinal: 1}) {
		t.Errorf("wrong table entry %+v for %q", e, b.Anchor)
	}
	if e, ok := table["section-1"]; !ok || e.Kind != "section" {
		t.Errorf("section anchor missing from %v", table)
	}
}

func TestScan(t *testing.T) {
	src := `\begin{align}
a &= b \label{first}\\
c &= d \nonumber\\
e &= \ref{first} \label{second}\\
\end{align}`
	r := NewResolver()
	r.Step("equation")
	res, err := r.Scan(parse(t, src).Body()[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Targets) != 2 {
		t.Fatalf("expected 2 numbered rows, got %d", len(res.Targets))
	}
	if d := cmp.Diff([]string{"first"}, res.Refs); d != "" {
		t.Errorf("wrong refs (-want +got):\n%s", d)
	}
	second, err := r.Resolve("second")
	if err != nil {
		t.Fatal(err)
	}
	if second.Target.Ordinal != 3 || second.Number() != "3" {
		t.Errorf("wrong target for second: %+v", second.Target)
	}
	if len(res.Bindings) != 2 {
		t.Errorf("expected 2 bindings, got %d", len(res.Bindings))
	}
}

func TestScanNested(t *testing.T) {
	src := `\begin{figure}\centering\begin{equation}x\label{eq}\end{equation}` +
		`\caption{A \label{fig}}\end{figure}`
	r := NewResolver()
	_, err := r.Scan(parse(t, src))
	if err != nil {
		t.Fatal(err)
	}
	eq, _ := r.Resolve("eq")
	fig, _ := r.Resolve("fig")
	if eq == nil || eq.Target.Kind != "equation" {
		t.Errorf("wrong binding for eq: %+v", eq)
	}
	if fig == nil || fig.Target.Kind != "figure" {
		t.Errorf("wrong binding for fig: %+v", fig)
	}

	if r.Current() != nil {
		t.Errorf("numbers inside environments leaked: %+v", r.Current())
	}

	_, err = r.Scan(parse(t, `\label{eq}`))
	var dup *DuplicateLabelError
	if !errors.As(err, &dup) {
		t.Errorf("expected DuplicateLabelError, got %v", err)
	}
}
