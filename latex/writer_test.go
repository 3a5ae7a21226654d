// writer_test.go -
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
	"errors"
	"testing"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/scanner"
	"github.com/olitheolix/nobby/latex/tree"
	"github.com/olitheolix/nobby/latex/xref"
)

func TestConvertText(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{`plain`, `plain`},
		{`50\% \& \$5 \#1 a\_b \{x\}`, `50% &amp; $5 #1 a_b {x}`},
		{`a < b > c & "d"`, `a &lt; b &gt; c &amp; &quot;d&quot;`},
		{"``quoted''", "&ldquo;quoted&rdquo;"},
		{"1--2 and---so", "1&ndash;2 and&mdash;so"},
		{"Mr.~X", "Mr.&nbsp;X"},
		{"one\n\ntwo", "one\n\n<p>\n\ntwo"},
		{"one\n  \t\ntwo", "one\n\n<p>\n\ntwo"},
		{"one\ntwo", "one\ntwo"},
	}
	for _, test := range testCases {
		got := convertText(test.in)
		if got != test.out {
			t.Errorf("%q: expected %q, got %q", test.in, test.out, got)
		}
	}
}

func TestAssemble(t *testing.T) {
	doc := tree.New()
	root := doc.Root()
	res := xref.NewResolver()
	target := res.Step("figure")
	if _, err := res.Bind("fig:a", scanner.Span{}); err != nil {
		t.Fatal(err)
	}

	frag := &render.Fragment{ID: 1, Source: `\includegraphics{a}`}
	img := doc.NewImage(frag, &render.Image{Format: render.FormatPNG}, false, root)
	leaves := []*tree.Node{
		doc.NewAnchor(target.Anchor, root),
		img,
		doc.NewText("Figure~", scanner.Span{}, root),
		doc.NewRef("ref", "fig:a", root),
		doc.NewMarkup(" and ", root),
		doc.NewRef("link", "fig:a", root),
		doc.NewText("this", scanner.Span{}, root),
		doc.NewMarkup("</a>", root),
	}

	out, err := Assemble(leaves, res, &AssembleOptions{ImagePrefix: "fig"})
	if err != nil {
		t.Fatal(err)
	}
	want := `<a id="figure-1"></a>` +
		`<div align="center"><img src="fig-000001.png" class="latex-display" style="vertical-align: middle;"></div>` +
		`Figure&nbsp;<a href="#fig-a">1</a> and <a href="#fig-a">this</a>`
	if out.Body != want {
		t.Errorf("wrong body:\n%s\nexpected:\n%s", out.Body, want)
	}
	if len(out.Images) != 1 || out.Images[0].Path != "fig-000001.png" {
		t.Errorf("wrong images %v", out.Images)
	}
	if out.Anchors["fig-a"] != (xref.Entry{Kind: "figure", Ordinal: 1}) {
		t.Errorf("wrong anchor table %v", out.Anchors)
	}
}

func TestAssembleErrors(t *testing.T) {
	doc := tree.New()
	root := doc.Root()

	leaves := []*tree.Node{doc.NewRef("ref", "missing", root)}
	_, err := Assemble(leaves, xref.NewResolver(), nil)
	var unresolved *xref.UnresolvedLabelError
	if !errors.As(err, &unresolved) || unresolved.Label != "missing" {
		t.Errorf("expected unresolved label error, got %v", err)
	}

	frag := &render.Fragment{ID: 1, Source: `$x$`}
	leaves = []*tree.Node{doc.NewImage(frag, nil, true, root)}
	_, err = Assemble(leaves, xref.NewResolver(), nil)
	if !errors.Is(err, errNotRendered) {
		t.Errorf("expected errNotRendered, got %v", err)
	}
}
