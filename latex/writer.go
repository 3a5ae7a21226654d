// writer.go -
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
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
	"github.com/olitheolix/nobby/latex/xref"
)

const cssPrefix = "latex-"

const imageStyle = "vertical-align: middle;"

// AssembleOptions control the conversion of the expanded document
// into HTML.
type AssembleOptions struct {
	// KeepComments emits LaTeX comments as HTML comments.  By default,
	// comments are dropped.
	KeepComments bool

	// ImagePrefix is the first part of the image file names.  If
	// empty, DefaultImagePrefix is used.
	ImagePrefix string

	// ImageDir is prepended to the image paths in the HTML output.
	ImageDir string
}

// Assembled is the HTML body of a document together with the link
// targets it contains.
type Assembled struct {
	Body    string
	Anchors map[string]xref.Entry
	Images  []*render.Image
}

var errNotRendered = errors.New("fragment has not been rendered")

// textEscape undoes the TeX escapes and applies the HTML ones.
// Longer patterns must come first.
var textEscape = strings.NewReplacer(
	`\&`, "&amp;",
	`\#`, "#",
	`\$`, "$",
	`\%`, "%",
	`\_`, "_",
	`\{`, "{",
	`\}`, "}",
	`\~`, "~",
	`\^`, "^",
	"\\ ", " ",
	"\\\n", "\n",
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"---", "&mdash;",
	"--", "&ndash;",
	"``", "&ldquo;",
	"''", "&rdquo;",
	"~", noBreakSpace,
)

const noBreakSpace = "&nbsp;"

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// paragraphBreak separates paragraphs in the body.  Line breaks are
// normalised later, by prettify.
const paragraphBreak = "\n\n<p>\n\n"

// writer collects the HTML for a list of leaves.  References are
// resolved in a second pass, once all output has been generated.
type writer struct {
	res *xref.Resolver
	opt *AssembleOptions

	parts  []string
	refs   []pendingRef
	images []*render.Image
}

type pendingRef struct {
	part int
	node *tree.Node
}

// Assemble converts the leaves of an expanded document into HTML.
// Rendered images are named in document order; the caller is
// responsible for writing the image files.
func Assemble(leaves []*tree.Node, res *xref.Resolver, opt *AssembleOptions) (*Assembled, error) {
	if opt == nil {
		opt = &AssembleOptions{}
	}
	w := &writer{
		res: res,
		opt: opt,
	}
	for _, n := range leaves {
		err := w.writeLeaf(n)
		if err != nil {
			return nil, err
		}
	}
	err := w.resolveRefs()
	if err != nil {
		return nil, err
	}
	return &Assembled{
		Body:    prettify(strings.Join(w.parts, "")),
		Anchors: res.Table(),
		Images:  w.images,
	}, nil
}

func (w *writer) writeLeaf(n *tree.Node) error {
	switch n.Kind() {
	case tree.KindText:
		w.WriteString(convertText(n.Text()))
	case tree.KindComment:
		if w.opt.KeepComments {
			text := strings.TrimSpace(tokenizer.CommentText(n.Text()))
			text = strings.ReplaceAll(text, "--", "- -")
			w.WriteString("<!-- " + text + " -->\n")
		}
	case tree.KindMarkup:
		w.WriteString(n.Text())
	case tree.KindAnchor:
		w.WriteString(`<a id="` + n.Text() + `"></a>`)
	case tree.KindRef:
		w.refs = append(w.refs, pendingRef{part: len(w.parts), node: n})
		w.WriteString("")
	case tree.KindImage:
		return w.writeImage(n)
	default:
		return fmt.Errorf("%s: unexpected %s in output", n.Span().Start, n.Kind())
	}
	return nil
}

func (w *writer) WriteString(s string) {
	w.parts = append(w.parts, s)
}

func (w *writer) writeImage(n *tree.Node) error {
	img := n.Image()
	if img == nil {
		return fmt.Errorf("%s: %w", n.Span().Start, errNotRendered)
	}
	w.images = append(w.images, img)
	img.Path = imagePath(w.opt, len(w.images), img.Format)

	tag := fmt.Sprintf(`<img src="%s" class="%s" style="%s">`,
		html.EscapeString(img.Path), imageClass(n), imageStyle)
	if !n.IsInline() {
		tag = `<div align="center">` + tag + "</div>"
	}
	w.WriteString(tag)
	return nil
}

func imageClass(n *tree.Node) string {
	if n.IsInline() {
		return cssPrefix + "inline"
	}
	return cssPrefix + "display"
}

// resolveRefs fills in the references to labels.  This is done after
// all leaves are written, so that references never depend on the
// order of label definitions.
func (w *writer) resolveRefs() error {
	for _, ref := range w.refs {
		n := ref.node
		label := n.Text()
		b, err := w.res.Resolve(label)
		if err != nil {
			var unresolved *xref.UnresolvedLabelError
			if errors.As(err, &unresolved) {
				if p := n.Parent(); p != nil {
					unresolved.Span = p.Span()
				}
			}
			return err
		}
		link := `<a href="#` + b.Anchor + `">`
		var out string
		switch n.Name() {
		case "link":
			out = link
		case "eqref":
			out = "(" + link + b.Number() + "</a>)"
		default:
			out = link + b.Number() + "</a>"
		}
		w.parts[ref.part] = out
	}
	return nil
}

// convertText converts a run of LaTeX text into HTML.
func convertText(text string) string {
	text = blankLine.ReplaceAllString(text, paragraphBreak)
	parts := strings.Split(text, paragraphBreak)
	for i, part := range parts {
		parts[i] = textEscape.Replace(part)
	}
	return strings.Join(parts, paragraphBreak)
}
