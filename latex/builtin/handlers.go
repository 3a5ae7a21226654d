// handlers.go -
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
	"errors"
	"html"
	"strconv"
	"strings"

	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/tree"
)

var errMissingArg = errors.New("missing argument")

func hItem(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	var label tree.Nodes
	if opt := parent.OptArg(); opt != nil {
		label = opt.Body()
	}
	rest := expand.Content(args, parent)

	list := parent.Enclosing("itemize", "enumerate", "description")
	if list != nil && list.Name() == "description" {
		return []tree.Piece{
			tree.Markup("<dt>"), label, tree.Markup("</dt><dd>"), rest,
		}, nil
	}
	if len(label) > 0 {
		return []tree.Piece{
			tree.Markup("<li><b>"), label, tree.Markup("</b>"), rest,
		}, nil
	}
	return []tree.Piece{tree.Markup("<li>"), rest}, nil
}

// heading returns a handler for a sectioning command, which is shown
// as an HTML heading of the given level.
func heading(level int) expand.Handler {
	tag := "h" + strconv.Itoa(level)
	return expand.Func(func(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
		title := parent.Arg(0)
		if title == nil {
			return nil, errMissingArg
		}

		h := expand.Heading{
			Level: level,
			Title: PlainText(title.Body()),
		}
		var start string
		if t := c.Target; t != nil {
			h.Number = t.Number
			h.Anchor = t.Anchor
			start = "<" + tag + ` id="` + t.Anchor + `">` + t.Number + noBreakSpace + noBreakSpace
		} else {
			h.Anchor = c.Resolver.Anchor("sec-" + h.Title)
			start = "<" + tag + ` id="` + h.Anchor + `">`
		}
		c.AddHeading(h)

		return []tree.Piece{
			tree.Markup(start),
			tree.Nodes(title.Body()),
			tree.Markup("</" + tag + ">"),
		}, nil
	})
}

func hLabel(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	label := parent.ArgText(0)
	if label == "" {
		return nil, errMissingArg
	}
	b, err := c.Resolver.Bind(label, parent.Span())
	if err != nil {
		return nil, err
	}
	return []tree.Piece{c.Anchor(b.Anchor)}, nil
}

func refHandler(style string) expand.Handler {
	return expand.Func(func(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
		label := parent.ArgText(0)
		if label == "" {
			return nil, errMissingArg
		}
		return []tree.Piece{c.Ref(style, label)}, nil
	})
}

// hHyperref handles \hyperref[label]{text}.
func hHyperref(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	opt := parent.OptArg()
	text := parent.Arg(0)
	if opt == nil || text == nil {
		return nil, errMissingArg
	}
	label := strings.TrimSpace(opt.InnerSource())
	return []tree.Piece{
		c.Ref("link", label),
		tree.Nodes(text.Body()),
		tree.Markup("</a>"),
	}, nil
}

// urlUnescape removes the TeX escapes which are needed for some
// characters in URLs.
var urlUnescape = strings.NewReplacer(
	`\#`, "#",
	`\%`, "%",
	`\_`, "_",
	`\&`, "&",
	`\~`, "~",
	`\$`, "$",
)

func hHref(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	text := parent.Arg(1)
	if text == nil {
		return nil, errMissingArg
	}
	url := urlUnescape.Replace(parent.ArgText(0))
	return []tree.Piece{
		tree.Markup(`<a href="` + html.EscapeString(url) + `">`),
		tree.Nodes(text.Body()),
		tree.Markup("</a>"),
	}, nil
}

func hURL(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	url := urlUnescape.Replace(parent.ArgText(0))
	if url == "" {
		return nil, errMissingArg
	}
	url = html.EscapeString(url)
	return []tree.Piece{
		tree.Markup(`<a href="` + url + `">` + url + `</a>`),
	}, nil
}

// PlainText extracts the text from a list of nodes, ignoring all
// markup.  This is used for the table of contents.
func PlainText(nodes []*tree.Node) string {
	b := &strings.Builder{}
	var walk func(nodes []*tree.Node)
	walk = func(nodes []*tree.Node) {
		for _, n := range nodes {
			switch n.Kind() {
			case tree.KindText:
				b.WriteString(n.Text())
			case tree.KindComment:
				// skip
			default:
				if n.Kind() == tree.KindBlock && n.IsShort() {
					b.WriteString(n.Source())
					continue
				}
				walk(n.Args())
				walk(n.Body())
			}
		}
	}
	walk(nodes)
	return strings.Join(strings.Fields(textUnescape.Replace(b.String())), " ")
}

var textUnescape = strings.NewReplacer(
	`\#`, "#", `\$`, "$", `\%`, "%", `\&`, "&", `\_`, "_",
	`\{`, "{", `\}`, "}", "~", " ", `\ `, " ",
)
