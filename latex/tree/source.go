// source.go -
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

package tree

import (
	"strings"
)

// Source returns the LaTeX source of the subtree rooted at n.  For a
// freshly built tree, the source of the root is identical to the input
// text.
func (n *Node) Source() string {
	b := &strings.Builder{}
	n.writeSource(b)
	return b.String()
}

// InnerSource returns the source of the body of n, without the
// delimiters.  For a Command this is the source of the arguments.
func (n *Node) InnerSource() string {
	b := &strings.Builder{}
	for _, child := range n.Children() {
		child.writeSource(b)
	}
	return b.String()
}

func (n *Node) writeSource(b *strings.Builder) {
	switch n.kind {
	case KindText, KindComment:
		b.WriteString(n.text)
	case KindImage:
		if n.frag != nil {
			b.WriteString(n.frag.Source)
		}
	case KindRef:
		if n.name != "link" {
			b.WriteString("\\" + n.name + "{" + n.text + "}")
		}
	case KindMarkup, KindAnchor:
		// output only
	default:
		b.WriteString(n.open)
		for _, arg := range n.args {
			arg.writeSource(b)
		}
		for _, child := range n.body {
			child.writeSource(b)
		}
		b.WriteString(n.close)
	}
}

// Flatten returns the leaves of the fully expanded tree in document
// order.  Brace groups are transparent, other groups contribute their
// delimiters as text.  An error is returned if the tree still contains
// unexpanded constructs.
func (t *Tree) Flatten() ([]*Node, error) {
	var res []*Node
	var walk func(nodes []*Node) error
	walk = func(nodes []*Node) error {
		for _, n := range nodes {
			switch n.kind {
			case KindCommand, KindBlock:
				return &InvalidTransitionError{Node: n, From: n.state, To: Rendered}
			case KindGroup:
				open, close := n.open, n.close
				if n.name == "{" {
					open = strings.TrimSuffix(open, "{")
					close = ""
				}
				if open != "" {
					res = append(res, t.NewText(open, n.span, n))
				}
				if err := walk(n.body); err != nil {
					return err
				}
				if close != "" {
					res = append(res, t.NewText(close, n.span, n))
				}
			case KindRoot:
				if err := walk(n.body); err != nil {
					return err
				}
			default:
				res = append(res, n)
			}
		}
		return nil
	}
	err := walk(t.root.body)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Source returns the source text of the whole document.
func (t *Tree) Source() string {
	return t.root.Source()
}
