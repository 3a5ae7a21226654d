// dump.go -
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
	"io"

	"github.com/k0kubun/pp"
)

type dumpNode struct {
	Kind  string
	Name  string
	Text  string
	State string
	Pos   string
	Args  []*dumpNode
	Body  []*dumpNode
}

func makeDump(n *Node) *dumpNode {
	d := &dumpNode{
		Kind: n.kind.String(),
		Name: n.name,
		Text: n.text,
	}
	if n.IsConstruct() {
		d.State = n.state.String()
	}
	if n.span.End.Offset > 0 {
		d.Pos = n.span.Start.String()
	}
	for _, arg := range n.args {
		d.Args = append(d.Args, makeDump(arg))
	}
	for _, child := range n.body {
		d.Body = append(d.Body, makeDump(child))
	}
	return d
}

// Dump pretty-prints the subtree rooted at n to w.
func Dump(w io.Writer, n *Node) error {
	_, err := pp.Fprintln(w, makeDump(n))
	return err
}
