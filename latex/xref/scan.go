// scan.go -
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
	"strings"

	"github.com/olitheolix/nobby/latex/tree"
)

// refCommands lists the commands which refer to a label in their first
// argument.
var refCommands = map[string]bool{
	"ref": true, "eqref": true, "pageref": true,
	"autoref": true, "cref": true, "Cref": true, "nameref": true,
}

// ScanResult collects what was found in an opaque subtree.
type ScanResult struct {
	// Targets lists the numbered constructs, in document order.
	Targets []*Target

	// Bindings lists the labels defined in the subtree.
	Bindings []*Binding

	// Refs lists the labels referenced in the subtree.
	Refs []string
}

// Scan walks a subtree which is rendered as a whole and updates the
// counters and labels the same way LaTeX will when rendering it.  The
// root n is counted, too.
func (r *Resolver) Scan(n *tree.Node) (*ScanResult, error) {
	res := &ScanResult{}
	err := r.scan(n, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) scan(n *tree.Node, res *ScanResult) error {
	switch n.Kind() {
	case tree.KindCommand:
		switch name := n.Name(); {
		case name == "label":
			b, err := r.Bind(n.ArgText(0), n.Span())
			if err != nil {
				return err
			}
			res.Bindings = append(res.Bindings, b)
			return nil
		case refCommands[name]:
			if label := n.ArgText(0); label != "" {
				res.Refs = append(res.Refs, label)
			}
			return nil
		}
		if t := r.Step(n.Name()); t != nil {
			res.Targets = append(res.Targets, t)
		}
		return r.scanList(n.Args(), res)

	case tree.KindBlock:
		// environments are groups, numbers stepped inside are local
		prev := r.current
		defer func() { r.current = prev }()

		c := r.countable[n.Name()]
		if c != nil && c.Rows {
			if err := r.scanList(n.Args(), res); err != nil {
				return err
			}
			return r.scanRows(n.Name(), n.Body(), res)
		}
		if t := r.Step(n.Name()); t != nil {
			res.Targets = append(res.Targets, t)
		}
		if err := r.scanList(n.Args(), res); err != nil {
			return err
		}
		return r.scanList(n.Body(), res)

	case tree.KindGroup, tree.KindRoot:
		return r.scanList(n.Body(), res)
	}
	return nil
}

func (r *Resolver) scanList(nodes []*tree.Node, res *ScanResult) error {
	for _, child := range nodes {
		if err := r.scan(child, res); err != nil {
			return err
		}
	}
	return nil
}

// scanRows numbers the lines of a multi-line equation environment.
// Lines are separated by \\ at the top level of the body.  Lines with
// \nonumber, \notag or an explicit \tag are not numbered.  The amsmath
// environments ignore an empty line after a final \.
func (r *Resolver) scanRows(name string, body []*tree.Node, res *ScanResult) error {
	rows := splitRows(body)
	if name != "eqnarray" && len(rows) > 1 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	for _, row := range rows {
		if !hasCommand(row, "nonumber", "notag", "tag", "tag*") {
			res.Targets = append(res.Targets, r.Step(name))
		}
		if err := r.scanList(row, res); err != nil {
			return err
		}
	}
	return nil
}

func splitRows(body []*tree.Node) [][]*tree.Node {
	var rows [][]*tree.Node
	start := 0
	for i, n := range body {
		if n.Kind() == tree.KindCommand && n.Name() == "\\" {
			rows = append(rows, body[start:i])
			start = i + 1
		}
	}
	return append(rows, body[start:])
}

func hasCommand(nodes []*tree.Node, names ...string) bool {
	for _, n := range nodes {
		if n.Kind() == tree.KindCommand {
			for _, name := range names {
				if n.Name() == name {
					return true
				}
			}
		}
		if hasCommand(n.Args(), names...) || hasCommand(n.Body(), names...) {
			return true
		}
	}
	return false
}

func isBlank(nodes []*tree.Node) bool {
	for _, n := range nodes {
		switch n.Kind() {
		case tree.KindComment:
		case tree.KindText:
			if strings.TrimSpace(n.Text()) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}
