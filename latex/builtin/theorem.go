// theorem.go -
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
	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/tree"
)

// Theorem is a theorem-like environment declared with \newtheorem.
type Theorem struct {
	Name string

	// Counter is the name of the counter shared with another theorem
	// environment, or empty.
	Counter string

	// Prefix is the printed name, e.g. "Lemma".
	Prefix string

	// Within names the counter which resets the theorem counter, as in
	// \newtheorem{theorem}{Theorem}[section].
	Within string

	// Style is the amsthm style active at the declaration.
	Style string

	// Unnumbered is set for \newtheorem*.
	Unnumbered bool
}

// Expand implements the expand.Handler interface.
func (thm *Theorem) Expand(c *expand.Context, body []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	style := thm.Style
	if style == "" {
		style = "plain"
	}
	start := `<div class="amsthm-` + style + `"`
	head := thm.Prefix
	if t := c.Target; t != nil {
		start += ` id="` + t.Anchor + `"`
		head += noBreakSpace + t.Number
	}
	start += "><b>" + head

	res := []tree.Piece{tree.Markup(start)}
	if note := parent.OptArg(); note != nil {
		res = append(res, tree.Markup(" ("), tree.Nodes(note.Body()), tree.Markup(")"))
	}
	res = append(res,
		tree.Markup(".</b> "),
		tree.Nodes(body),
		tree.Markup("</div>"))
	return res, nil
}
