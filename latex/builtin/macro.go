// macro.go -
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
	"strconv"
	"strings"

	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/tree"
)

// Macro is a command defined with \newcommand or \renewcommand.
type Macro struct {
	Name string

	// Args is the number of arguments, including the optional one.
	Args int

	// Default is the default value of the optional first argument.
	// If nil, all arguments are mandatory.
	Default *string

	// Body is the replacement text, with #1, #2, ... standing for the
	// arguments.
	Body string
}

// Expand implements the expand.Handler interface.  The replacement text
// is parsed and expanded again, so macros may use other macros.
func (m *Macro) Expand(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	var values []string
	rest := args
	if m.Default != nil && m.Args > 0 {
		if len(rest) > 0 && rest[0].Name() == "[" {
			values = append(values, rest[0].InnerSource())
			rest = rest[1:]
		} else {
			values = append(values, *m.Default)
		}
	}
	for len(values) < m.Args {
		if len(rest) == 0 || rest[0].Name() != "{" {
			c.Log.Warnw("missing macro argument",
				"macro", m.Name, "pos", parent.Span().Start.String())
			values = append(values, "")
			continue
		}
		values = append(values, rest[0].InnerSource())
		rest = rest[1:]
	}

	nodes, err := c.Parse(m.substitute(values))
	if err != nil {
		return nil, err
	}
	// groups which were not consumed as arguments are kept
	return []tree.Piece{tree.Nodes(nodes), tree.Nodes(rest)}, nil
}

func (m *Macro) substitute(values []string) string {
	if len(values) == 0 {
		return m.Body
	}
	pairs := []string{"##", "#"}
	for i, val := range values {
		pairs = append(pairs, "#"+strconv.Itoa(i+1), val)
	}
	return strings.NewReplacer(pairs...).Replace(m.Body)
}
