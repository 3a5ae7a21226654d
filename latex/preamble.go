// preamble.go -
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
	"regexp"
	"strconv"
	"strings"

	"rsc.io/edit"

	"github.com/olitheolix/nobby/latex/builtin"
	"github.com/olitheolix/nobby/latex/tokenizer"
	"github.com/olitheolix/nobby/latex/tree"
)

const (
	defaultTitle  = "No Title"
	defaultAuthor = "Unknown"
)

// declarations holds the information gathered from the preamble.
type declarations struct {
	// Preamble is the preamble used for rendering fragments.
	Preamble string

	Title   string
	Authors []string

	Theorems []*builtin.Theorem
	Macros   []*builtin.Macro

	// NumberWithin lists the \numberwithin{child}{parent} pairs.
	NumberWithin [][2]string
}

var fontSize = regexp.MustCompile(`^\s*\d+(\.\d+)?pt\s*$`)

// analysePreamble reads the theorem and macro definitions from the
// preamble and removes the font size option from \documentclass.
// A preamble which cannot be parsed is used unchanged, and a warning
// is logged.
func (conv *converter) analysePreamble(src string) *declarations {
	decl := &declarations{
		Preamble: src,
	}

	tok := tokenizer.NewString(conv.name, src, conv.tokOpt)
	t, err := tree.Build(tok)
	if err != nil {
		conv.log.Warnw("cannot parse preamble, definitions are ignored",
			"error", err)
		return decl
	}

	buf := edit.NewBuffer([]byte(src))
	style := "plain"
	nodes := t.Root().Body()
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if n.Kind() != tree.KindCommand {
			continue
		}
		switch n.Name() {
		case "documentclass":
			dropFontSize(buf, n)
		case "theoremstyle":
			if s := n.ArgText(0); s != "" {
				style = s
			}
		case "newtheorem", "newtheorem*":
			thm := parseTheorem(n)
			if thm == nil {
				conv.log.Warnw("malformed \\newtheorem ignored",
					"pos", n.Span().Start.String())
				continue
			}
			if decl.theorem(thm.Name) != nil {
				conv.log.Warnw("theorem environment defined twice",
					"name", thm.Name, "pos", n.Span().Start.String())
				continue
			}
			thm.Style = style
			decl.Theorems = append(decl.Theorems, thm)
		case "newcommand", "renewcommand", "providecommand",
			"newcommand*", "renewcommand*", "providecommand*":
			m, used := parseMacro(n, nodes[i+1:])
			if m == nil {
				conv.log.Warnw("malformed macro definition ignored",
					"command", n.Name(), "pos", n.Span().Start.String())
				continue
			}
			i += used
			decl.addMacro(m, strings.HasPrefix(n.Name(), "provide"))
		case "numberwithin":
			child, parent := n.ArgText(0), n.ArgText(1)
			if child != "" && parent != "" {
				decl.NumberWithin = append(decl.NumberWithin, [2]string{child, parent})
			}
		case "title":
			decl.Title = plainArg(n)
		case "author":
			decl.Authors = splitAuthors(n)
		}
	}
	decl.Preamble = buf.String()
	return decl
}

func (decl *declarations) theorem(name string) *builtin.Theorem {
	for _, thm := range decl.Theorems {
		if thm.Name == name {
			return thm
		}
	}
	return nil
}

// addMacro records a macro definition.  A later definition replaces
// an earlier one of the same name, except for \providecommand.
func (decl *declarations) addMacro(m *builtin.Macro, provide bool) {
	for i, old := range decl.Macros {
		if old.Name == m.Name {
			if !provide {
				decl.Macros[i] = m
			}
			return
		}
	}
	decl.Macros = append(decl.Macros, m)
}

// findTitle looks for \title and \author in the top level of the
// document body.  Values from the body take precedence over the
// preamble.
func (decl *declarations) findTitle(body []*tree.Node) {
	for _, n := range body {
		if n.Kind() != tree.KindCommand {
			continue
		}
		switch n.Name() {
		case "title":
			decl.Title = plainArg(n)
		case "author":
			decl.Authors = splitAuthors(n)
		}
	}
}

func (decl *declarations) title() string {
	if decl.Title == "" {
		return defaultTitle
	}
	return decl.Title
}

func (decl *declarations) authors() []string {
	if len(decl.Authors) == 0 {
		return []string{defaultAuthor}
	}
	return decl.Authors
}

// dropFontSize removes options like "12pt" from \documentclass.  Font
// sizes other than 10pt interfere with the cropping of scaled
// fragments.
func dropFontSize(buf *edit.Buffer, n *tree.Node) {
	opt := n.OptArg()
	if opt == nil {
		return
	}
	var keep []string
	changed := false
	for _, o := range strings.Split(opt.InnerSource(), ",") {
		if fontSize.MatchString(o) {
			changed = true
			continue
		}
		keep = append(keep, o)
	}
	if !changed {
		return
	}
	span := opt.Span()
	repl := ""
	if len(keep) > 0 {
		repl = "[" + strings.Join(keep, ",") + "]"
	}
	buf.Replace(span.Start.Offset, span.End.Offset, repl)
}

// parseTheorem reads the arguments of
//
//	\newtheorem{name}[counter]{Prefix}[within]
//
// Both optional arguments may be missing.
func parseTheorem(n *tree.Node) *builtin.Theorem {
	thm := &builtin.Theorem{
		Unnumbered: strings.HasSuffix(n.Name(), "*"),
	}
	mandatory := 0
	for _, arg := range n.Args() {
		text := strings.TrimSpace(arg.InnerSource())
		if arg.Name() == "[" {
			switch mandatory {
			case 1:
				thm.Counter = text
			case 2:
				thm.Within = text
			}
			continue
		}
		switch mandatory {
		case 0:
			thm.Name = text
		case 1:
			thm.Prefix = builtin.PlainText(arg.Body())
		}
		mandatory++
	}
	if mandatory < 2 || thm.Name == "" {
		return nil
	}
	return thm
}

// parseMacro reads a macro definition.  The name may be given in
// braces, \newcommand{\foo}[1]{...}, or directly, \newcommand\foo{...}.
// In the second form the tree builder attaches the remaining arguments
// to \foo, which is the next sibling.  The function returns the number
// of siblings used.
func parseMacro(n *tree.Node, next []*tree.Node) (*builtin.Macro, int) {
	args := n.Args()
	used := 0
	var name string
	if len(args) > 0 && args[0].Name() == "{" {
		name = strings.TrimSpace(args[0].InnerSource())
		args = args[1:]
	} else if len(args) == 0 && len(next) > 0 && next[0].Kind() == tree.KindCommand {
		name = "\\" + next[0].Name()
		args = next[0].Args()
		used = 1
	}
	if !strings.HasPrefix(name, "\\") || len(name) < 2 {
		return nil, 0
	}

	m := &builtin.Macro{
		Name: name[1:],
	}
	if len(args) > 0 && args[0].Name() == "[" {
		k, err := strconv.Atoi(strings.TrimSpace(args[0].InnerSource()))
		if err != nil || k < 0 || k > 9 {
			return nil, 0
		}
		m.Args = k
		args = args[1:]
	}
	if len(args) > 0 && args[0].Name() == "[" {
		def := args[0].InnerSource()
		m.Default = &def
		args = args[1:]
	}
	if len(args) != 1 || args[0].Name() != "{" {
		return nil, 0
	}
	m.Body = args[0].InnerSource()
	return m, used
}

func plainArg(n *tree.Node) string {
	arg := n.Arg(0)
	if arg == nil {
		return ""
	}
	return builtin.PlainText(arg.Body())
}

// splitAuthors splits the argument of \author at the \and commands.
func splitAuthors(n *tree.Node) []string {
	arg := n.Arg(0)
	if arg == nil {
		return nil
	}
	var res []string
	var cur []*tree.Node
	flush := func() {
		if s := builtin.PlainText(cur); s != "" {
			res = append(res, s)
		}
		cur = nil
	}
	for _, c := range arg.Body() {
		if c.Kind() == tree.KindCommand && c.Name() == "and" {
			flush()
			continue
		}
		cur = append(cur, c)
	}
	flush()
	return res
}
