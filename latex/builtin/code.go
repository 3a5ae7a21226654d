// code.go -
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
	"bytes"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/tree"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// verbatimBody returns the contents of a verbatim environment.  As in
// LaTeX, a line break directly after \begin{...} is ignored.
func verbatimBody(parent *tree.Node) string {
	b := &strings.Builder{}
	for _, n := range parent.Body() {
		b.WriteString(n.Source())
	}
	body := strings.TrimPrefix(b.String(), "\n")
	return strings.TrimRight(body, " \t\n")
}

func hVerbatim(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	body := html.EscapeString(verbatimBody(parent))
	return []tree.Piece{tree.Markup("<pre>" + body + "</pre>")}, nil
}

func hVerb(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	arg := parent.Arg(0)
	if arg == nil {
		return nil, errMissingArg
	}
	text := html.EscapeString(arg.InnerSource())
	if parent.Name() == "verb*" {
		text = strings.ReplaceAll(text, " ", "&#9251;")
	}
	return []tree.Piece{tree.Markup("<code>" + text + "</code>")}, nil
}

// listing handles the lstlisting and minted environments.  The code is
// highlighted according to the language given in the arguments.
type listing struct {
	style  string
	minted bool
}

func (l *listing) Expand(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	var lang string
	if l.minted {
		lang = parent.ArgText(0)
	} else if opt := parent.OptArg(); opt != nil {
		lang = listingLanguage(opt.InnerSource())
	}

	out, err := highlight(lang, verbatimBody(parent), l.style)
	if err != nil {
		return nil, err
	}
	return []tree.Piece{tree.Markup(out)}, nil
}

// listingLanguage extracts the language=... setting from the options of
// an lstlisting environment.
func listingLanguage(options string) string {
	for _, opt := range strings.Split(options, ",") {
		key, val, ok := strings.Cut(opt, "=")
		if ok && strings.TrimSpace(key) == "language" {
			val = strings.TrimSpace(val)
			// strip dialects like [Sharp]C
			if i := strings.LastIndexByte(val, ']'); i >= 0 {
				val = val[i+1:]
			}
			return strings.Trim(val, "{}")
		}
	}
	return ""
}

func highlight(lang, code, styleName string) (string, error) {
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Analyse(code)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	if styleName == "" {
		styleName = DefaultStyle
	}
	s := styles.Get(styleName)

	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))
	it, err := l.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	buf := &bytes.Buffer{}
	buf.WriteString(`<pre class="code">`)
	err = f.Format(buf, s, it)
	if err != nil {
		return "", err
	}
	buf.WriteString("</pre>")
	return buf.String(), nil
}
