// builtin.go -
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

// Package builtin provides the handlers for the LaTeX constructs which
// are converted to HTML directly, instead of being rendered as images.
package builtin

import (
	"go.uber.org/zap"

	"github.com/olitheolix/nobby/latex/cache"
	"github.com/olitheolix/nobby/latex/expand"
)

// Options control the built-in handlers.
type Options struct {
	// HighlightStyle is the chroma style used for code listings.
	HighlightStyle string

	// Theorems lists the theorem-like environments declared in the
	// preamble.
	Theorems []*Theorem

	// Macros lists the macros defined in the preamble.
	Macros []*Macro

	// Cache, if set, stores the output of the d2 diagram renderer.
	Cache *cache.Cache

	Logger *zap.SugaredLogger
}

const noBreakSpace = "&nbsp;"

// Register installs all built-in handlers in reg.
func Register(reg *expand.Registry, opt *Options) error {
	if opt == nil {
		opt = &Options{}
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	handlers := map[string]expand.Handler{
		// lists
		"itemize":     expand.Wrap{Before: "<ul>", After: "</ul>"},
		"enumerate":   expand.Wrap{Before: "<ol>", After: "</ol>"},
		"description": expand.Wrap{Before: "<dl>", After: "</dl>"},
		"item":        expand.Func(hItem),

		// sectioning
		"chapter":        heading(1),
		"chapter*":       heading(1),
		"section":        heading(2),
		"section*":       heading(2),
		"subsection":     heading(3),
		"subsection*":    heading(3),
		"subsubsection":  heading(4),
		"subsubsection*": heading(4),
		"paragraph":      expand.Wrap{Before: "<p><b>", After: "</b>" + noBreakSpace},

		// cross references
		"label":    expand.Func(hLabel),
		"ref":      refHandler("ref"),
		"pageref":  refHandler("ref"),
		"eqref":    refHandler("eqref"),
		"hyperref": expand.Func(hHyperref),
		"href":     expand.Func(hHref),
		"url":      expand.Func(hURL),

		// code
		"verbatim":   expand.Func(hVerbatim),
		"verbatim*":  expand.Func(hVerbatim),
		"verb":       expand.Func(hVerb),
		"verb*":      expand.Func(hVerb),
		"lstlisting": &listing{style: opt.HighlightStyle},
		"minted":     &listing{style: opt.HighlightStyle, minted: true},
		"d2":         &diagram{cache: opt.Cache, log: log},

		// layout
		"quote":     expand.Wrap{Before: "<blockquote>", After: "</blockquote>"},
		"quotation": expand.Wrap{Before: "<blockquote>", After: "</blockquote>"},
		"center":    expand.Wrap{Before: `<div align="center">`, After: "</div>"},
		"proof":     expand.Wrap{Before: `<div class="proof"><i>Proof.</i> `, After: " &#8718;</div>"},
		"newpage":   expand.Subst("<p>"),
		"\\":        expand.Subst("<br>"),

		// dropped
		"maketitle": expand.Ignore{KeepContents: true},
		"noindent":  expand.Ignore{KeepContents: true},
		"centering": expand.Ignore{KeepContents: true},
		"footnote":  expand.Drop,
		"rule":      expand.Drop,
		"comment":   expand.Drop,
		"title":     expand.Drop,
		"author":    expand.Drop,
		"date":      expand.Drop,
		"vspace":    expand.Drop,
		"hspace":    expand.Drop,
	}
	for name, tag := range map[string]string{
		"emph":      "em",
		"textit":    "i",
		"textbf":    "b",
		"texttt":    "code",
		"underline": "u",
		"textsc":    "small",
	} {
		handlers[name] = expand.Tag(tag)
	}
	for name, out := range map[string]string{
		"ldots":         "...",
		"dots":          "...",
		"LaTeX":         "LaTeX",
		"TeX":           "TeX",
		"textbackslash": "\\",
		",":             "&thinsp;",
		";":             " ",
		":":             " ",
		"!":             "",
		"/":             "",
		"-":             "",
		"@":             "",
	} {
		handlers[name] = expand.Subst(out)
	}

	// Definitions from the document take precedence over the
	// built-in handlers.
	for _, thm := range opt.Theorems {
		err := reg.Register(thm.Name, thm)
		if err != nil {
			return err
		}
	}
	for _, m := range opt.Macros {
		err := reg.Register(m.Name, m)
		if err != nil {
			return err
		}
	}
	for name, h := range handlers {
		if reg.Lookup(name) != nil {
			log.Debugw("built-in handler overridden", "name", name)
			continue
		}
		err := reg.Register(name, h)
		if err != nil {
			return err
		}
	}
	return nil
}
