// template.go -
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

package page

import (
	"io"
	"strings"
	"text/template"
)

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<!--
 Converted with {{.Generator}}
 Source: {{comment .Source}}
 Title: {{comment .Title}}
 Author: {{comment (formatlist .Authors)}}
 Date: {{.Date}}
-->
<html lang="{{.Language}}">
<head>
{{template "head" .}}
</head>
<body>
{{if .TOC}}{{template "toc" .}}
{{end}}{{.Body}}
</body>
</html>
{{end}}`

const headTemplate = `{{define "head"}}<meta charset="utf-8">
<meta name="identifier" content="{{.ID}}">
<meta name="author" content="{{formatlist .Authors | html}}">
<meta name="generator" content="{{.Generator}}">
<title>{{.Title | html}}</title>{{end}}`

const tocTemplate = `{{define "toc"}}<nav class="latex-toc">
{{range .TOC}}{{range .Up}}<ul>
{{end}}<li><a href="#{{.ID}}">{{if .Number}}{{.Number}} {{end}}{{.Title | html}}</a></li>
{{range .Down}}</ul>
{{end}}{{end}}</nav>{{end}}`

func templateFormatList(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	}

	var parts []string
	for i, part := range list {
		parts = append(parts, part)
		if i < len(list)-2 {
			parts = append(parts, ", ")
		} else if i < len(list)-1 {
			parts = append(parts, " and ")
		}
	}
	return strings.Join(parts, "")
}

// templateComment makes s safe for use inside an HTML comment.
func templateComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}

var templateFunctions = template.FuncMap{
	"formatlist": templateFormatList,
	"comment":    templateComment,
}

func loadTemplates(custom string) (*template.Template, error) {
	res := template.New("root").Funcs(templateFunctions)
	for _, text := range []string{pageTemplate, headTemplate, tocTemplate, custom} {
		if text == "" {
			continue
		}
		_, err := res.Parse(text)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func writeTemplate(w io.Writer, custom string, p *Page) error {
	tmpl, err := loadTemplates(custom)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "page", p)
}
