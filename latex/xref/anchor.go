// anchor.go -
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

import "strconv"

// anchors allocates unique anchor ids.
type anchors struct {
	used map[string]Entry
}

// normalise turns a label into a valid anchor id.  Characters other
// than ASCII letters, digits and hyphens are replaced by hyphens, runs
// of hyphens are collapsed, and ids always start with a letter.
func normalise(label string) string {
	var chars []byte
	hyphenSeen := false
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !(isLetter(c) || isDigit(c) || c == '-') {
			c = '-'
		}
		if c == '-' && hyphenSeen {
			continue
		}
		if len(chars) == 0 && !isLetter(c) {
			chars = append(chars, 'x')
		}
		chars = append(chars, c)
		hyphenSeen = c == '-'
	}
	if len(chars) > 1 && chars[len(chars)-1] == '-' {
		chars = chars[:len(chars)-1]
	}
	if len(chars) == 0 {
		return "x"
	}
	return string(chars)
}

// alloc returns a new anchor id derived from label and records it in
// the table.  Clashes are resolved by appending a numeric suffix.
func (a *anchors) alloc(label string, e Entry) string {
	if a.used == nil {
		a.used = make(map[string]Entry)
	}
	base := normalise(label)
	res := base
	for sfx := 2; ; sfx++ {
		if _, clash := a.used[res]; !clash {
			break
		}
		res = base + "-" + strconv.Itoa(sfx)
	}
	a.used[res] = e
	return res
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
