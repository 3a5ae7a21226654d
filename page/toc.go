// toc.go -
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
	"github.com/olitheolix/nobby/latex/expand"
)

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Level  int
	Number string
	Title  string
	ID     string

	up, down int
}

// Up returns one element for every list opened before the entry.
func (t *TOCEntry) Up() []struct{} {
	return make([]struct{}, t.up)
}

// Down returns one element for every list closed after the entry.
func (t *TOCEntry) Down() []struct{} {
	return make([]struct{}, t.down)
}

// makeTOC arranges the headings of a document into nested lists.  The
// outermost headings are at level 1, and a heading is never more than
// one level below its predecessor.
func makeTOC(headings []expand.Heading) []TOCEntry {
	if len(headings) == 0 {
		return nil
	}
	top := headings[0].Level
	for _, h := range headings {
		if h.Level < top {
			top = h.Level
		}
	}

	res := make([]TOCEntry, 0, len(headings))
	prev := 0
	for _, h := range headings {
		level := h.Level - top + 1
		if level > prev+1 {
			level = prev + 1
		}
		var up int
		if level > prev {
			up = level - prev
		}
		if k := len(res) - 1; k >= 0 && level < prev {
			res[k].down = prev - level
		}
		res = append(res, TOCEntry{
			Level:  level,
			Number: h.Number,
			Title:  h.Title,
			ID:     h.Anchor,
			up:     up,
		})
		prev = level
	}
	res[len(res)-1].down = prev
	return res
}
