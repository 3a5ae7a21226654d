// counter.go -
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

package xref

import (
	"strconv"
	"strings"
)

// SecNo is the number of a section, e.g. 3.1.2 for the second
// subsection of the first section in chapter 3.
type SecNo []int

func (sec SecNo) String() string {
	var parts []string
	for _, no := range sec {
		parts = append(parts, strconv.Itoa(no))
	}
	return strings.Join(parts, ".")
}

// Inc increments the section number at the given level.  Level 1 is
// the top level.  All lower levels are reset.
func (sec SecNo) Inc(level int) SecNo {
	for len(sec) < level {
		sec = append(sec, 0)
	}
	sec = sec[:level]
	sec[level-1]++
	return sec
}

// Get returns the number at the given level, or 0.
func (sec SecNo) Get(level int) int {
	if level < 1 || level > len(sec) {
		return 0
	}
	return sec[level-1]
}

// counter is a LaTeX counter.  Counters with a parent are reset
// whenever the parent is stepped, and are printed with the number of
// the parent as a prefix.
type counter struct {
	Name   string
	Value  int
	Parent string
	Prefix string
}

func (c *counter) Inc() string {
	c.Value++
	return c.String()
}

func (c *counter) String() string {
	return c.Prefix + strconv.Itoa(c.Value)
}

// sectionLevels gives the nesting depth of the numbered sectioning
// commands.
var sectionLevels = map[string]int{
	"section":       1,
	"subsection":    2,
	"subsubsection": 3,
}

func sectionName(level int) string {
	for name, l := range sectionLevels {
		if l == level {
			return name
		}
	}
	return ""
}
