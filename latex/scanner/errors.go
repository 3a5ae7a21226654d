// errors.go -
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

package scanner

import (
	"fmt"
	"strconv"
	"strings"
)

// StructuralError reports malformed nesting or escaping in the input,
// for example an unterminated group or a mismatched \end.
type StructuralError struct {
	Message string
	Name    string
	Pos     Pos
	Context string
}

func (err *StructuralError) Error() string {
	res := []string{err.Message, "\n    "}
	if err.Name != "" {
		res = append(res, err.Name, ", ")
	}
	res = append(res, "line ", strconv.Itoa(err.Pos.Line),
		", column ", strconv.Itoa(err.Pos.Col))
	if err.Context != "" {
		res = append(res, fmt.Sprintf(", before %q", err.Context))
	}
	return strings.Join(res, "")
}
