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

package xref

import (
	"fmt"

	"github.com/olitheolix/nobby/latex/scanner"
)

// DuplicateLabelError is returned when a label is defined twice.
type DuplicateLabelError struct {
	Label  string
	First  scanner.Span
	Second scanner.Span
}

func (err *DuplicateLabelError) Error() string {
	return fmt.Sprintf("%s: label %q already defined at %s",
		err.Second.Start, err.Label, err.First.Start)
}

// UnresolvedLabelError is returned for references to undefined labels.
type UnresolvedLabelError struct {
	Label string
	Span  scanner.Span
}

func (err *UnresolvedLabelError) Error() string {
	if err.Span.End.Offset > 0 {
		return fmt.Sprintf("%s: undefined label %q", err.Span.Start, err.Label)
	}
	return fmt.Sprintf("undefined label %q", err.Label)
}
