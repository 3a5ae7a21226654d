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

package expand

import (
	"errors"
	"fmt"

	"github.com/olitheolix/nobby/latex/scanner"
)

var (
	// ErrDuplicateHandler is returned when a second handler is
	// registered for the same name.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrFrozen is returned when a handler is registered after the
	// registry was frozen.
	ErrFrozen = errors.New("handler registry is frozen")

	// ErrSelfExpansion is returned when a handler returns the node it
	// was asked to expand.
	ErrSelfExpansion = errors.New("handler returned its own node")

	// ErrNoRenderer is returned when fragments need rendering but no
	// renderer was configured.
	ErrNoRenderer = errors.New("no fragment renderer configured")
)

// ExpansionDivergedError is returned when the expansion does not reach
// a fixed point within the configured number of steps.
type ExpansionDivergedError struct {
	Steps int
	Name  string
	Span  scanner.Span
}

func (err *ExpansionDivergedError) Error() string {
	return fmt.Sprintf("%s: expansion did not terminate after %d steps (at %q)",
		err.Span.Start, err.Steps, err.Name)
}

// RenderError describes a fragment which could not be rendered.
type RenderError struct {
	Span   scanner.Span
	Source string
	Err    error
}

func (err *RenderError) Error() string {
	src := err.Source
	if len(src) > 40 {
		src = src[:37] + "..."
	}
	return fmt.Sprintf("%s: cannot render %q: %s", err.Span.Start, src, err.Err)
}

func (err *RenderError) Unwrap() error {
	return err.Err
}
