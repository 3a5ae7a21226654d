// renderer.go -
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

package render

import (
	"context"
)

// Renderer converts a single fragment into an image.  Implementations
// must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, preamble string, frag *Fragment, opt *Options) (*Image, error)
}

// RendererFunc adapts an ordinary function to the Renderer interface.
type RendererFunc func(ctx context.Context, preamble string, frag *Fragment, opt *Options) (*Image, error)

// Render calls f(ctx, preamble, frag, opt).
func (f RendererFunc) Render(ctx context.Context, preamble string, frag *Fragment, opt *Options) (*Image, error) {
	return f(ctx, preamble, frag, opt)
}
