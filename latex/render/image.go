// image.go -
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

package render

import (
	"fmt"

	"github.com/olitheolix/nobby/latex/scanner"
)

// ImageFormat describes the file format of a rendered fragment.
type ImageFormat int

// These are the image formats produced by the renderers.
const (
	FormatSVG ImageFormat = iota
	FormatPNG
)

// Ext returns the file name extension for the format.
func (f ImageFormat) Ext() string {
	switch f {
	case FormatSVG:
		return ".svg"
	case FormatPNG:
		return ".png"
	}
	panic(fmt.Sprintf("unknown image format %d", int(f)))
}

// MimeType returns the MIME type for the format.
func (f ImageFormat) MimeType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	}
	panic(fmt.Sprintf("unknown image format %d", int(f)))
}

// Image is a rendered fragment.
type Image struct {
	Format ImageFormat
	Data   []byte

	// Path is the location of the image relative to the output
	// document.  It is set when the image is written.
	Path string
}

// Counter is the value of a LaTeX counter just before a fragment.
type Counter struct {
	Name  string
	Value int
}

// LabelDef gives the printed form of a label referenced inside a
// fragment.
type LabelDef struct {
	Label  string
	Number string
}

// Fragment is a self-contained piece of LaTeX source which is rendered
// into an image, independently of all other fragments.
type Fragment struct {
	ID     int
	Source string
	Inline bool
	Span   scanner.Span

	// Counters and Labels let the isolated LaTeX run number things
	// the same way as the whole document would.
	Counters []Counter
	Labels   []LabelDef

	// Refs lists the labels referenced inside the fragment.
	Refs []string
}

// Options control the conversion of fragments into images.
type Options struct {
	// Scale is applied uniformly to the rendered fragment, so that it
	// visually matches the surrounding body text.
	Scale float64

	// RasterThreshold is the SVG size in bytes above which a raster
	// image is tried instead.  Zero disables raster output.
	RasterThreshold int64
}
