// images.go -
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

package latex

import (
	"fmt"
	"path"

	"github.com/olitheolix/nobby/latex/render"
)

// DefaultImagePrefix is the first part of the image file names.
const DefaultImagePrefix = "nobby"

// imagePath returns the path of the k-th image of a document, relative
// to the HTML page.  Names have the form "nobby-000001.svg".
func imagePath(opt *AssembleOptions, k int, format render.ImageFormat) string {
	prefix := opt.ImagePrefix
	if prefix == "" {
		prefix = DefaultImagePrefix
	}
	name := fmt.Sprintf("%s-%06d%s", prefix, k, format.Ext())
	if opt.ImageDir == "" {
		return name
	}
	return path.Join(opt.ImageDir, name)
}
