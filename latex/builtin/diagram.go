// diagram.go -
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

package builtin

import (
	"context"

	"go.uber.org/zap"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/olitheolix/nobby/latex/cache"
	"github.com/olitheolix/nobby/latex/expand"
	"github.com/olitheolix/nobby/latex/render"
	"github.com/olitheolix/nobby/latex/tree"
)

// diagram renders the contents of a d2 environment to SVG, without
// going through LaTeX.
type diagram struct {
	cache *cache.Cache
	log   *zap.SugaredLogger
}

func (d *diagram) Expand(c *expand.Context, args []*tree.Node, parent *tree.Node) ([]tree.Piece, error) {
	src := verbatimBody(parent)
	key := "d2\x00" + src

	if d.cache != nil {
		if _, data, err := d.cache.Get(key); err == nil {
			img := &render.Image{Format: render.FormatSVG, Data: data}
			return []tree.Piece{c.Image(img, false)}, nil
		}
	}

	data, err := renderD2(c.Ctx(), src)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		err = d.cache.Put(key, render.FormatSVG.Ext(), data)
		if err != nil {
			d.log.Warnw("cannot store diagram in cache", "error", err)
		}
	}
	img := &render.Image{Format: render.FormatSVG, Data: data}
	return []tree.Piece{c.Image(img, false)}, nil
}

func renderD2(ctx context.Context, src string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, err
	}
	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, src, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, err
	}
	return d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
}
