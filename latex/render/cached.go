// cached.go -
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
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/olitheolix/nobby/latex/cache"
)

// Cached wraps a Renderer with a disk cache.  Fragments which have
// been rendered before with the same preamble, counters, labels and
// options are read from the cache instead.
type Cached struct {
	Renderer Renderer
	Cache    *cache.Cache
	Log      *zap.SugaredLogger
}

// Render implements the Renderer interface.
func (r *Cached) Render(ctx context.Context, preamble string, frag *Fragment, opt *Options) (*Image, error) {
	key := Key(preamble, frag, opt)
	ext, data, err := r.Cache.Get(key)
	if err == nil {
		format := FormatSVG
		if ext == FormatPNG.Ext() {
			format = FormatPNG
		}
		return &Image{Format: format, Data: data}, nil
	}

	img, err := r.Renderer.Render(ctx, preamble, frag, opt)
	if err != nil {
		return nil, err
	}
	err = r.Cache.Put(key, img.Format.Ext(), img.Data)
	if err != nil && r.Log != nil {
		r.Log.Warnw("cannot store fragment in cache", "id", frag.ID, "error", err)
	}
	return img, nil
}

// Key returns the cache key for rendering frag with the given preamble
// and options.  Everything which influences the image is part of the
// key; the fragment ID and source position are not.
func Key(preamble string, frag *Fragment, opt *Options) string {
	var parts []string
	parts = append(parts, preamble, frag.Source, strconv.FormatBool(frag.Inline))
	for _, c := range frag.Counters {
		parts = append(parts, c.Name+"="+strconv.Itoa(c.Value))
	}
	for _, l := range frag.Labels {
		parts = append(parts, l.Label+"->"+l.Number)
	}
	if opt != nil {
		parts = append(parts,
			strconv.FormatFloat(opt.Scale, 'g', -1, 64),
			strconv.FormatInt(opt.RasterThreshold, 10))
	}
	return strings.Join(parts, "\x00")
}
