// tex.go -
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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"text/template"

	"go.uber.org/zap"
)

// DefaultResolution is the raster resolution in pixels per inch.
const DefaultResolution = 120

// emptySVG is used for fragments which produce no visible output,
// for example a lone \label.
const emptySVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="1pt" height="1pt" viewBox="0 0 1 1"/>
`

// TeX renders fragments by running pdflatex.  The PDF output is cropped
// with pdfcrop and converted to SVG with pdf2svg.  Large SVG files are
// additionally converted to PNG with Ghostscript, and the smaller of
// the two files is kept.
type TeX struct {
	// WorkDir is the directory where the build directories of the
	// individual fragments are created.  If empty, the default
	// directory for temporary files is used.
	WorkDir string

	// KeepFiles disables the removal of the build directories.
	KeepFiles bool

	// TextWidth, if set, is used as the LaTeX \textwidth.
	TextWidth string

	// Resolution of raster images in pixels per inch.
	Resolution int

	Log *zap.SugaredLogger
}

// Tools lists the external programs used by the TeX renderer.
var Tools = []string{"pdflatex", "pdfcrop", "pdf2svg", "gs"}

// CheckTools verifies that all external programs needed for rendering
// are installed.
func CheckTools() error {
	var missing []string
	for _, tool := range Tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrMissingTool, missing)
	}
	return nil
}

// ErrMissingTool indicates that an external program is not installed.
var ErrMissingTool = errors.New("missing external program")

// ToolError reports a failed run of an external program.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (err *ToolError) Error() string {
	msg := err.Tool + " failed: " + err.Err.Error()
	if err.Output != "" {
		msg += "\n--- begin " + err.Tool + " output ---\n" + err.Output +
			"\n--- end " + err.Tool + " output ---"
	}
	return msg
}

func (err *ToolError) Unwrap() error {
	return err.Err
}

// Render implements the Renderer interface.
func (r *TeX) Render(ctx context.Context, preamble string, frag *Fragment, opt *Options) (img *Image, err error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	jobDir, err := os.MkdirTemp(r.WorkDir, "fragment-"+strconv.Itoa(frag.ID)+"-")
	if err != nil {
		return nil, err
	}
	if r.KeepFiles {
		log.Debugw("keeping build directory", "id", frag.ID, "dir", jobDir)
	} else {
		defer func() {
			e2 := os.RemoveAll(jobDir)
			if err == nil {
				err = e2
			}
		}()
	}

	err = r.writeTeX(filepath.Join(jobDir, "job.tex"), preamble, frag, opt)
	if err != nil {
		return nil, err
	}

	err = run(ctx, jobDir, "pdflatex",
		"-interaction=nonstopmode", "-halt-on-error", "job.tex")
	if err != nil {
		return nil, err
	}

	err = run(ctx, jobDir, "pdfcrop", "--hires", "job.pdf", "crop.pdf")
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if _, statErr := os.Stat(filepath.Join(jobDir, "crop.pdf")); statErr != nil {
		// pdfcrop writes no output for an empty page
		log.Debugw("empty fragment", "id", frag.ID, "error", err)
		return &Image{Format: FormatSVG, Data: []byte(emptySVG)}, nil
	} else if err != nil {
		return nil, err
	}

	err = run(ctx, jobDir, "pdf2svg", "crop.pdf", "out.svg")
	if err != nil {
		return nil, err
	}
	svg, err := os.ReadFile(filepath.Join(jobDir, "out.svg"))
	if err != nil {
		return nil, err
	}
	img = &Image{Format: FormatSVG, Data: svg}

	if opt == nil || opt.RasterThreshold <= 0 || int64(len(svg)) <= opt.RasterThreshold {
		return img, nil
	}

	res := r.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	err = run(ctx, jobDir, "gs", "-dSAFER", "-dBATCH", "-dNOPAUSE",
		"-sDEVICE=pngalpha", "-dTextAlphaBits=4", "-dGraphicsAlphaBits=4",
		"-r"+strconv.Itoa(res), "-sOutputFile=out.png", "crop.pdf")
	if err != nil {
		return nil, err
	}
	png, err := os.ReadFile(filepath.Join(jobDir, "out.png"))
	if err != nil {
		return nil, err
	}
	log.Debugw("SVG above raster threshold",
		"id", frag.ID, "svg", len(svg), "png", len(png))
	if len(png) < len(svg) {
		img = &Image{Format: FormatPNG, Data: png}
	}
	return img, nil
}

func (r *TeX) writeTeX(fileName, preamble string, frag *Fragment, opt *Options) error {
	scale := 1.0
	if opt != nil && opt.Scale > 0 {
		scale = opt.Scale
	}
	data := map[string]interface{}{
		"Preamble":  preamble,
		"TextWidth": r.TextWidth,
		"Labels":    frag.Labels,
		"Counters":  frag.Counters,
		"Scale":     scale,
		"Source":    frag.Source,
	}

	texFile, err := os.Create(fileName)
	if err != nil {
		return err
	}
	err = texTemplate.Execute(texFile, data)
	e2 := texFile.Close()
	if err == nil {
		err = e2
	}
	return err
}

func run(ctx context.Context, dir string, tool string, args ...string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ToolError{
			Tool:   tool,
			Output: string(tail(output, 40)),
			Err:    err,
		}
	}
	return nil
}

// tail returns the last n lines of the output.
func tail(output []byte, n int) []byte {
	output = bytes.TrimRight(output, "\n")
	if len(output) == 0 {
		return output
	}
	pos := len(output)
	for i := 0; i < n && pos > 0; i++ {
		pos = bytes.LastIndexByte(output[:pos], '\n')
		if pos < 0 {
			return output
		}
	}
	return output[pos+1:]
}

// The template uses << >> as delimiters, since LaTeX needs the braces.
var texTemplate = template.Must(template.New("tex").Delims("<<", ">>").Parse(
	`<<.Preamble>>
\pagestyle{empty}
\addtolength{\paperwidth}{20cm}
\addtolength{\paperheight}{20cm}
\pdfpagewidth=\paperwidth
\pdfpageheight=\paperheight
<<if .TextWidth>>\setlength{\textwidth}{<<.TextWidth>>}
<<end>>\makeatletter
<<range .Labels>>\newlabel{<<.Label>>}{{<<.Number>>}{}{}{}{}}
<<end>>\makeatother
\begin{document}
<<range .Counters>>\setcounter{<<.Name>>}{<<.Value>>}
<<end>>\pdfsetmatrix{<<printf "%.4g" .Scale>> 0 0 <<printf "%.4g" .Scale>>}%
<<.Source>>
\end{document}
`))
