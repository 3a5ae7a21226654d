// page.go -
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

// Package page writes converted documents as stand-alone HTML pages,
// together with their image files.
package page

import (
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olitheolix/nobby/latex"
)

const (
	baseNameSpaceURL = "https://github.com/olitheolix/nobby/"

	// DefaultPageName is the file name of the HTML page.
	DefaultPageName = "index.html"

	generator = "nobby, https://github.com/olitheolix/nobby"
)

var (
	ErrBadPath   = errors.New("image path outside the output directory")
	ErrNoImage   = errors.New("image has no path")
	ErrNoContent = errors.New("no document to write")
)

// Options control the layout of the page.
type Options struct {
	// PageName is the file name of the HTML page.  If empty,
	// DefaultPageName is used.
	PageName string

	// Template, if set, is parsed after the built-in templates.  It
	// can redefine the "page" template and any of its parts.
	Template string

	// TOC adds a table of contents to the page.
	TOC bool

	Language string

	// PublishPrefix, if set, is prepended to the image sources and to
	// local links which are not page anchors, for pages which are
	// served from a different location than their images.
	PublishPrefix string

	// Date is shown in the page header.  If zero, the current time is
	// used.
	Date time.Time

	Logger *zap.SugaredLogger
}

// Page is the data available to the page templates.
type Page struct {
	ID       string
	Title    string
	Authors  []string
	Language string
	Date     string
	Source   string

	Generator string
	TOC       []TOCEntry
	Body      string
}

// Writer writes converted documents.
type Writer struct {
	drv driver
	opt *Options
	log *zap.SugaredLogger
}

// NewDirWriter returns a Writer which stores the page and its images in
// the directory baseDir.  The directory is created if needed.
func NewDirWriter(baseDir string, opt *Options) *Writer {
	return newWriter(&dirDriver{BaseDir: baseDir}, opt)
}

func newWriter(drv driver, opt *Options) *Writer {
	if opt == nil {
		opt = &Options{}
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Writer{
		drv: drv,
		opt: opt,
		log: log,
	}
}

// Identifier returns the URN which identifies the page converted from
// the given source.  The same source always gives the same identifier.
func Identifier(source string) string {
	nameSpace := uuid.NewSHA1(uuid.NameSpaceURL, []byte(baseNameSpaceURL))
	return "urn:uuid:" + uuid.NewSHA1(nameSpace, []byte(source)).String()
}

// Write stores the page for doc, followed by all its images.
func (w *Writer) Write(doc *latex.Output) error {
	if doc == nil {
		return ErrNoContent
	}

	body := doc.Body
	if w.opt.PublishPrefix != "" {
		var err error
		body, err = Publish(body, w.opt.PublishPrefix)
		if err != nil {
			return err
		}
	}

	date := w.opt.Date
	if date.IsZero() {
		date = time.Now()
	}
	lang := w.opt.Language
	if lang == "" {
		lang = "en"
	}
	p := &Page{
		ID:        Identifier(doc.Name),
		Title:     doc.Title,
		Authors:   doc.Authors,
		Language:  lang,
		Date:      date.UTC().Format(time.RFC3339),
		Source:    doc.Name,
		Generator: generator,
		Body:      body,
	}
	if w.opt.TOC {
		p.TOC = makeTOC(doc.Headings)
	}

	name := w.opt.PageName
	if name == "" {
		name = DefaultPageName
	}
	n, err := w.writeFile(name, func(out io.Writer) error {
		return writeTemplate(out, w.opt.Template, p)
	})
	if err != nil {
		return err
	}
	w.log.Infow("page written", "file", name, "size", humanize.Bytes(uint64(n)))

	var total int64
	for _, img := range doc.Images {
		if img.Path == "" {
			return ErrNoImage
		}
		if !isLocal(img.Path) {
			return ErrBadPath
		}
		n, err := w.writeFile(img.Path, func(out io.Writer) error {
			_, err := out.Write(img.Data)
			return err
		})
		if err != nil {
			return err
		}
		total += n
	}
	if len(doc.Images) > 0 {
		w.log.Infow("images written", "count", len(doc.Images),
			"size", humanize.Bytes(uint64(total)))
	}
	return nil
}

// writeFile creates a file through the driver and calls fill to write
// the contents.  The return value is the number of bytes written.
func (w *Writer) writeFile(name string, fill func(io.Writer) error) (n int64, err error) {
	out, err := w.drv.Create(name)
	if err != nil {
		return 0, err
	}
	defer func() {
		e2 := out.Close()
		if err == nil {
			err = e2
		}
	}()

	cw := &countingWriter{w: out}
	err = fill(cw)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// isLocal reports whether the slash separated path p stays inside the
// output directory.
func isLocal(p string) bool {
	if path.IsAbs(p) {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
