// Package view renders the HTML pages and the PDF source document from
// embedded pongo2 templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"
)

const (
	FormTemplate   = "form.html"
	ResultTemplate = "result.html"
	PDFTemplate    = "pdf_template.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Data is the variable mapping passed to a template.
type Data = pongo2.Context

type Renderer struct {
	set *pongo2.TemplateSet
}

// NewRenderer loads the embedded templates and parses each one up front so
// syntax errors surface at startup.
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(templatesFS, "templates")
}

// NewRendererFS builds a renderer over any fs.FS rooted at root.
func NewRendererFS(fsys fs.FS, root string) (*Renderer, error) {
	set := pongo2.NewSet("coldreach", fsLoader{fsys: fsys, root: root})
	r := &Renderer{set: set}
	for _, name := range []string{FormTemplate, ResultTemplate, PDFTemplate} {
		if _, err := set.FromCache(name); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return r, nil
}

// Render executes the named template into w.
func (r *Renderer) Render(w io.Writer, name string, data Data) error {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}
	if err := tpl.ExecuteWriter(data, w); err != nil {
		return fmt.Errorf("render template %s: %w", name, err)
	}
	return nil
}

// RenderBytes executes the named template into memory.
func (r *Renderer) RenderBytes(name string, data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fsLoader implements pongo2.TemplateLoader over an fs.FS.
type fsLoader struct {
	fsys fs.FS
	root string
}

func (l fsLoader) Abs(base, name string) string {
	if strings.HasPrefix(name, l.root+"/") {
		return path.Clean(name)
	}
	return path.Join(l.root, name)
}

func (l fsLoader) Get(p string) (io.Reader, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
