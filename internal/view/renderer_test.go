package view_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/unclebandit/coldreach/internal/view"
)

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	r, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestFormRendersErrorAndValues(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	err := r.Render(&buf, view.FormTemplate, view.Data{
		"error":           "Invalid or expired license key.",
		"niche":           "SaaS founders",
		"offer":           "free audit call",
		"license_enabled": true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Invalid or expired license key.", `value="SaaS founders"`, `name="license_key"`, `action="/generate"`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in form html", want)
		}
	}
}

func TestFormHidesLicenseFieldWhenDisabled(t *testing.T) {
	r := newRenderer(t)

	html, err := r.RenderBytes(view.FormTemplate, view.Data{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if bytes.Contains(html, []byte(`name="license_key"`)) {
		t.Errorf("expected no license field")
	}
	if bytes.Contains(html, []byte(`class="alert"`)) {
		t.Errorf("expected no alert without error")
	}
}

func TestResultEscapesContent(t *testing.T) {
	r := newRenderer(t)

	html, err := r.RenderBytes(view.ResultTemplate, view.Data{
		"niche":   "SaaS founders",
		"offer":   "free audit call",
		"content": "Subject: <script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	out := string(html)
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Errorf("expected llm content to be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag in output")
	}
	if !strings.Contains(out, "SaaS founders") || !strings.Contains(out, "free audit call") {
		t.Errorf("expected niche and offer echoed")
	}
	if !strings.Contains(out, `action="/download-pdf"`) {
		t.Errorf("expected download form")
	}
}

func TestPDFTemplate(t *testing.T) {
	r := newRenderer(t)

	html, err := r.RenderBytes(view.PDFTemplate, view.Data{
		"niche":        "dentists",
		"offer":        "SEO audit",
		"content":      "Email 1",
		"generated_at": "2026-10-18",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"dentists", "SEO audit", "Email 1", "2026-10-18"} {
		if !bytes.Contains(html, []byte(want)) {
			t.Errorf("expected %q in pdf html", want)
		}
	}
}

func TestNewRendererFSReportsMissingTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/form.html": &fstest.MapFile{Data: []byte("form")},
	}
	if _, err := view.NewRendererFS(fsys, "tpl"); err == nil {
		t.Fatalf("expected error for missing templates")
	}
}
