// internal/view/render.go
//
// Central view engine: template lookup, override chain, and func-map
// injection.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML.
//
// Lookup precedence (first hit wins):
//   1. <root>/web/templates/<tpl>.html   (site override on disk)
//   2. web/templates/<tpl>.html          (embedded in the binary)
//
// Every template in the winning directory is parsed as one set, so
// sub-templates ({{ template "toast" . }}) resolve across files.  Sets are
// parsed once at New; restart to pick up disk overrides.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/yanizio/landing/internal/requestinfo"
)

// Engine holds one parsed template set.  Safe for concurrent use.
type Engine struct {
	t *template.Template
}

// New parses templates/*.html from the embedded fsys, then lets any file of
// the same name under <root>/web/templates replace its embedded twin.
func New(fsys fs.FS, root string) (*Engine, error) {
	t := template.New("").Funcs(FuncMap())

	t, err := t.ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse embedded: %w", err)
	}

	if root != "" {
		override := filepath.Join(root, "web", "templates")
		if matches, _ := filepath.Glob(filepath.Join(override, "*.html")); len(matches) > 0 {
			if t, err = t.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("view: parse overrides: %w", err)
			}
		}
	}
	return &Engine{t: t}, nil
}

// Render executes the named template and streams it to w.  Output is
// buffered so a failing template never sends a half page.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data any) error {
	out, err := e.RenderToString(name, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write([]byte(out))
	return err
}

// RenderToString executes and returns HTML.
func (e *Engine) RenderToString(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.t.ExecuteTemplate(&buf, execName(e.t, name), data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// func-map builders
//

// FuncMap returns the helpers every template can call.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict":  dict,
		"lower": strings.ToLower,
		// request-info helpers; all tolerate a nil *RequestInfo
		"browser": func(i *requestinfo.RequestInfo) string { return ua(i).Browser },
		"os":      func(i *requestinfo.RequestInfo) string { return ua(i).OS },
		"device": func(i *requestinfo.RequestInfo) string {
			if d := ua(i).Device; d != "" {
				return d
			}
			return "Other"
		},
		"isBot": func(i *requestinfo.RequestInfo) bool { return ua(i).IsBot },
	}
}

//
// helpers
//

// execName prefers a {{ define "<name>" }} root, falling back to the file
// template "<name>.html".
func execName(t *template.Template, name string) string {
	if t.Lookup(name) != nil {
		return name
	}
	return name + ".html"
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

func ua(i *requestinfo.RequestInfo) requestinfo.UA {
	if i == nil {
		return requestinfo.UA{}
	}
	return i.UA
}
