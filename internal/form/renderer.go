// internal/form/renderer.go
//
// Landing – Forms subsystem: HTML renderer.
//
// Context
//   Renders the contact form as plain, accessible markup.  The element IDs
//   are the contract with the browser build: #contact-form, one input per
//   field named after the field, a #<field>-error span for each, and
//   #submit-btn.  data-endpoint and data-mode tell the browser controller
//   where and how to post; data-timeout, data-delay, and data-busy-label
//   carry the rest of the contact config.
//
// Workflow
//   •  The form also works without script: method="post" action="/contact",
//      with a hidden form token and render timestamp for the server checks.
//   •  A server re-render passes Prefill and Errors; error spans then carry
//      the message and the "show" class, form-level errors go in a banner.
//
// Style
//   Each field is wrapped in <div class="form-group"> so the stylesheet can
//   target it.  No framework classes.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"time"

	"github.com/yanizio/landing/internal/contact"
)

// DefaultAction is the no-script POST target.
const DefaultAction = "/contact"

// RenderOptions bundles the parameters influencing HTML output.
type RenderOptions struct {
	Signer      *Signer // required; issues the hidden token
	Action      string  // defaults to DefaultAction
	Endpoint    string  // data-endpoint for the browser controller
	Mode        string  // data-mode for the browser controller
	SubmitLabel string
	BusyLabel   string        // data-busy-label, shown while a submission runs
	Timeout     time.Duration // data-timeout in ms; zero omits it
	Delay       time.Duration // data-delay in ms for simulated mode; zero omits it
	Prefill     contact.FormInput
	Errors      []ErrorField
	Now         func() time.Time // render timestamp source; tests pin it
}

// RenderForm returns the form markup as template.HTML so the surrounding
// page template does not double-escape it.
func RenderForm(opts RenderOptions) (template.HTML, error) {
	if opts.Signer == nil {
		return "", fmt.Errorf("RenderForm: signer required")
	}
	if opts.Action == "" {
		opts.Action = DefaultAction
	}
	if opts.SubmitLabel == "" {
		opts.SubmitLabel = "Send Message"
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	token, err := opts.Signer.Token()
	if err != nil {
		return "", fmt.Errorf("RenderForm: token: %w", err)
	}
	msgs := Messages(opts.Errors)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<form id="contact-form" class="contact-form" method="post" action="%s" data-endpoint="%s" data-mode="%s"`,
		esc(opts.Action), esc(opts.Endpoint), esc(opts.Mode))
	if opts.BusyLabel != "" {
		buf.WriteString(` data-busy-label="` + esc(opts.BusyLabel) + `"`)
	}
	if ms := opts.Timeout.Milliseconds(); ms > 0 {
		buf.WriteString(` data-timeout="` + strconv.FormatInt(ms, 10) + `"`)
	}
	if ms := opts.Delay.Milliseconds(); ms > 0 {
		buf.WriteString(` data-delay="` + strconv.FormatInt(ms, 10) + `"`)
	}
	buf.WriteString(" novalidate>\n")

	if m, ok := msgs["form"]; ok {
		buf.WriteString(`<div class="form-banner error show" role="alert">` + esc(m) + `</div>` + "\n")
	}

	for _, d := range FieldDefs {
		writeField(&buf, d, opts.Prefill.Value(d.Field), msgs[string(d.Field)])
	}

	fmt.Fprintf(&buf, `<input type="hidden" name="csrf_token" value="%s">`+"\n", esc(token))
	fmt.Fprintf(&buf, `<input type="hidden" name="render_ts" value="%d">`+"\n", now().UnixMicro())
	buf.WriteString(`<button type="submit" id="submit-btn" class="btn btn-primary">` + esc(opts.SubmitLabel) + `</button>` + "\n")
	buf.WriteString(`</form>`)

	return template.HTML(buf.String()), nil
}

// writeField emits one labelled control and its error surface.
func writeField(buf *bytes.Buffer, d FieldDef, val, errMsg string) {
	name := esc(string(d.Field))

	buf.WriteString(`<div class="form-group">` + "\n")
	buf.WriteString(`<label for="` + name + `">` + esc(d.Label) + `</label>` + "\n")

	attrs := `id="` + name + `" name="` + name + `"`
	if d.Placeholder != "" {
		attrs += ` placeholder="` + esc(d.Placeholder) + `"`
	}
	if d.MaxLength > 0 {
		attrs += ` maxlength="` + strconv.Itoa(d.MaxLength) + `"`
	}
	if errMsg != "" {
		attrs += ` aria-invalid="true"`
	}
	attrs += ` aria-describedby="` + esc(d.Field.ErrorID()) + `"`

	if d.Type == "textarea" {
		rows := d.Rows
		if rows == 0 {
			rows = 4
		}
		buf.WriteString(`<textarea ` + attrs + ` rows="` + strconv.Itoa(rows) + `">` + esc(val) + `</textarea>` + "\n")
	} else {
		buf.WriteString(`<input ` + attrs + ` type="` + esc(d.Type) + `"`)
		if d.Type == "tel" {
			buf.WriteString(` inputmode="numeric"`)
		}
		if val != "" {
			buf.WriteString(` value="` + esc(val) + `"`)
		}
		buf.WriteString(`>` + "\n")
	}

	class := "error-message"
	if errMsg != "" {
		class += " show"
	}
	buf.WriteString(`<span id="` + esc(d.Field.ErrorID()) + `" class="` + class + `" aria-live="polite">` + esc(errMsg) + `</span>` + "\n")
	buf.WriteString(`</div>` + "\n")
}

func esc(s string) string { return html.EscapeString(s) }
