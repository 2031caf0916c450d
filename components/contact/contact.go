// components/contact/contact.go
//
// Contact component – the landing page and its submission endpoints.
//
// Routes
// ------
//   GET  /             landing page with the contact form
//   POST /api/contact  JSON endpoint for the browser and terminal clients
//   POST /contact      HTML-form fallback when the page runs without script
//
// The JSON endpoint answers with the acknowledgement the clients expect:
//
//   200 {"success":true,"id":"…"}
//   422 {"success":false,"errors":{"name":"…"}}
//   400 {"success":false,"error":"malformed request body"}
//
// The HTML path re-renders the page with field errors (422), or redirects
// to /?sent=1 so a refresh cannot resubmit.
package contact

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	core "github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/component"
	"github.com/yanizio/landing/internal/config"
	"github.com/yanizio/landing/internal/form"
	"github.com/yanizio/landing/internal/logger"
	"github.com/yanizio/landing/internal/requestinfo"
	"github.com/yanizio/landing/internal/store"
	"github.com/yanizio/landing/internal/view"
)

// APIPath is the JSON endpoint the page's form posts to by default.
const APIPath = "/api/contact"

// compile-time assertions
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component holds the services handed over at Init.
type Component struct {
	cfg    *config.Config
	view   *view.Engine
	signer *form.Signer
	exec   *form.Executor
	log    *zap.SugaredLogger
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Migrations creates contact_submission.
func (c *Component) Migrations() []string { return []string{store.Schema} }

// Init captures the shared services.
func (c *Component) Init(d component.Deps) error {
	if d.Config == nil || d.View == nil || d.Signer == nil {
		return errors.New("contact: config, view, and signer are required")
	}
	c.cfg, c.view, c.signer, c.exec, c.log = d.Config, d.View, d.Signer, d.Executor, d.Log
	if c.log == nil {
		c.log = zap.S()
	}
	return nil
}

// Routes builds the router mounted at “/”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handlePage)
	r.Post(APIPath, c.handleAPI)
	r.Post(form.DefaultAction, c.handleFormPOST)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handlePage(w http.ResponseWriter, r *http.Request) {
	var t toast
	if r.URL.Query().Get("sent") == "1" {
		t = toast{Message: core.SuccessMessage, Kind: string(core.KindSuccess)}
	}
	c.render(w, r, http.StatusOK, core.FormInput{}, nil, t)
}

func (c *Component) handleAPI(w http.ResponseWriter, r *http.Request) {
	if !form.IsJSON(r) {
		writeJSON(w, http.StatusUnsupportedMediaType, core.Ack{Error: "content type must be application/json"})
		return
	}

	sub, err := form.HandleSubmit(r, form.SubmitOptions{Executor: c.exec})
	switch {
	case err == nil:
		logger.FromContext(r.Context()).Infow("contact accepted", "id", sub.ID, "duplicate", sub.Duplicate)
		writeJSON(w, http.StatusOK, core.Ack{Success: true, ID: sub.ID})
	case form.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, core.Ack{Errors: form.Messages(form.FieldErrors(err))})
	case errors.Is(err, form.ErrMalformed):
		writeJSON(w, http.StatusBadRequest, core.Ack{Error: "malformed request body"})
	default:
		logger.FromContext(r.Context()).Errorw("contact submit failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, core.Ack{Error: "internal error"})
	}
}

func (c *Component) handleFormPOST(w http.ResponseWriter, r *http.Request) {
	sub, err := form.HandleSubmit(r, form.SubmitOptions{Signer: c.signer, Executor: c.exec})
	switch {
	case err == nil:
		logger.FromContext(r.Context()).Infow("contact accepted", "id", sub.ID, "path", "form")
		http.Redirect(w, r, "/?sent=1#contact", http.StatusSeeOther)
	case form.IsValidationError(err):
		prefill := core.FormInput{
			Name:    r.PostForm.Get(string(core.FieldName)),
			Email:   r.PostForm.Get(string(core.FieldEmail)),
			Phone:   r.PostForm.Get(string(core.FieldPhone)),
			Message: r.PostForm.Get(string(core.FieldMessage)),
		}
		c.render(w, r, http.StatusUnprocessableEntity, prefill, form.FieldErrors(err), toast{})
	case errors.Is(err, form.ErrMalformed):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	default:
		logger.FromContext(r.Context()).Errorw("contact submit failed", "err", err)
		c.render(w, r, http.StatusInternalServerError, core.FormInput{}, nil,
			toast{Message: core.FailureMessage, Kind: string(core.KindError)})
	}
}

/*──────────────────────────── Rendering ────────────────────────────────────*/

// Page copy.  Sites replace it by overriding web/templates/index.html.
const (
	title    = "Landing"
	headline = "Build something people remember"
	tagline  = "Strategy, design, and engineering for small teams."
)

var services = []string{"Product strategy", "Web design", "Engineering"}

type toast struct {
	Message    string
	Kind       string
	DurationMS int64
}

type pageData struct {
	Title    string
	Headline string
	Tagline  string
	Services []string
	Form     template.HTML
	Toast    toast
	Info     *requestinfo.RequestInfo
	Year     int
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, status int,
	prefill core.FormInput, errs []form.ErrorField, t toast) {

	endpoint := c.cfg.Contact.Endpoint
	if endpoint == "" {
		endpoint = APIPath
	}
	formHTML, err := form.RenderForm(form.RenderOptions{
		Signer:      c.signer,
		Endpoint:    endpoint,
		Mode:        c.cfg.Contact.Mode,
		SubmitLabel: c.cfg.Contact.SubmitLabel,
		BusyLabel:   c.cfg.Contact.BusyLabel,
		Timeout:     c.cfg.Contact.Timeout,
		Delay:       c.cfg.Contact.SimulatedDelay,
		Prefill:     prefill,
		Errors:      errs,
	})
	if err != nil {
		c.fail(w, r, err)
		return
	}

	t.DurationMS = c.cfg.Contact.ToastDuration.Milliseconds()
	data := pageData{
		Title:    title,
		Headline: headline,
		Tagline:  tagline,
		Services: services,
		Form:     formHTML,
		Toast:    t,
		Info:     requestinfo.FromContext(r.Context()),
		Year:     time.Now().Year(),
	}
	if err := c.view.Render(w, status, "index", data); err != nil {
		c.fail(w, r, err)
	}
}

func (c *Component) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Errorw("render error", "err", err)
	http.Error(w, "template error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
