// internal/ui/memory.go
//
// In-memory collaborators for the contact controller.
//
// Context
//   The browser build talks to the DOM; everything else (tests, the terminal
//   client, server-side previews) needs the same surfaces without one.  Each
//   type here mirrors one element of the page: the error spans, the toast,
//   the submit button, and the four inputs.  All are safe for concurrent use
//   because the controller settles submissions on its own goroutine.
//
//------------------------------------------------------------------------------

package ui

import (
	"sync"
	"time"

	"github.com/yanizio/landing/internal/contact"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 5 * time.Second

// -----------------------------------------------------------------------------
// Field errors
// -----------------------------------------------------------------------------

// ErrorSurface is one “<field>-error” element.
type ErrorSurface struct {
	Text    string
	Visible bool
}

// FieldErrors holds an ErrorSurface per field.
type FieldErrors struct {
	mu       sync.Mutex
	surfaces map[string]ErrorSurface
}

var _ contact.ErrorPresenter = (*FieldErrors)(nil)

// NewFieldErrors returns four hidden, empty surfaces.
func NewFieldErrors() *FieldErrors {
	fe := &FieldErrors{surfaces: make(map[string]ErrorSurface, len(contact.Fields))}
	for _, f := range contact.Fields {
		fe.surfaces[f.ErrorID()] = ErrorSurface{}
	}
	return fe
}

// ShowFieldError sets the text and makes the surface visible.
func (fe *FieldErrors) ShowFieldError(f contact.Field, message string) {
	fe.mu.Lock()
	fe.surfaces[f.ErrorID()] = ErrorSurface{Text: message, Visible: true}
	fe.mu.Unlock()
}

// ClearAllFieldErrors hides and empties every surface.
func (fe *FieldErrors) ClearAllFieldErrors() {
	fe.mu.Lock()
	for id := range fe.surfaces {
		fe.surfaces[id] = ErrorSurface{}
	}
	fe.mu.Unlock()
}

// Surface returns the surface keyed by id (e.g. “email-error”).
func (fe *FieldErrors) Surface(id string) ErrorSurface {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.surfaces[id]
}

// Snapshot copies every surface.
func (fe *FieldErrors) Snapshot() map[string]ErrorSurface {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	out := make(map[string]ErrorSurface, len(fe.surfaces))
	for k, v := range fe.surfaces {
		out[k] = v
	}
	return out
}

// -----------------------------------------------------------------------------
// Toast
// -----------------------------------------------------------------------------

// ToastState is what the toast element shows right now.
type ToastState struct {
	Message string
	Kind    contact.Kind
	Visible bool
}

// Toast is a Notifier that hides itself after Duration.  Each Notify
// supersedes the previous toast and its timer.
type Toast struct {
	mu       sync.Mutex
	state    ToastState
	gen      uint64
	duration time.Duration
	timer    *time.Timer
	onChange func(ToastState)
}

var _ contact.Notifier = (*Toast)(nil)

// NewToast returns a hidden toast.  d <= 0 selects DefaultToastDuration.
// onChange, when set, is called after every show and hide.
func NewToast(d time.Duration, onChange func(ToastState)) *Toast {
	if d <= 0 {
		d = DefaultToastDuration
	}
	return &Toast{duration: d, onChange: onChange}
}

// Notify shows message and schedules the dismissal.
func (t *Toast) Notify(message string, kind contact.Kind) {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.state = ToastState{Message: message, Kind: kind, Visible: true}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.duration, func() { t.dismiss(gen) })
	st := t.state
	t.mu.Unlock()

	t.changed(st)
}

// dismiss hides the toast if no newer Notify happened since gen.
func (t *Toast) dismiss(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.state.Visible = false
	st := t.state
	t.mu.Unlock()

	t.changed(st)
}

// State returns the current toast.
func (t *Toast) State() ToastState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop cancels a pending dismissal.
func (t *Toast) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *Toast) changed(st ToastState) {
	if t.onChange != nil {
		t.onChange(st)
	}
}

// -----------------------------------------------------------------------------
// Submit button
// -----------------------------------------------------------------------------

// Button is an in-memory SubmitControl.
type Button struct {
	mu      sync.Mutex
	label   string
	enabled bool
}

var _ contact.SubmitControl = (*Button)(nil)

// NewButton returns an enabled button showing label.
func NewButton(label string) *Button { return &Button{label: label, enabled: true} }

func (b *Button) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *Button) SetEnabled(v bool) {
	b.mu.Lock()
	b.enabled = v
	b.mu.Unlock()
}

func (b *Button) SetLabel(s string) {
	b.mu.Lock()
	b.label = s
	b.mu.Unlock()
}

// -----------------------------------------------------------------------------
// Inputs
// -----------------------------------------------------------------------------

// Form holds the current input values.
type Form struct {
	mu     sync.Mutex
	values contact.FormInput
}

var _ contact.FieldResetter = (*Form)(nil)

// NewForm returns a form pre-filled with in.
func NewForm(in contact.FormInput) *Form { return &Form{values: in} }

// Set replaces one field, applying the phone live-formatting.
func (f *Form) Set(field contact.Field, v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case contact.FieldName:
		f.values.Name = v
	case contact.FieldEmail:
		f.values.Email = v
	case contact.FieldPhone:
		f.values.Phone = contact.NormalizePhone(v)
	case contact.FieldMessage:
		f.values.Message = v
	}
}

// Values returns the current FormInput.
func (f *Form) Values() contact.FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Reset empties every field.
func (f *Form) Reset() {
	f.mu.Lock()
	f.values = contact.FormInput{}
	f.mu.Unlock()
}
