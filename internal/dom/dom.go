//go:build js && wasm

// internal/dom/dom.go
//
// Landing – browser collaborators for the contact controller.
//
// Context
//   The page server renders a fixed form: #contact-form with inputs #name,
//   #email, #phone, #message, error spans #<field>-error, the #submit-btn
//   button, and a #toast element.  These adapters map the controller's
//   collaborator calls onto those nodes.  Visibility is a “show” class, the
//   same hook the stylesheet uses.
//
// Notes
//   •  Bind registers exactly one submit listener per form.
//   •  Callbacks never block; the controller settles submissions on its own
//      goroutine, which the Go scheduler runs between browser events.
//
//------------------------------------------------------------------------------

package dom

import (
	"syscall/js"
	"time"

	"github.com/yanizio/landing/internal/contact"
)

const showClass = "show"

func document() js.Value { return js.Global().Get("document") }

func byID(id string) js.Value { return document().Call("getElementById", id) }

// -----------------------------------------------------------------------------
// Error presenter
// -----------------------------------------------------------------------------

// ErrorPresenter toggles the #<field>-error spans.
type ErrorPresenter struct{}

var _ contact.ErrorPresenter = ErrorPresenter{}

func (ErrorPresenter) ShowFieldError(f contact.Field, message string) {
	el := byID(f.ErrorID())
	if el.IsNull() {
		return
	}
	el.Set("textContent", message)
	el.Get("classList").Call("add", showClass)
}

func (ErrorPresenter) ClearAllFieldErrors() {
	for _, f := range contact.Fields {
		el := byID(f.ErrorID())
		if el.IsNull() {
			continue
		}
		el.Set("textContent", "")
		el.Get("classList").Call("remove", showClass)
	}
}

// -----------------------------------------------------------------------------
// Toast
// -----------------------------------------------------------------------------

// Toast drives the #toast element.  A newer toast cancels the older one's
// dismissal.
type Toast struct {
	el       js.Value
	duration time.Duration
	gen      uint64
}

var _ contact.Notifier = (*Toast)(nil)

// NewToast binds to #toast.  The element's data-duration (milliseconds)
// wins over def.  A toast the server rendered already showing is dismissed
// on the same schedule.
func NewToast(def time.Duration) *Toast {
	t := &Toast{el: byID("toast"), duration: def}
	if t.el.IsNull() {
		return t
	}
	t.duration = contact.Millis(t.el.Get("dataset").Get("duration").String(), def)
	if t.el.Get("classList").Call("contains", showClass).Bool() {
		t.scheduleDismiss()
	}
	return t
}

func (t *Toast) Notify(message string, kind contact.Kind) {
	if t.el.IsNull() {
		js.Global().Call("alert", message)
		return
	}
	t.el.Set("textContent", message)
	t.el.Set("className", "toast "+string(kind))
	t.el.Get("classList").Call("add", showClass)
	t.scheduleDismiss()
}

// scheduleDismiss hides the toast after the duration unless a newer one
// took its place.
func (t *Toast) scheduleDismiss() {
	t.gen++
	gen := t.gen
	time.AfterFunc(t.duration, func() {
		if gen == t.gen {
			t.el.Get("classList").Call("remove", showClass)
		}
	})
}

// -----------------------------------------------------------------------------
// Submit button
// -----------------------------------------------------------------------------

// Button wraps #submit-btn.
type Button struct{ el js.Value }

var _ contact.SubmitControl = Button{}

// NewButton binds to #submit-btn.
func NewButton() Button { return Button{el: byID("submit-btn")} }

func (b Button) Enabled() bool     { return !b.el.Get("disabled").Bool() }
func (b Button) Label() string     { return b.el.Get("textContent").String() }
func (b Button) SetEnabled(v bool) { b.el.Set("disabled", !v) }
func (b Button) SetLabel(s string) { b.el.Set("textContent", s) }

// -----------------------------------------------------------------------------
// Form
// -----------------------------------------------------------------------------

// Form wraps #contact-form.
type Form struct{ el js.Value }

var _ contact.FieldResetter = Form{}

// NewForm binds to #contact-form.  ok is false when the page has no form.
func NewForm() (Form, bool) {
	el := byID("contact-form")
	return Form{el: el}, !el.IsNull()
}

// Reset empties every input.
func (f Form) Reset() { f.el.Call("reset") }

// Data returns a data-* attribute of the form element.
func (f Form) Data(name string) string {
	v := f.el.Get("dataset").Get(name)
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

// Values reads the current input values.
func (f Form) Values() contact.FormInput {
	return contact.FormInput{
		Name:    inputValue(contact.FieldName),
		Email:   inputValue(contact.FieldEmail),
		Phone:   inputValue(contact.FieldPhone),
		Message: inputValue(contact.FieldMessage),
	}
}

func inputValue(f contact.Field) string {
	el := byID(string(f))
	if el.IsNull() {
		return ""
	}
	return el.Get("value").String()
}

// event adapts a DOM Event to contact.Event.
type event struct{ v js.Value }

func (e event) PreventDefault() { e.v.Call("preventDefault") }

// -----------------------------------------------------------------------------
// Wiring
// -----------------------------------------------------------------------------

// Bind attaches the controller to the form.  The returned func releases the
// listeners.
func Bind(f Form, c *contact.Controller) (release func()) {
	var funcs []js.Func
	listen := func(target js.Value, name string, fn func(js.Value)) {
		if target.IsNull() {
			return
		}
		jf := js.FuncOf(func(_ js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		})
		target.Call("addEventListener", name, jf)
		funcs = append(funcs, jf)
	}

	listen(f.el, "submit", func(ev js.Value) {
		c.HandleSubmit(event{ev}, f.Values())
	})

	// Live phone formatting: digits only, ten at most.
	listen(byID(string(contact.FieldPhone)), "input", func(ev js.Value) {
		el := ev.Get("target")
		el.Set("value", contact.NormalizePhone(el.Get("value").String()))
	})

	// Email check on blur.
	listen(byID(string(contact.FieldEmail)), "blur", func(ev js.Value) {
		msg, ok := contact.CheckEmail(ev.Get("target").Get("value").String())
		el := byID(contact.FieldEmail.ErrorID())
		if el.IsNull() {
			return
		}
		if ok {
			el.Get("classList").Call("remove", showClass)
			return
		}
		el.Set("textContent", msg)
		el.Get("classList").Call("add", showClass)
	})

	return func() {
		for _, jf := range funcs {
			jf.Release()
		}
	}
}
