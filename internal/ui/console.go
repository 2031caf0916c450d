// internal/ui/console.go
//
// Terminal collaborators.  Console prints field errors, toasts, and button
// changes as styled lines so contactctl shows the same feedback the page does.

package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/yanizio/landing/internal/contact"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	fieldStyle   = lipgloss.NewStyle().Bold(true)
	successToast = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1)
	failureToast = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1)
	buttonStyle  = lipgloss.NewStyle().Faint(true)
)

// Console writes collaborator events to w.  It embeds the in-memory surfaces
// so callers can still inspect state afterwards.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	errors *FieldErrors
	button *Button
	idle   string
}

var (
	_ contact.ErrorPresenter = (*Console)(nil)
	_ contact.Notifier       = (*Console)(nil)
	_ contact.SubmitControl  = (*Console)(nil)
)

// NewConsole returns a Console writing to w with a button labelled label.
func NewConsole(w io.Writer, label string) *Console {
	return &Console{w: w, errors: NewFieldErrors(), button: NewButton(label), idle: label}
}

func (c *Console) ShowFieldError(f contact.Field, message string) {
	c.errors.ShowFieldError(f, message)
	c.printf("%s %s\n", fieldStyle.Render(f.String()+":"), errorStyle.Render(message))
}

// ClearAllFieldErrors resets the surfaces.  Lines already printed stay.
func (c *Console) ClearAllFieldErrors() { c.errors.ClearAllFieldErrors() }

func (c *Console) Notify(message string, kind contact.Kind) {
	style := successToast
	if kind == contact.KindError {
		style = failureToast
	}
	c.printf("%s\n", style.Render(message))
}

func (c *Console) Enabled() bool { return c.button.Enabled() }
func (c *Console) Label() string { return c.button.Label() }

func (c *Console) SetEnabled(v bool) { c.button.SetEnabled(v) }

// SetLabel echoes any label other than the idle one, so the busy label
// shows whatever it is configured to.  Restoring the idle label is silent.
func (c *Console) SetLabel(s string) {
	c.button.SetLabel(s)
	if s != "" && s != c.idle {
		c.printf("%s\n", buttonStyle.Render(s))
	}
}

// Errors exposes the underlying surfaces.
func (c *Console) Errors() *FieldErrors { return c.errors }

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
