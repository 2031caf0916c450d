// internal/contact/gate.go
//
// Landing – Contact pipeline: single-flight submission gate.
//
// Context
//   At most one submission may be in flight per form.  The Gate is that one
//   flag, plus the submit control it presents: while held, the button is
//   disabled and reads “Sending...”; on release, it goes back to exactly what
//   it showed before.
//
// Notes
//   •  TryAcquire checks and sets under one lock, so a double click cannot
//      slip a second submission between the check and the set.
//   •  Release is idempotent.  Callers defer it right after a successful
//      TryAcquire.
//
//------------------------------------------------------------------------------

package contact

import "sync"

// DefaultBusyLabel is shown on the submit control while a submission runs.
const DefaultBusyLabel = "Sending..."

// SubmitControl is the submit button as the gate sees it.
type SubmitControl interface {
	Enabled() bool
	Label() string
	SetEnabled(bool)
	SetLabel(string)
}

// Gate guards the single in-flight submission.  The zero value is not usable;
// call NewGate.
type Gate struct {
	mu        sync.Mutex
	inFlight  bool
	ctl       SubmitControl // nil when headless
	busyLabel string

	savedLabel   string
	savedEnabled bool
}

// NewGate returns an idle gate driving ctl.  ctl may be nil.  An empty
// busyLabel selects DefaultBusyLabel.
func NewGate(ctl SubmitControl, busyLabel string) *Gate {
	if busyLabel == "" {
		busyLabel = DefaultBusyLabel
	}
	return &Gate{ctl: ctl, busyLabel: busyLabel}
}

// TryAcquire moves the gate to in-flight and returns true, or returns false
// when a submission is already running.
func (g *Gate) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight {
		return false
	}
	g.inFlight = true

	if g.ctl != nil {
		g.savedLabel = g.ctl.Label()
		g.savedEnabled = g.ctl.Enabled()
		g.ctl.SetLabel(g.busyLabel)
		g.ctl.SetEnabled(false)
	}
	return true
}

// Release returns the gate to idle and restores the control.  Calling it on
// an idle gate does nothing.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.inFlight {
		return
	}
	g.inFlight = false

	if g.ctl != nil {
		g.ctl.SetLabel(g.savedLabel)
		g.ctl.SetEnabled(g.savedEnabled)
	}
}

// InFlight reports whether a submission currently holds the gate.
func (g *Gate) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}
