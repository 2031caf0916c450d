// internal/contact/controller.go
//
// Landing – Contact pipeline: form controller.
//
// Context
//   One Controller exists per form.  It owns no UI itself; every visible
//   effect goes through a collaborator handed in at construction:
//
//      ErrorPresenter – inline field errors
//      Notifier       – transient toast
//      FieldResetter  – clears the inputs after a successful send
//      Gate           – single in-flight submission, submit button state
//      Submitter      – the transport
//
// Workflow
//   Submit runs synchronously up to the dispatch:
//
//   1. Clear every field error, validate, and show the failures.  Stale
//      errors never survive into a new attempt.
//   2. Invalid → Rejected.  No network call.
//   3. Gate busy → Ignored.  Silent; the disabled button already says so.
//   4. Otherwise the Submitter runs on its own goroutine and the caller gets
//      a Done channel.
//
//   The goroutine has one completion point: mark the controller idle,
//   release the gate, toast, then (on success only) reset the fields.  Idle
//   is stored before the gate opens so a submit that wins the freed gate is
//   never reported as idle.  The Outcome is sent on Done
//   after all of that, so a reader of Done sees the settled form.
//
// Notes
//   •  A started submission cannot be cancelled.  The dispatch context is
//      detached from the caller's; only the transport timeout bounds it.
//   •  Failures keep the fields populated so the visitor can retry.
//
//------------------------------------------------------------------------------

package contact

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// Toast copy used by the controller.
const (
	SuccessMessage = "Message sent successfully! We will get back to you soon."
	FailureMessage = "Error sending message. Please try again later."
)

// -----------------------------------------------------------------------------
// Collaborators
// -----------------------------------------------------------------------------

// ErrorPresenter shows and clears inline field errors.
type ErrorPresenter interface {
	ShowFieldError(f Field, message string)
	ClearAllFieldErrors()
}

// Kind is the flavour of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier shows a transient message.  Dismissal is the notifier's business.
type Notifier interface {
	Notify(message string, kind Kind)
}

// FieldResetter empties the form inputs.
type FieldResetter interface {
	Reset()
}

// Event is the submit event.  Its default action (page navigation) is always
// suppressed.
type Event interface {
	PreventDefault()
}

// -----------------------------------------------------------------------------
// State and results
// -----------------------------------------------------------------------------

// State is the controller's coarse state.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// AttemptStatus says how far a submit attempt got.
type AttemptStatus int

const (
	Rejected   AttemptStatus = iota // validation failed
	Ignored                         // another submission in flight
	Dispatched                      // handed to the Submitter
)

func (s AttemptStatus) String() string {
	switch s {
	case Rejected:
		return "rejected"
	case Ignored:
		return "ignored"
	case Dispatched:
		return "dispatched"
	default:
		return fmt.Sprintf("attempt(%d)", int(s))
	}
}

// Outcome is the settled result of a dispatched submission.
type Outcome struct {
	Err error
}

// Success reports whether the submission was delivered.
func (o Outcome) Success() bool { return o.Err == nil }

// Attempt describes one call to Submit.  Done is nil unless Status is
// Dispatched; it yields exactly one Outcome and is then closed.
type Attempt struct {
	Status AttemptStatus
	Result ValidationResult
	Done   <-chan Outcome
}

// Wait blocks until the attempt settles.  Non-dispatched attempts return a
// zero Outcome immediately.
func (a Attempt) Wait() Outcome {
	if a.Done == nil {
		return Outcome{}
	}
	return <-a.Done
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// Deps bundles the collaborators.  Errors, Notifier, and Fields may be nil
// for headless use; Gate and Submitter are required.
type Deps struct {
	Errors    ErrorPresenter
	Notifier  Notifier
	Fields    FieldResetter
	Gate      *Gate
	Submitter Submitter
	Log       *zap.SugaredLogger
}

// Controller orchestrates validate → gate → submit → notify → reset.
type Controller struct {
	errors    ErrorPresenter
	notifier  Notifier
	fields    FieldResetter
	gate      *Gate
	submitter Submitter
	log       *zap.SugaredLogger

	state atomic.Int32
}

// NewController wires a controller.  It panics when Gate or Submitter is nil.
func NewController(d Deps) *Controller {
	if d.Gate == nil || d.Submitter == nil {
		panic("contact.NewController: Gate and Submitter are required")
	}
	if d.Log == nil {
		d.Log = zap.S()
	}
	return &Controller{
		errors:    d.Errors,
		notifier:  d.Notifier,
		fields:    d.Fields,
		gate:      d.Gate,
		submitter: d.Submitter,
		log:       d.Log,
	}
}

// State returns the current state.
func (c *Controller) State() State { return State(c.state.Load()) }

// HandleSubmit is the submit-event entry point.  It suppresses the default
// action before anything else, whatever the input.
func (c *Controller) HandleSubmit(ev Event, in FormInput) Attempt {
	if ev != nil {
		ev.PreventDefault()
	}
	return c.Submit(context.Background(), in)
}

// Submit runs one attempt.  See the file header for the sequence.
func (c *Controller) Submit(ctx context.Context, in FormInput) Attempt {
	busy := c.gate.InFlight()
	if !busy {
		c.state.Store(int32(StateValidating))
	}

	res := c.present(in)
	if !res.Valid() {
		if !busy {
			c.state.CompareAndSwap(int32(StateValidating), int32(StateIdle))
		}
		c.log.Debugw("contact submit rejected", "fields", res.Invalid())
		return Attempt{Status: Rejected, Result: res}
	}

	if !c.gate.TryAcquire() {
		if !busy {
			c.state.CompareAndSwap(int32(StateValidating), int32(StateSubmitting))
		}
		c.log.Debugw("contact submit ignored", "reason", "in flight")
		return Attempt{Status: Ignored, Result: res}
	}
	c.state.Store(int32(StateSubmitting))

	done := make(chan Outcome, 1)
	go c.dispatch(context.WithoutCancel(ctx), in, done)
	return Attempt{Status: Dispatched, Result: res, Done: done}
}

// present clears old errors, validates, and shows new ones.
func (c *Controller) present(in FormInput) ValidationResult {
	if c.errors != nil {
		c.errors.ClearAllFieldErrors()
	}
	res := Validate(in)
	if c.errors != nil {
		for _, f := range res.Invalid() {
			c.errors.ShowFieldError(f, res[f].Message)
		}
	}
	return res
}

// dispatch is the single completion point of a submission.
func (c *Controller) dispatch(ctx context.Context, in FormInput, done chan<- Outcome) {
	var out Outcome
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("contact: submitter panic: %v", r)
		}
		c.state.Store(int32(StateIdle))
		c.gate.Release()
		c.settle(out)
		done <- out
	}()

	out.Err = c.submitter.Submit(ctx, in)
}

// settle applies the user-visible effects of an outcome.
func (c *Controller) settle(out Outcome) {
	if out.Success() {
		c.log.Infow("contact submission sent")
		if c.notifier != nil {
			c.notifier.Notify(SuccessMessage, KindSuccess)
		}
		if c.fields != nil {
			c.fields.Reset()
		}
		return
	}

	c.log.Warnw("contact submission failed", "error", out.Err, "transport", IsTransport(out.Err))
	if c.notifier != nil {
		c.notifier.Notify(FailureMessage, KindError)
	}
}
