package contact

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder implements every collaborator and logs calls in order.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	shown  map[Field]string
	toasts []string
	kinds  []Kind
	resets int
}

func newRecorder() *recorder { return &recorder{shown: map[Field]string{}} }

func (r *recorder) ShowFieldError(f Field, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "show:"+string(f))
	r.shown[f] = msg
}

func (r *recorder) ClearAllFieldErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "clear")
	r.shown = map[Field]string{}
}

func (r *recorder) Notify(msg string, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "notify:"+string(kind))
	r.toasts = append(r.toasts, msg)
	r.kinds = append(r.kinds, kind)
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "reset")
	r.resets++
}

func (r *recorder) snapshot() (calls []string, shown map[Field]string, toasts []string, resets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shown = make(map[Field]string, len(r.shown))
	for k, v := range r.shown {
		shown[k] = v
	}
	return append([]string(nil), r.calls...), shown, append([]string(nil), r.toasts...), r.resets
}

type event struct{ prevented bool }

func (e *event) PreventDefault() { e.prevented = true }

// countingSubmitter blocks until release is closed, then returns err.
type countingSubmitter struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (s *countingSubmitter) Submit(ctx context.Context, _ FormInput) error {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return s.err
}

func newController(rec *recorder, b *button, sub Submitter) *Controller {
	return NewController(Deps{
		Errors:    rec,
		Notifier:  rec,
		Fields:    rec,
		Gate:      NewGate(b, ""),
		Submitter: sub,
	})
}

func TestController_ValidInputSucceeds(t *testing.T) {
	rec := newRecorder()
	b := &button{label: "Send Message", enabled: true}
	sub := &countingSubmitter{}
	c := newController(rec, b, sub)

	att := c.Submit(context.Background(), validInput())
	require.Equal(t, Dispatched, att.Status)

	out := att.Wait()
	require.True(t, out.Success())

	calls, shown, toasts, resets := rec.snapshot()
	assert.Equal(t, []string{"clear", "notify:success", "reset"}, calls)
	assert.Empty(t, shown)
	assert.Equal(t, []string{SuccessMessage}, toasts)
	assert.Equal(t, 1, resets)
	assert.Equal(t, int32(1), sub.calls.Load())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "Send Message", b.Label())
	assert.True(t, b.Enabled())
}

func TestController_InvalidInputNeverDispatches(t *testing.T) {
	rec := newRecorder()
	sub := &countingSubmitter{}
	c := newController(rec, &button{}, sub)

	att := c.Submit(context.Background(), FormInput{Name: "A", Email: "bad", Phone: "123", Message: "hi"})
	require.Equal(t, Rejected, att.Status)
	assert.Nil(t, att.Done)

	calls, shown, toasts, _ := rec.snapshot()
	assert.Equal(t, "clear", calls[0], "errors are cleared before new ones are shown")
	assert.Equal(t, map[Field]string{
		FieldName:    MsgName,
		FieldEmail:   MsgEmail,
		FieldPhone:   MsgPhone,
		FieldMessage: MsgMessage,
	}, shown)
	assert.Empty(t, toasts)
	assert.Zero(t, sub.calls.Load())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_StaleErrorsAreCleared(t *testing.T) {
	rec := newRecorder()
	c := newController(rec, &button{}, &countingSubmitter{})

	bad := validInput()
	bad.Email = "nope"
	require.Equal(t, Rejected, c.Submit(context.Background(), bad).Status)

	_, shown, _, _ := rec.snapshot()
	require.Contains(t, shown, FieldEmail)

	c.Submit(context.Background(), validInput()).Wait()
	_, shown, _, _ = rec.snapshot()
	assert.Empty(t, shown)
}

func TestController_TransportFailureKeepsFields(t *testing.T) {
	rec := newRecorder()
	b := &button{label: "Send Message", enabled: true}
	sub := &countingSubmitter{err: &TransportError{Endpoint: "x", Err: errors.New("unreachable")}}
	c := newController(rec, b, sub)

	out := c.Submit(context.Background(), validInput()).Wait()
	require.False(t, out.Success())
	assert.True(t, IsTransport(out.Err))

	calls, _, toasts, resets := rec.snapshot()
	assert.Equal(t, []string{"clear", "notify:error"}, calls)
	assert.Equal(t, []string{FailureMessage}, toasts)
	assert.Zero(t, resets)

	// Gate released, control restored.
	assert.True(t, b.Enabled())
	assert.Equal(t, "Send Message", b.Label())
	assert.Equal(t, Dispatched, c.Submit(context.Background(), validInput()).Status)
}

func TestController_DoubleSubmitDispatchesOnce(t *testing.T) {
	rec := newRecorder()
	b := &button{label: "Send Message", enabled: true}
	sub := &countingSubmitter{release: make(chan struct{})}
	c := newController(rec, b, sub)

	first := c.Submit(context.Background(), validInput())
	second := c.Submit(context.Background(), validInput())

	require.Equal(t, Dispatched, first.Status)
	require.Equal(t, Ignored, second.Status)
	assert.Equal(t, StateSubmitting, c.State())
	assert.False(t, b.Enabled())
	assert.Equal(t, DefaultBusyLabel, b.Label())

	close(sub.release)
	require.True(t, first.Wait().Success())

	assert.Equal(t, int32(1), sub.calls.Load())
	_, _, toasts, _ := rec.snapshot()
	assert.Len(t, toasts, 1)
}

func TestController_PanicReleasesGate(t *testing.T) {
	rec := newRecorder()
	b := &button{label: "Send Message", enabled: true}
	c := newController(rec, b, SubmitterFunc(func(context.Context, FormInput) error {
		panic("transport exploded")
	}))

	out := c.Submit(context.Background(), validInput()).Wait()
	require.Error(t, out.Err)
	assert.True(t, b.Enabled())
	assert.Equal(t, StateIdle, c.State())
}

func TestController_CallerCancelDoesNotAbort(t *testing.T) {
	rec := newRecorder()
	c := newController(rec, &button{}, &SimulatedSubmitter{Delay: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	att := c.Submit(ctx, validInput())
	cancel()

	assert.True(t, att.Wait().Success())
}

func TestController_HandleSubmitAlwaysPreventsDefault(t *testing.T) {
	c := newController(newRecorder(), &button{}, &countingSubmitter{})

	ev := &event{}
	att := c.HandleSubmit(ev, FormInput{})
	assert.True(t, ev.prevented)
	assert.Equal(t, Rejected, att.Status)

	ev = &event{}
	c.HandleSubmit(ev, validInput()).Wait()
	assert.True(t, ev.prevented)
}

func TestController_DoneClosesAfterOutcome(t *testing.T) {
	c := newController(newRecorder(), &button{}, &countingSubmitter{})
	att := c.Submit(context.Background(), validInput())

	<-att.Done
	_, open := <-att.Done
	assert.False(t, open)
}

func TestNewController_RequiresGateAndSubmitter(t *testing.T) {
	assert.Panics(t, func() { NewController(Deps{Submitter: &countingSubmitter{}}) })
	assert.Panics(t, func() { NewController(Deps{Gate: NewGate(nil, "")}) })
}

// watchingButton records the controller state at the moment the gate
// re-enables it.
type watchingButton struct {
	button
	ctl      atomic.Pointer[Controller]
	atEnable atomic.Int32
}

func (b *watchingButton) SetEnabled(v bool) {
	if v {
		if c := b.ctl.Load(); c != nil {
			b.atEnable.Store(int32(c.State()))
		}
	}
	b.button.SetEnabled(v)
}

func TestController_IdleBeforeGateOpens(t *testing.T) {
	b := &watchingButton{button: button{label: "Send Message", enabled: true}}
	b.atEnable.Store(-1)
	c := NewController(Deps{Gate: NewGate(b, ""), Submitter: &countingSubmitter{}})
	b.ctl.Store(c)

	att := c.Submit(context.Background(), validInput())
	require.Equal(t, Dispatched, att.Status)
	att.Wait()

	assert.Equal(t, int32(StateIdle), b.atEnable.Load())
	assert.Equal(t, StateIdle, c.State())
}
