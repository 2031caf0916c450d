// internal/contact/submitter.go
//
// Landing – Contact pipeline: submission strategies.
//
// Context
//   A Submitter delivers one validated FormInput and reports Success (nil) or
//   Failure (error).  Three strategies exist:
//
//   •  simulated     – waits, then succeeds.  Used for demos and offline
//                      builds of the page.
//   •  opaque        – POSTs JSON and ignores the answer.  Success only means
//                      the request left without a transport error; the
//                      server may still have dropped it.
//   •  acknowledged  – POSTs JSON and requires a 2xx status with
//                      {"success": true}.  Default for real endpoints.
//
//   The opaque mode exists because some upstreams (script hosts reached in
//   no-cors mode) never expose their status.  Its success toast is a claim
//   about dispatch, not about receipt.
//
//------------------------------------------------------------------------------

package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Submitter sends one payload.  A nil error means Success.
type Submitter interface {
	Submit(ctx context.Context, in FormInput) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, in FormInput) error

func (f SubmitterFunc) Submit(ctx context.Context, in FormInput) error { return f(ctx, in) }

// Mode selects a submission strategy.
type Mode string

const (
	ModeSimulated    Mode = "simulated"
	ModeOpaque       Mode = "opaque"
	ModeAcknowledged Mode = "acknowledged"
)

// Defaults taken from the live page.
const (
	DefaultSimulatedDelay = 1500 * time.Millisecond
	DefaultTimeout        = 15 * time.Second
)

// SubmissionIDHeader carries a per-attempt UUID so the server can drop
// repeated deliveries of the same message.
const SubmissionIDHeader = "X-Submission-ID"

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSimulated, ModeOpaque, ModeAcknowledged:
		return m, nil
	case "":
		return ModeAcknowledged, nil
	default:
		return "", fmt.Errorf("contact: unknown submission mode %q", s)
	}
}

// Options configures NewSubmitter.
type Options struct {
	Mode     Mode
	Endpoint string
	Timeout  time.Duration
	Delay    time.Duration // simulated mode only
	Client   Doer          // nil selects a client with Timeout
}

// NewSubmitter builds the Submitter for opts.Mode.
func NewSubmitter(opts Options) (Submitter, error) {
	if opts.Mode == ModeSimulated {
		return &SimulatedSubmitter{Delay: opts.Delay}, nil
	}
	if opts.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSubmitter{
		Endpoint: opts.Endpoint,
		Mode:     mode,
		Client:   client,
	}, nil
}

// -----------------------------------------------------------------------------
// Simulated
// -----------------------------------------------------------------------------

// SimulatedSubmitter always succeeds after Delay.
type SimulatedSubmitter struct {
	Delay time.Duration
}

// Submit waits for the delay (or ctx) and reports Success.
func (s *SimulatedSubmitter) Submit(ctx context.Context, _ FormInput) error {
	d := s.Delay
	if d <= 0 {
		d = DefaultSimulatedDelay
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return &TransportError{Endpoint: "simulated", Err: ctx.Err()}
	}
}

// -----------------------------------------------------------------------------
// HTTP
// -----------------------------------------------------------------------------

// Doer is the slice of *http.Client the submitter needs.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPSubmitter POSTs the payload as JSON to Endpoint.
type HTTPSubmitter struct {
	Endpoint string
	Mode     Mode
	Client   Doer
}

// Ack is the body the page server returns from its JSON endpoint.
type Ack struct {
	Success bool              `json:"success"`
	ID      string            `json:"id,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// FetchModeHeader is read by the js/wasm HTTP transport and passed to
// fetch() as its mode.  Other transports send it as an ordinary header.
const FetchModeHeader = "js.fetch:mode"

// opaquePayload carries the submission ID in the body, since a no-cors
// request drops every header that is not CORS-safelisted.
type opaquePayload struct {
	FormInput
	ID string `json:"id"`
}

// Submit sends in, trimmed, as one JSON document.
//
// Opaque requests go out as a no-cors fetch with a text/plain body so a
// cross-origin upstream without CORS headers still receives them.
func (s *HTTPSubmitter) Submit(ctx context.Context, in FormInput) error {
	id := uuid.NewString()

	var doc any = in.Trimmed()
	if s.Mode == ModeOpaque {
		doc = opaquePayload{FormInput: in.Trimmed(), ID: id}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("contact: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contact: build request: %w", err)
	}
	req.Header.Set(SubmissionIDHeader, id)
	if s.Mode == ModeOpaque {
		req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
		req.Header.Set(FetchModeHeader, "no-cors")
	} else {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return &TransportError{Endpoint: s.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	if s.Mode == ModeOpaque {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return readAck(resp)
}

// readAck enforces the acknowledged contract.
func readAck(resp *http.Response) error {
	var ack Ack
	dec := json.NewDecoder(io.LimitReader(resp.Body, 64<<10))
	decErr := dec.Decode(&ack)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &AckError{Status: resp.StatusCode, Reason: ack.Error}
	}
	if decErr != nil {
		return &AckError{Status: resp.StatusCode, Reason: "unreadable acknowledgement"}
	}
	if !ack.Success {
		return &AckError{Status: resp.StatusCode, Reason: ack.Error}
	}
	return nil
}
