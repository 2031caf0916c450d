// internal/form/submit.go
//
// Landing – Forms subsystem: consolidated Submit helper.
//
// Context
//   Handlers want one call that parses the POST body, validates input,
//   stamps the submission, executes configured actions, and returns either a
//   Submission or an error the handler can map to a status code.
//   HandleSubmit provides that so component code stays terse.
//
// Workflow
//   •  JSON bodies (Content-Type application/json) come from the browser or
//      terminal controller and skip the form token.
//   •  Anything else is parsed as an HTML form and goes through ValidateForm.
//   •  The ID is the client's X-Submission-ID when it parses as a UUID, so a
//      retried request maps to the same row; otherwise a fresh one.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/landing/internal/contact"
	"github.com/yanizio/landing/internal/metrics"
	"github.com/yanizio/landing/internal/requestinfo"
)

// MaxBodyBytes caps request bodies.  The largest valid payload is well below.
const MaxBodyBytes = 64 << 10

// ErrMalformed marks a body that could not be decoded at all.
var ErrMalformed = errors.New("form: malformed request body")

// Submission is one accepted contact request.
type Submission struct {
	ID         string                   `json:"id"`
	Input      contact.FormInput        `json:"input"`
	Info       *requestinfo.RequestInfo `json:"info,omitempty"`
	ReceivedAt time.Time                `json:"received_at"`
	Duplicate  bool                     `json:"-"`
}

// SubmitOptions carries the collaborators HandleSubmit needs.
type SubmitOptions struct {
	Signer   *Signer   // required for HTML form posts
	Executor *Executor // optional; nil runs no actions
}

// HandleSubmit parses r, validates, stamps, and executes actions.  On
// validation failure it returns a validationError (see IsValidationError);
// on an undecodable body, an error wrapping ErrMalformed.
func HandleSubmit(r *http.Request, opts SubmitOptions) (*Submission, error) {
	in, errs, err := decode(r, opts.Signer)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}
	if len(errs) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		for _, e := range errs {
			name := e.Name
			if name == "" {
				name = "form"
			}
			metrics.ValidationFailuresTotal.WithLabelValues(name).Inc()
		}
		return nil, validationError{Fields: errs}
	}

	sub := &Submission{
		ID:         submissionID(r.Header.Get(contact.SubmissionIDHeader)),
		Input:      in.Trimmed(),
		Info:       requestinfo.FromContext(r.Context()),
		ReceivedAt: time.Now().UTC(),
	}
	if opts.Executor != nil {
		sub.Duplicate = opts.Executor.Execute(r.Context(), sub)
	}

	outcome := "accepted"
	if sub.Duplicate {
		outcome = "duplicate"
	}
	metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	return sub, nil
}

// IsValidationError reports whether err came from failed validation.
func IsValidationError(err error) bool {
	_, ok := asValidation(err)
	return ok
}

func asValidation(err error) (validationError, bool) {
	var ve validationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// IsJSON reports whether r carries a JSON body.
func IsJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// decode reads the body in whichever shape it arrived.
func decode(r *http.Request, s *Signer) (contact.FormInput, []ErrorField, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	if IsJSON(r) {
		var in contact.FormInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("empty body")
			}
			return in, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return in, ValidatePayload(in), nil
	}

	if err := r.ParseForm(); err != nil {
		return contact.FormInput{}, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	in, errs := ValidateForm(r.PostForm, s)
	return in, errs, nil
}

func submissionID(header string) string {
	if id, err := uuid.Parse(header); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
