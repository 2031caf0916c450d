// internal/form/validate.go
//
// Landing – Forms subsystem: server-side validation.
//
// Context
//   Both submission paths end here.  The JSON endpoint receives what the
//   browser controller already validated, so ValidatePayload reruns the same
//   contact rules (a client can be bypassed) plus length caps sized to the
//   storage columns.  The HTML fallback additionally checks the form token
//   and render timestamp before any field is looked at.
//
// Workflow
//   •  ValidateForm(posted, signer) → token, timing, then ValidatePayload.
//   •  Errors are []ErrorField.  An empty Name marks a form-level problem.
//   •  HandleSubmit wraps a non-empty slice in validationError so callers
//      can tell visitor mistakes from system failures.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/yanizio/landing/internal/contact"
)

// Form-level messages.
const (
	MsgToken    = "Security token invalid.  Please refresh and try again."
	MsgNoTS     = "Timestamp missing.  Please reload the page."
	MsgBadTS    = "Bad timestamp.  Please retry."
	MsgTooFast  = "Form submitted too quickly.  Please enter the fields manually."
	MsgExpired  = "Form expired.  Please reload and submit again."
	MinFillTime = 2 * time.Second
)

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single validation failure.
type ErrorField struct {
	Name    string `json:"field"`
	Message string `json:"message"`
}

// validationError wraps []ErrorField and satisfies error.
type validationError struct{ Fields []ErrorField }

func (ve validationError) Error() string { return "form validation failed" }

// FieldErrors returns the failures of a validation error, or nil.
func FieldErrors(err error) []ErrorField {
	if ve, ok := asValidation(err); ok {
		return ve.Fields
	}
	return nil
}

// Messages maps field name → message.  Form-level errors use the key "form".
func Messages(errs []ErrorField) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		k := e.Name
		if k == "" {
			k = "form"
		}
		if _, seen := out[k]; !seen {
			out[k] = e.Message
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// ValidatePayload applies the contact rules and the length caps to in.
// Fields are reported in display order.
func ValidatePayload(in contact.FormInput) []ErrorField {
	res := contact.Validate(in)

	var errs []ErrorField
	for _, f := range contact.Fields {
		if r := res[f]; !r.Valid {
			errs = append(errs, ErrorField{Name: string(f), Message: r.Message})
			continue
		}
		if def, ok := Def(f); ok && def.MaxLength > 0 {
			if contact.Length(in.Trimmed().Value(f)) > def.MaxLength {
				errs = append(errs, ErrorField{
					Name:    string(f),
					Message: fmt.Sprintf("Must be at most %d characters.", def.MaxLength),
				})
			}
		}
	}
	return errs
}

// ValidateForm validates an HTML form post.  The phone value is normalised
// the way the browser's live formatting would have done it.
func ValidateForm(posted url.Values, s *Signer) (contact.FormInput, []ErrorField) {
	if tok := posted.Get("csrf_token"); tok == "" || s == nil || !s.Verify(tok) {
		return contact.FormInput{}, []ErrorField{{Message: MsgToken}}
	}
	if msg := checkTiming(posted.Get("render_ts"), time.Now()); msg != "" {
		return contact.FormInput{}, []ErrorField{{Message: msg}}
	}

	in := contact.FormInput{
		Name:    posted.Get(string(contact.FieldName)),
		Email:   posted.Get(string(contact.FieldEmail)),
		Phone:   contact.NormalizePhone(posted.Get(string(contact.FieldPhone))),
		Message: posted.Get(string(contact.FieldMessage)),
	}
	return in, ValidatePayload(in)
}

// -----------------------------------------------------------------------------
// Form-level helpers
// -----------------------------------------------------------------------------

// checkTiming rejects forms submitted suspiciously fast or too late.
// Returns empty string on success.
func checkTiming(tsRaw string, now time.Time) string {
	if tsRaw == "" {
		return MsgNoTS
	}
	ts, err := strconv.ParseInt(tsRaw, 10, 64)
	if err != nil {
		return MsgBadTS
	}
	delta := now.Sub(time.UnixMicro(ts))
	switch {
	case delta < MinFillTime:
		return MsgTooFast
	case delta > MaxTokenAge:
		return MsgExpired
	default:
		return ""
	}
}
