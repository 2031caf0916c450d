// internal/contact/validate.go
//
// Landing – Contact pipeline: field validation.
//
// Context
//   Validate is the only rule book for the contact form.  The browser, the
//   terminal client, and the page server all call it, so a visitor sees the
//   same message wherever the check runs.
//
// Workflow
//   •  Every field is checked.  A failure on one never skips the others.
//   •  Lengths count runes after trimming.  The phone rule is a plain length
//      check, not a digit count.
//   •  The email pattern runs against the raw value, so surrounding spaces
//      fail it.
//
//------------------------------------------------------------------------------

package contact

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// User-facing messages.  Clients render them verbatim.
const (
	MsgName    = "Name must be at least 2 characters long"
	MsgEmail   = "Please enter a valid email address"
	MsgPhone   = "Please enter a valid phone number"
	MsgMessage = "Message must be at least 10 characters long"
)

const (
	minNameLen     = 2
	minPhoneLen    = 10
	minMessageLen  = 10
	maxPhoneDigits = 10
)

// local@domain.tld, no whitespace or extra “@” in any part.  The class is
// the browser's \s set, which is wider than RE2's ASCII-only \s.
const notSpaceOrAt = `[^\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + notSpaceOrAt + `+@` + notSpaceOrAt + `+\.` + notSpaceOrAt + `+$`)

// FieldResult is the verdict for one field.  Message is empty when Valid.
type FieldResult struct {
	Valid   bool
	Message string
}

// ValidationResult maps every field to its verdict.
type ValidationResult map[Field]FieldResult

// Valid reports whether all four fields passed.
func (r ValidationResult) Valid() bool {
	for _, f := range Fields {
		if res, ok := r[f]; !ok || !res.Valid {
			return false
		}
	}
	return true
}

// Invalid returns the failing fields in display order.
func (r ValidationResult) Invalid() []Field {
	var out []Field
	for _, f := range Fields {
		if res, ok := r[f]; ok && !res.Valid {
			out = append(out, f)
		}
	}
	return out
}

// Messages returns field → message for the failing fields only.
func (r ValidationResult) Messages() map[string]string {
	out := make(map[string]string)
	for _, f := range r.Invalid() {
		out[string(f)] = r[f].Message
	}
	return out
}

// Validate checks in against the contact rules.  It has no side effects.
func Validate(in FormInput) ValidationResult {
	return ValidationResult{
		FieldName:    check(minLen(in.Name, minNameLen), MsgName),
		FieldEmail:   check(emailPattern.MatchString(in.Email), MsgEmail),
		FieldPhone:   check(minLen(in.Phone, minPhoneLen), MsgPhone),
		FieldMessage: check(minLen(in.Message, minMessageLen), MsgMessage),
	}
}

// CheckEmail is the on-blur rule: an empty value is left alone, a non-empty
// one must look like an address.
func CheckEmail(s string) (string, bool) {
	if s == "" || emailPattern.MatchString(s) {
		return "", true
	}
	return MsgEmail, false
}

// NormalizePhone strips every non-digit and keeps at most ten digits.
func NormalizePhone(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if n == maxPhoneDigits {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func minLen(s string, n int) bool {
	return Length(Trim(s)) >= n
}

// Length counts UTF-16 code units, the unit the page's length rules were
// written against: an emoji counts as two.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Trim removes leading and trailing whitespace as a browser's
// String.prototype.trim does.  Unlike strings.TrimSpace it strips U+FEFF and
// keeps U+0085.
func Trim(s string) string { return strings.TrimFunc(s, isSpace) }

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

func check(ok bool, msg string) FieldResult {
	if ok {
		return FieldResult{Valid: true}
	}
	return FieldResult{Message: msg}
}
