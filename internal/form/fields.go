// internal/form/fields.go
//
// Landing – Forms subsystem: the contact field set.
//
// Context
//   The page has exactly one form with four fields.  FieldDefs carries the
//   markup metadata for each one (label, input type, placeholder) and the
//   server-side length cap, which matches the storage column widths.
//
//------------------------------------------------------------------------------

package form

import "github.com/yanizio/landing/internal/contact"

// FieldDef describes one input control.
type FieldDef struct {
	Field       contact.Field
	Label       string
	Type        string // text, email, tel, textarea
	Placeholder string
	MaxLength   int // 0 means unset
	Rows        int // textarea only
}

// FieldDefs lists the controls in display order.
var FieldDefs = []FieldDef{
	{Field: contact.FieldName, Label: "Full Name", Type: "text", Placeholder: "Your name", MaxLength: 200},
	{Field: contact.FieldEmail, Label: "Email Address", Type: "email", Placeholder: "you@example.com", MaxLength: 320},
	{Field: contact.FieldPhone, Label: "Phone Number", Type: "tel", Placeholder: "5551234567", MaxLength: 20},
	{Field: contact.FieldMessage, Label: "Message", Type: "textarea", Placeholder: "How can we help?", MaxLength: 5000, Rows: 5},
}

// Def returns the definition for f.
func Def(f contact.Field) (FieldDef, bool) {
	for _, d := range FieldDefs {
		if d.Field == f {
			return d, true
		}
	}
	return FieldDef{}, false
}
