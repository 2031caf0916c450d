// internal/contact/input.go
//
// Landing – Contact pipeline: input model.
//
// Context
//   The contact form has exactly four inputs.  A FormInput is built fresh from
//   the current field values on every submit attempt and dropped once that
//   attempt settles.  Field names double as JSON keys on the wire and as the
//   prefix of each field's error surface (“email-error”).
//
//------------------------------------------------------------------------------

package contact

// Field identifies one of the four contact inputs.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldMessage Field = "message"
)

// Fields lists every input in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldMessage}

// ErrorID returns the stable key of the field's error surface.
func (f Field) ErrorID() string { return string(f) + "-error" }

func (f Field) String() string { return string(f) }

// FormInput is the payload of one submit attempt.  Empty strings stand in for
// absent values.
type FormInput struct {
	Name    string `json:"name"    yaml:"name"`
	Email   string `json:"email"   yaml:"email"`
	Phone   string `json:"phone"   yaml:"phone"`
	Message string `json:"message" yaml:"message"`
}

// Value returns the raw value for f.
func (in FormInput) Value(f Field) string {
	switch f {
	case FieldName:
		return in.Name
	case FieldEmail:
		return in.Email
	case FieldPhone:
		return in.Phone
	case FieldMessage:
		return in.Message
	default:
		return ""
	}
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
// This is the shape sent over the wire.
func (in FormInput) Trimmed() FormInput {
	return FormInput{
		Name:    Trim(in.Name),
		Email:   Trim(in.Email),
		Phone:   Trim(in.Phone),
		Message: Trim(in.Message),
	}
}

// IsZero reports whether every field is empty.
func (in FormInput) IsZero() bool { return in == FormInput{} }
