package models

import "time"

// Counselor form field names, as used in JSON payloads and error maps
const (
	FieldFullName = "fullName"
	FieldPosition = "position"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldRegion   = "region"
	FieldCommune  = "commune"
	FieldSchool   = "school"
)

// CounselorFieldNames lists every editable field in display order
var CounselorFieldNames = []string{
	FieldFullName,
	FieldPosition,
	FieldEmail,
	FieldPhone,
	FieldRegion,
	FieldCommune,
	FieldSchool,
}

// CounselorFields holds the values typed into the counselor form.
// fullName and phone are optional and never validated.
type CounselorFields struct {
	FullName string `json:"fullName"`
	Position string `json:"position" validate:"catalog_position"`
	Email    string `json:"email" validate:"notblank,weakemail"`
	Phone    string `json:"phone"`
	Region   string `json:"region" validate:"catalog_region"`
	Commune  string `json:"commune" validate:"notblank"`
	School   string `json:"school" validate:"notblank"`
}

// Get returns the value of the named field
func (f CounselorFields) Get(field string) (string, bool) {
	switch field {
	case FieldFullName:
		return f.FullName, true
	case FieldPosition:
		return f.Position, true
	case FieldEmail:
		return f.Email, true
	case FieldPhone:
		return f.Phone, true
	case FieldRegion:
		return f.Region, true
	case FieldCommune:
		return f.Commune, true
	case FieldSchool:
		return f.School, true
	}
	return "", false
}

// With returns a copy of f with the named field set to value. ok is false
// for unknown field names.
func (f CounselorFields) With(field, value string) (out CounselorFields, ok bool) {
	out = f
	switch field {
	case FieldFullName:
		out.FullName = value
	case FieldPosition:
		out.Position = value
	case FieldEmail:
		out.Email = value
	case FieldPhone:
		out.Phone = value
	case FieldRegion:
		out.Region = value
	case FieldCommune:
		out.Commune = value
	case FieldSchool:
		out.School = value
	default:
		return f, false
	}
	return out, true
}

// Counselor is the record produced by a successful submit. It is never
// modified after construction.
type Counselor struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Position    string    `json:"position"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Region      string    `json:"region"`
	Commune     string    `json:"commune"`
	School      string    `json:"school"`
	Avatar      string    `json:"avatar"`
	ExecutiveID string    `json:"executiveId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Fields returns the form values the counselor was built from
func (c *Counselor) Fields() CounselorFields {
	return CounselorFields{
		FullName: c.FullName,
		Position: c.Position,
		Email:    c.Email,
		Phone:    c.Phone,
		Region:   c.Region,
		Commune:  c.Commune,
		School:   c.School,
	}
}
