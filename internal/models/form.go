package models

import "time"

// FormStatus is the state of the submission state machine
type FormStatus string

const (
	FormStatusIdle       FormStatus = "idle"
	FormStatusSubmitting FormStatus = "submitting"
	FormStatusDone       FormStatus = "done"
)

// ValidationErrors maps a field name to its message. A field is absent iff
// it passed the last validation (or was edited since).
type ValidationErrors map[string]string

// Clone returns an independent copy
func (e ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Without returns a copy of e lacking field
func (e ValidationErrors) Without(field string) ValidationErrors {
	out := e.Clone()
	delete(out, field)
	return out
}

// CounselorForm is the whole transient state of one counselor form. Every
// update produces a new value; operations never mutate a form they were
// handed.
type CounselorForm struct {
	ID        string           `json:"id"`
	Executive Executive        `json:"executive"`
	Fields    CounselorFields  `json:"fields"`
	Errors    ValidationErrors `json:"errors"`
	Status    FormStatus       `json:"status"`
	Counselor *Counselor       `json:"counselor,omitempty"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Clone returns a deep copy of the form
func (f CounselorForm) Clone() CounselorForm {
	out := f
	out.Errors = f.Errors.Clone()
	return out
}

// Submitting reports whether the submit control is disabled
func (f CounselorForm) Submitting() bool {
	return f.Status == FormStatusSubmitting
}

// EditFieldRequest is the payload of a single field change
type EditFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SubmitResult is the outcome of a submit attempt
type SubmitResult struct {
	Form         CounselorForm    `json:"form"`
	Counselor    *Counselor       `json:"counselor,omitempty"`
	Notification Notification     `json:"notification"`
	Errors       ValidationErrors `json:"errors,omitempty"`
}

// Accepted reports whether the submit passed validation and completed
func (r *SubmitResult) Accepted() bool {
	return r.Counselor != nil
}

// CatalogResponse lists the selectable options of the counselor form
type CatalogResponse struct {
	Positions []string `json:"positions"`
	Regions   []string `json:"regions"`
}
