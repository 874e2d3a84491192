package onboarding

import (
	"fmt"
	"strconv"
	"time"

	"github.com/orientame/onboarding-api/internal/models"
)

// NewForm returns an empty idle form for executive
func NewForm(id string, executive models.Executive, now time.Time) models.CounselorForm {
	return models.CounselorForm{
		ID:        id,
		Executive: executive,
		Errors:    models.ValidationErrors{},
		Status:    models.FormStatusIdle,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyEdit returns form with field set to value. A pending error on that
// field is dropped without validating the new value.
func ApplyEdit(form models.CounselorForm, field, value string, now time.Time) (models.CounselorForm, error) {
	if form.Status == models.FormStatusDone {
		return form, ErrFormClosed
	}

	fields, ok := form.Fields.With(field, value)
	if !ok {
		return form, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	next := form.Clone()
	next.Fields = fields
	if _, hasErr := next.Errors[field]; hasErr {
		next.Errors = next.Errors.Without(field)
	}
	return touch(next, now), nil
}

// BeginSubmit runs validation and, when it passes, moves the form to
// submitting. The returned form carries the fresh error map either way.
func BeginSubmit(form models.CounselorForm, v *Validator, now time.Time) (models.CounselorForm, error) {
	switch form.Status {
	case models.FormStatusSubmitting:
		return form, ErrSubmitInProgress
	case models.FormStatusDone:
		return form, ErrFormClosed
	}

	next := form.Clone()
	next.Errors = v.Validate(form.Fields)
	if len(next.Errors) == 0 {
		next.Status = models.FormStatusSubmitting
	}
	return touch(next, now), nil
}

// BuildCounselor assembles the output record from submitted values
func BuildCounselor(fields models.CounselorFields, executive models.Executive, avatars *AvatarGenerator, now time.Time) models.Counselor {
	return models.Counselor{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		FullName:    fields.FullName,
		Position:    fields.Position,
		Email:       fields.Email,
		Phone:       fields.Phone,
		Region:      fields.Region,
		Commune:     fields.Commune,
		School:      fields.School,
		Avatar:      avatars.Generate(fields.FullName),
		ExecutiveID: executive.ID,
		CreatedAt:   now,
	}
}

// Complete marks a submitting form as done with its counselor attached.
// The fields are reset to the saved values, dropping edits made meanwhile.
func Complete(form models.CounselorForm, counselor models.Counselor, now time.Time) models.CounselorForm {
	next := form.Clone()
	next.Fields = counselor.Fields()
	next.Status = models.FormStatusDone
	next.Counselor = &counselor
	return touch(next, now)
}

// Reopen returns a submitting form to idle, keeping its values
func Reopen(form models.CounselorForm, now time.Time) models.CounselorForm {
	next := form.Clone()
	if next.Status == models.FormStatusSubmitting {
		next.Status = models.FormStatusIdle
	}
	return touch(next, now)
}

func touch(form models.CounselorForm, now time.Time) models.CounselorForm {
	form.Version++
	form.UpdatedAt = now
	return form
}
