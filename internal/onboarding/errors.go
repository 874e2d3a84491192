package onboarding

import (
	"errors"

	apperrors "github.com/orientame/onboarding-api/pkg/errors"
)

var (
	// ErrFormNotFound is returned for unknown, expired or foreign form ids
	ErrFormNotFound = apperrors.NotFoundError("counselor form")

	// ErrSubmitInProgress is returned while a previous submit is still saving
	ErrSubmitInProgress = apperrors.ConflictError("counselor form submission in progress")

	// ErrFormClosed is returned once the counselor has been handed off
	ErrFormClosed = apperrors.GoneError("counselor form already submitted")

	// ErrHandoffFailed is returned when the saved counselor could not be
	// passed on; the form is open again
	ErrHandoffFailed = errors.New("counselor handoff failed")

	// ErrUnknownField is returned when an edit names a field the form lacks
	ErrUnknownField = apperrors.InvalidInputError("field", "unknown counselor form field")
)
