package domain

import "errors"

var (
	// ErrValidation marks a request rejected by client-side validation.
	ErrValidation = errors.New("validation failed")

	// ErrQuota marks an upload that would exceed the account's storage quota.
	ErrQuota = errors.New("storage quota exceeded")

	// ErrInvalidHardness is returned when a hardness level is outside the closed set.
	ErrInvalidHardness = errors.New("invalid hardness level")

	// ErrInvalidDraftStatus is returned when a draft status is not recognised.
	ErrInvalidDraftStatus = errors.New("invalid draft status")

	// ErrInvalidTransition is returned for draft status changes that are not allowed.
	ErrInvalidTransition = errors.New("invalid draft status transition")
)
