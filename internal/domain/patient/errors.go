package patient

import "errors"

var (
	// ErrDuplicateEmail reports an attempt to register or update a patient
	// with an email that another patient already holds.
	ErrDuplicateEmail = errors.New("patient email already registered")

	// ErrNotFound reports an update or delete against an id that does not
	// resolve to a stored patient.
	ErrNotFound = errors.New("patient not found")
)
