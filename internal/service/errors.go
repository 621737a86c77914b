package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation wraps every input problem detected by a service
	ErrValidation = errors.New("validation failed")
	// ErrMealNotFound is returned when no meal has the requested id
	ErrMealNotFound = errors.New("meal not found")
	// ErrMealNotFlagged is returned when an existing meal has no suspicious marker
	ErrMealNotFlagged = errors.New("meal is not marked as suspicious")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
