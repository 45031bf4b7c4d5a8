package service

import (
	"fmt"

	internalErrors "github.com/vogiaan1904/ticketbottle-parkgate/internal/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/eligibility"
)

// NotAllowedError is returned when a check-in is attempted while the
// eligibility rules deny it.
type NotAllowedError struct {
	Reason eligibility.Reason
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("%v: %s", internalErrors.ErrCheckinNotAllowed, e.Reason)
}

func (e *NotAllowedError) Unwrap() error {
	return internalErrors.ErrCheckinNotAllowed
}
