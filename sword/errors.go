package sword

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPDF indicates file attached to deposit is not a PDF document.
	ErrNotPDF = errors.New("file is not a PDF document")
	// ErrUnauthorized indicates HAL rejected credentials.
	ErrUnauthorized = errors.New("HAL authentication refused, check credentials")
	// ErrDepositFailed indicates HAL rejected deposit.
	ErrDepositFailed = errors.New("HAL deposit failed")
)

// DepositError carries HAL explanation of rejected deposit.
type DepositError struct {
	StatusCode  int
	Summary     string
	Description string
}

func (e *DepositError) Error() string {
	msg := fmt.Sprintf("%s: status %d", ErrDepositFailed, e.StatusCode)
	if len(e.Summary) > 0 {
		msg += ": " + e.Summary
	}
	if len(e.Description) > 0 {
		msg += " (" + e.Description + ")"
	}
	return msg
}

func (e *DepositError) Unwrap() error {
	return ErrDepositFailed
}
