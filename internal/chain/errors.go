package chain

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrCodeNotFound      = crerr.New("code not found")
	ErrContractNotFound  = crerr.New("contract not found")
	ErrInsufficientFunds = crerr.New("insufficient funds")
	ErrInvalidMessage    = crerr.New("invalid message")
)

type UnexpectedReplyError struct {
	ID uint64
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("contract does not handle replies: id=%d", e.ID)
}

// invalidMessage keeps ErrInvalidMessage and the cause both reachable through errors.Is.
func invalidMessage(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrInvalidMessage, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidMessage, msg, cause)
}
