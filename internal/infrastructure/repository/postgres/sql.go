package postgres

import (
	"context"
	"strings"
)

// isBindParameterMismatch matches the error a pooler returns when a prepared
// statement from another session is reused with different arguments.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "requires")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") || strings.Contains(msg, "(26000)")
}

// retryStaleStatement runs fn again once when the first attempt tripped over
// a statement cached by the connection pooler.
func retryStaleStatement(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	if err == nil || !(isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	return fn(ctx)
}
