package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTimeout reports whether the store call ran out of time or was cancelled with its caller.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return pgconn.Timeout(err)
}
