// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports whether the context is already done, returning its
// error (Canceled or DeadlineExceeded) if so and nil otherwise. Used as
// an entry guard at the top of blocking operations.
//
// ctx.Err() is nil until Done is closed, so no select is needed.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
