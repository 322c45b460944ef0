// Package join runs independent fetches concurrently and reports each
// branch's outcome separately once all of them have settled.
package join

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Both waits for fa and fb. A failing branch does not cancel the other one.
func Both[A, B any](ctx context.Context, fa func(context.Context) (A, error), fb func(context.Context) (B, error)) (Result[A], Result[B]) {
	var ra Result[A]
	var rb Result[B]
	var g errgroup.Group
	g.Go(func() error {
		ra.Value, ra.Err = fa(ctx)
		return nil
	})
	g.Go(func() error {
		rb.Value, rb.Err = fb(ctx)
		return nil
	})
	_ = g.Wait()
	return ra, rb
}
