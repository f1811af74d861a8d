// Package batch runs a group of independent mutations and reports each item's outcome.
// A failing item never aborts the others and nothing is rolled back.
package batch

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is used when Run is given a limit < 1.
const DefaultLimit = 4

type (
	// Item is the outcome of one batch member.
	Item struct {
		Index int    `json:"index"`
		Key   string `json:"key"`
		Error string `json:"error,omitempty"`

		err error
	}

	Report struct {
		ID        string `json:"id"`
		Total     int    `json:"total"`
		Succeeded []Item `json:"succeeded"`
		Failed    []Item `json:"failed"`
	}
)

// Err returns the error the item failed with.
func (it Item) Err() error { return it.err }

// OK reports whether every item succeeded.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Partial reports whether some, but not all, items failed.
func (r Report) Partial() bool { return len(r.Failed) > 0 && len(r.Succeeded) > 0 }

// Run calls fn for every index of keys with at most limit calls in flight.
// keys label the items in the Report; both Report lists keep input order.
// Items that could not start because ctx is done are failed with ctx.Err().
func Run(ctx context.Context, keys []string, limit int, fn func(ctx context.Context, i int) error) Report {
	if limit < 1 {
		limit = DefaultLimit
	}
	errs := make([]error, len(keys))

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i := range keys {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(ctx, i)
			return nil // settle every item
		})
	}
	_ = g.Wait()

	rep := Report{
		ID:        uuid.New().String(),
		Total:     len(keys),
		Succeeded: make([]Item, 0, len(keys)),
		Failed:    make([]Item, 0),
	}
	for i, key := range keys {
		it := Item{Index: i, Key: key, err: errs[i]}
		if it.err != nil {
			it.Error = it.err.Error()
			rep.Failed = append(rep.Failed, it)
		} else {
			rep.Succeeded = append(rep.Succeeded, it)
		}
	}
	return rep
}
