package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestRun(t *testing.T) {
	keys := []string{"mcq", "written", "practical", "viva"}

	tests := []struct {
		name          string
		failing       map[int]bool
		wantSucceeded []string
		wantFailed    []string
	}{
		{name: "all succeed", wantSucceeded: keys, wantFailed: []string{}},
		{name: "one fails, others still run", failing: map[int]bool{1: true}, wantSucceeded: []string{"mcq", "practical", "viva"}, wantFailed: []string{"written"}},
		{name: "all fail", failing: map[int]bool{0: true, 1: true, 2: true, 3: true}, wantSucceeded: []string{}, wantFailed: keys},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			rep := Run(context.Background(), keys, 2, func(_ context.Context, i int) error {
				atomic.AddInt32(&calls, 1)
				if tt.failing[i] {
					return errBoom
				}
				return nil
			})

			assert.EqualValues(t, len(keys), calls)
			assert.Equal(t, len(keys), rep.Total)
			assert.NotEmpty(t, rep.ID)
			assert.Equal(t, tt.wantSucceeded, itemKeys(rep.Succeeded))
			assert.Equal(t, tt.wantFailed, itemKeys(rep.Failed))
			for _, it := range rep.Failed {
				assert.Equal(t, errBoom, it.Err())
				assert.Equal(t, "boom", it.Error)
			}
			assert.Equal(t, len(tt.failing) == 0, rep.OK())
		})
	}
}

func TestRun_Partial(t *testing.T) {
	rep := Run(context.Background(), []string{"a", "b"}, 0, func(_ context.Context, i int) error {
		if i == 0 {
			return errBoom
		}
		return nil
	})
	assert.True(t, rep.Partial())
	assert.False(t, rep.OK())
}

func TestRun_Limit(t *testing.T) {
	var inFlight, peak int32
	keys := make([]string, 10)
	Run(context.Background(), keys, 3, func(context.Context, int) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil
	})
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	rep := Run(ctx, []string{"a", "b", "c"}, 1, func(context.Context, int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.Len(t, rep.Failed, 3)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Equal(t, context.Canceled, rep.Failed[0].Err())
}

func itemKeys(items []Item) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	return keys
}
