package federation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDispatcher struct {
	dispatch func(ctx context.Context, job Job) error
}

func (td *testDispatcher) Dispatch(ctx context.Context, job Job) error {
	return td.dispatch(ctx, job)
}

func TestDeferrer_SurvivesRequestCancellation(t *testing.T) {
	var (
		mu   sync.Mutex
		got  []Job
		errs []error
	)
	d := NewDeferrer(&testDispatcher{dispatch: func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, job)
		errs = append(errs, ctx.Err())
		return nil
	}}, time.Second, slogt.New(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d.Defer(ctx, Job{EntityType: EntityComment, EntityGUID: "c-1"})
	d.Wait()

	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].EntityGUID)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.NoError(t, errs[0])
}

func TestDeferrer_FailureIsSwallowed(t *testing.T) {
	calls := 0
	d := NewDeferrer(&testDispatcher{dispatch: func(context.Context, Job) error {
		calls++
		return errors.New("redis down")
	}}, time.Second, slogt.New(t))

	d.Defer(context.Background(), Job{EntityType: EntityConversation, EntityGUID: "conv-1"})
	d.Wait()

	assert.Equal(t, 1, calls)
}

func TestDeferrer_AppliesTimeout(t *testing.T) {
	var deadline time.Time
	d := NewDeferrer(&testDispatcher{dispatch: func(ctx context.Context, _ Job) error {
		deadline, _ = ctx.Deadline()
		return nil
	}}, 50*time.Millisecond, slogt.New(t))

	start := time.Now()
	d.Defer(context.Background(), Job{EntityType: EntityLike})
	d.Wait()

	require.False(t, deadline.IsZero())
	assert.WithinDuration(t, start.Add(50*time.Millisecond), deadline, time.Second)
}
