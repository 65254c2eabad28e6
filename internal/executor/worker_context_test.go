package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/querypipe/internal/processor"
)

func TestNewWorkerContext(t *testing.T) {
	t.Parallel()

	wc := NewWorkerContext(7)
	assert.Equal(t, 7, wc.WorkerID())
	assert.False(t, wc.HasTask())
	assert.Empty(t, wc.TaskName())
}

func TestSetTask(t *testing.T) {
	t.Parallel()

	wc := NewWorkerContext(0)
	wc.SetTask(SyncTask(&stubSync{name: "gen.rows"}))
	assert.True(t, wc.HasTask())
	assert.Equal(t, "gen.rows", wc.TaskName())

	wc.SetTask(WorkerTask{})
	assert.False(t, wc.HasTask())
}

func TestExecuteTask_Empty(t *testing.T) {
	t.Parallel()

	wc := NewWorkerContext(3)
	_, err := wc.ExecuteTask(context.Background(), &stubQueue{})
	require.ErrorIs(t, err, ErrNoTask)
	assert.Equal(t, 3, wc.WorkerID())
}

func TestExecuteTask_SyncSuccess(t *testing.T) {
	t.Parallel()

	proc := &stubSync{name: "gen.rows"}
	wc := NewWorkerContext(0)
	wc.SetTask(SyncTask(proc))

	completion, err := wc.ExecuteTask(context.Background(), &stubQueue{})
	require.NoError(t, err)
	assert.Equal(t, Completed, completion)
	assert.Equal(t, 1, proc.callCount())
	assert.False(t, wc.HasTask(), "held task must be consumed")
}

func TestExecuteTask_SyncFailurePropagatesVerbatim(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk exploded")
	proc := &stubSync{name: "gen.rows", err: cause}
	wc := NewWorkerContext(0)
	wc.SetTask(SyncTask(proc))

	_, err := wc.ExecuteTask(context.Background(), &stubQueue{})
	require.ErrorIs(t, err, cause)
	assert.False(t, wc.HasTask())
}

func TestExecuteTask_ConsumedExactlyOnce(t *testing.T) {
	t.Parallel()

	proc := &stubSync{name: "gen.rows"}
	wc := NewWorkerContext(0)
	wc.SetTask(SyncTask(proc))

	_, err := wc.ExecuteTask(context.Background(), &stubQueue{})
	require.NoError(t, err)

	// Executing again without a new assignment is an invariant violation.
	_, err = wc.ExecuteTask(context.Background(), &stubQueue{})
	require.ErrorIs(t, err, ErrNoTask)
	assert.Equal(t, 1, proc.callCount())
}

func TestExecuteTask_AsyncImmediateSuccess(t *testing.T) {
	t.Parallel()

	poll := &scriptedPoll{}
	queue := &stubQueue{}
	wc := NewWorkerContext(0)
	wc.SetTask(AsyncStartTask(&stubAsync{name: "fetch.remote", poll: poll}))

	completion, err := wc.ExecuteTask(context.Background(), queue)
	require.NoError(t, err)
	assert.Equal(t, Completed, completion)
	assert.Equal(t, 1, poll.pollCount())
	assert.Zero(t, queue.parks, "first-poll success must never park")
}

func TestExecuteTask_AsyncImmediateFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	poll := &scriptedPoll{err: cause}
	queue := &stubQueue{}
	wc := NewWorkerContext(0)
	wc.SetTask(AsyncStartTask(&stubAsync{name: "fetch.remote", poll: poll}))

	_, err := wc.ExecuteTask(context.Background(), queue)
	require.ErrorIs(t, err, cause)
	assert.Zero(t, queue.parks, "first-poll failure must never park")
}

func TestExecuteTask_AsyncParks(t *testing.T) {
	t.Parallel()

	poll := &scriptedPoll{pending: 1}
	queue := &stubQueue{}
	wc := NewWorkerContext(0)
	wc.SetTask(AsyncStartTask(&stubAsync{name: "fetch.remote", poll: poll}))

	completion, err := wc.ExecuteTask(context.Background(), queue)
	require.NoError(t, err)
	assert.Equal(t, Parked, completion, "control must return without blocking once parked")
	assert.Equal(t, 1, poll.pollCount(), "a parked task must not be polled again")
	assert.Equal(t, 1, queue.parks)
}

func TestExecuteTask_AsyncResume(t *testing.T) {
	t.Parallel()

	poll := &scriptedPoll{}
	queue := &stubQueue{}
	wc := NewWorkerContext(0)
	wc.SetTask(ResumeTask(newAsyncTask("fetch.remote", poll)))

	completion, err := wc.ExecuteTask(context.Background(), queue)
	require.NoError(t, err)
	assert.Equal(t, Completed, completion)
	assert.Equal(t, 1, poll.pollCount())
}

func TestExecuteTask_LostWakeupRace(t *testing.T) {
	t.Parallel()

	t.Run("single bounce re-polls in the same call", func(t *testing.T) {
		t.Parallel()

		poll := &scriptedPoll{pending: 1}
		queue := &stubQueue{bounces: 1}
		wc := NewWorkerContext(0)
		wc.SetTask(AsyncStartTask(&stubAsync{name: "fetch.remote", poll: poll}))

		completion, err := wc.ExecuteTask(context.Background(), queue)
		require.NoError(t, err)
		assert.Equal(t, Completed, completion, "a bounced park must never surface as Parked")
		assert.Equal(t, 2, poll.pollCount())
		assert.Equal(t, 1, queue.parks, "park invoked exactly once and rejected exactly once")
	})

	t.Run("repeated bounces keep polling until completion", func(t *testing.T) {
		t.Parallel()

		poll := &scriptedPoll{pending: 3}
		queue := &stubQueue{bounces: 3}
		wc := NewWorkerContext(0)
		wc.SetTask(AsyncStartTask(&stubAsync{name: "fetch.remote", poll: poll}))

		completion, err := wc.ExecuteTask(context.Background(), queue)
		require.NoError(t, err)
		assert.Equal(t, Completed, completion)
		assert.Equal(t, 4, poll.pollCount())
		assert.Equal(t, 3, queue.parks)
	})
}

func TestScheduleAsync_FlagResetBeforeEveryPoll(t *testing.T) {
	t.Parallel()

	task := newAsyncTask("fetch.remote", nil)
	poll := &scriptedPoll{pending: 1}
	poll.onPending = func(w processor.Waker) { w.Wake() }
	poll.onPoll = func() {
		assert.False(t, task.ready.Load(), "readiness flag must be re-armed before each poll")
	}
	task.pollable = poll

	wc := NewWorkerContext(0)
	wc.SetTask(ResumeTask(task))

	// The wake fired during the pending poll forces one bounce; the retry
	// iteration must reset the flag again before polling.
	completion, err := wc.ExecuteTask(context.Background(), &stubQueue{bounces: 1})
	require.NoError(t, err)
	assert.Equal(t, Completed, completion)
	assert.Equal(t, 2, poll.pollCount())
}
