package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/runtime"
)

func TestSessionLifecycle(t *testing.T) {
	s := New()

	a := s.CreateSession()
	b := s.CreateSession()
	assert.NotEqual(t, a.ID, b.ID)

	got, err := s.GetSession(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	list := s.ListSessions()
	require.Len(t, list, 2)

	require.NoError(t, s.DeleteSession(a.ID))
	_, err = s.GetSession(a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteSession(a.ID), ErrNotFound))
	assert.Len(t, s.ListSessions(), 1)
}

func TestSessionExec(t *testing.T) {
	sess := New().CreateSession()
	ctx := context.Background()

	run, err := sess.Exec(ctx, `name = "gm"; n = 8`)
	require.NoError(t, err)
	assert.Equal(t, RunSucceeded, run.State)
	assert.Equal(t, 1, run.ID)
	require.NotNil(t, run.Result)
	assert.Equal(t, Variable{Type: "real", Value: "8"}, *run.Result)

	run, err = sess.Exec(ctx, `name + string(n)`)
	require.NoError(t, err)
	assert.Equal(t, `"gm8"`, run.Result.Value)

	run, err = sess.Exec(ctx, `n += name`)
	require.Error(t, err)
	assert.True(t, gml.IsInvalidOperands(err))
	assert.Equal(t, RunFailed, run.State)
	assert.Contains(t, run.Error, `invalid operands 8 and "gm" for operator +=`)
	assert.Nil(t, run.Result)

	info := sess.Info(true)
	assert.Equal(t, 3, info.RunCount)
	assert.Len(t, info.Runs, 3)
	assert.Equal(t, []Variable{
		{Name: "n", Type: "real", Value: "8"},
		{Name: "name", Type: "string", Value: `"gm"`},
	}, info.Variables)

	assert.Nil(t, sess.Info(false).Runs)
}

func TestRunHistoryIsCapped(t *testing.T) {
	sess := New().CreateSession()
	for i := 0; i < MaxRunHistory+5; i++ {
		_, err := sess.Exec(context.Background(), "1")
		require.NoError(t, err)
	}

	info := sess.Info(true)
	assert.Equal(t, MaxRunHistory+5, info.RunCount)
	require.Len(t, info.Runs, MaxRunHistory)
	assert.Equal(t, 6, info.Runs[0].ID)
}

func TestStoreOptionsApplyToSessions(t *testing.T) {
	sess := New(runtime.WithStepLimit(1)).CreateSession()
	_, err := sess.Exec(context.Background(), "a = 1; b = 2")
	assert.True(t, errors.Is(err, runtime.ErrStepLimit))
}

func TestConcurrentExec(t *testing.T) {
	sess := New().CreateSession()
	_, err := sess.Exec(context.Background(), "n = 0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sess.Exec(context.Background(), "n += 1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	info := sess.Info(false)
	assert.Equal(t, []Variable{{Name: "n", Type: "real", Value: "20"}}, info.Variables)
}
