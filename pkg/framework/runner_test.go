package framework

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerStopsAllOnFirstExit(t *testing.T) {
	linkErr := errors.New("link closed")
	r := NewRunner()
	r.Go(
		NamedRun("link", RunFunc(func(ctx context.Context) error {
			return linkErr
		})),
		NamedRun("bridge", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
	)
	require.Equal(t, linkErr, r.Wait())
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	err1, err2 := errors.New("err1"), errors.New("err2")
	require.Equal(t, err1, errs.Add(err1, nil).Aggregate())
	require.Equal(t, "Multiple errors:\nerr1\nerr2", errs.Add(err2).Aggregate().Error())
}

type closeFunc func() error

func (f closeFunc) Close() error {
	return f()
}

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblockCh := make(chan struct{})
	closes := 0
	closer := closeFunc(func() error {
		closes++
		close(unblockCh)
		return nil
	})
	cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblockCh
		return io.EOF
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closes)

	closes = 0
	unblockCh = make(chan struct{})
	err = RunWithContextCloser(context.Background(), closer, func() error {
		return io.EOF
	})
	require.Equal(t, io.EOF, err)
	require.Equal(t, 1, closes)
}
