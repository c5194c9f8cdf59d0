package framework

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())

	errA := errors.New("a")
	err := errs.Add(errA).Aggregate()
	require.EqualError(t, err, "a")

	err = errs.Add(nil, io.EOF).Aggregate()
	require.EqualError(t, err, "multiple errors:\na\nEOF")
	require.True(t, errors.Is(err, io.EOF))
	require.True(t, errors.Is(err, errA))
	require.False(t, errors.Is(err, io.ErrClosedPipe))
}
