package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorExitCodeMapping(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		code int
	}{
		{ErrConfig, 2},
		{ErrInputFormat, 3},
		{ErrStall, 4},
		{ErrWorker, 5},
	}
	for _, c := range cases {
		e := &Error{Kind: c.kind, Stage: "x", Err: errors.New("boom")}
		require.Equal(t, c.code, e.ExitCode())
	}
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	e := &Error{Kind: ErrWorker, Stage: "writer", Err: cause}
	require.ErrorIs(t, e, cause)
}

func TestErrorStringIncludesStageAndKind(t *testing.T) {
	e := &Error{Kind: ErrStall, Stage: "reader", Err: errors.New("timed out")}
	require.Contains(t, e.Error(), "stall")
	require.Contains(t, e.Error(), "reader")
	require.Contains(t, e.Error(), "timed out")
}
