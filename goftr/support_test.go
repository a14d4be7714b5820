package goftr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendID(t *testing.T) {
	opts := PrintIntOpts{MinWidth: 4}
	require.Equal(t, "  42", string(AppendID(nil, 42, opts)))
	require.Equal(t, "  -7", string(AppendID(nil, -7, opts)))
	require.Equal(t, "123456", string(AppendID(nil, 123456, opts)))
	require.Equal(t, "0", string(AppendID(nil, 0, PrintIntOpts{})))

	opts.NullDash = true
	require.Equal(t, "   -", string(AppendID(nil, int64(NullNode), opts)))
	require.Equal(t, "x:   9", string(AppendID([]byte("x:"), 9, opts)))
}

func TestTreeTypeString(t *testing.T) {
	require.Equal(t, "join", JoinTree.String())
	require.Equal(t, "split", SplitTree.String())
	require.Equal(t, "TreeType(7)", TreeType(7).String())
}
