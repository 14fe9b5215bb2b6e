package packfile_test

import (
	"testing"

	"github.com/goabstract/packtree/internal/testutil"
	"github.com/goabstract/packtree/plumbing/packfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDeltaCopyAndInsert(t *testing.T) {
	t.Parallel()

	base := []byte("The quick brown fox")
	delta := testutil.BuildDeltaPayload(
		uint64(len(base)),
		uint64(len("The slow brown fox jumps")),
		testutil.EncodeInsertInstruction([]byte("The slow ")),
		testutil.EncodeCopyInstruction(10, 9),
		testutil.EncodeInsertInstruction([]byte(" jumps")),
	)

	out, err := packfile.ResolveDelta(base, delta)
	require.NoError(t, err)
	assert.Equal(t, "The slow brown fox jumps", string(out))
}

func TestResolveDeltaSourceSizeMismatch(t *testing.T) {
	t.Parallel()

	base := []byte("abc")
	delta := testutil.BuildDeltaPayload(99, 0)

	_, err := packfile.ResolveDelta(base, delta)
	require.Error(t, err)
	assert.ErrorIs(t, err, packfile.ErrMalformedDelta)
}

func TestResolveDeltaCopyOutOfRange(t *testing.T) {
	t.Parallel()

	base := []byte("abc")
	delta := testutil.BuildDeltaPayload(
		uint64(len(base)), 10,
		testutil.EncodeCopyInstruction(0, 10),
	)

	_, err := packfile.ResolveDelta(base, delta)
	require.Error(t, err)
	assert.ErrorIs(t, err, packfile.ErrMalformedDelta)
}

func TestResolveDeltaZeroInstructionByteIsMalformed(t *testing.T) {
	t.Parallel()

	base := []byte("abc")
	delta := testutil.BuildDeltaPayload(
		uint64(len(base)), 0,
		[]byte{0},
	)

	_, err := packfile.ResolveDelta(base, delta)
	require.Error(t, err)
	assert.ErrorIs(t, err, packfile.ErrMalformedDelta)
}

func TestResolveDeltaSourceSizeOverflow(t *testing.T) {
	t.Parallel()

	// 10 continuation bytes (MSB set, no terminator yet) is already
	// past readSize's bound: a legitimate size field never needs more
	// than 10 bytes to cover a uint64.
	delta := make([]byte, 11)
	for i := 0; i < 10; i++ {
		delta[i] = 0x80
	}

	_, err := packfile.ResolveDelta(nil, delta)
	require.Error(t, err)
	assert.ErrorIs(t, err, packfile.ErrIntOverflow)
}

func TestResolveDeltaTargetSizeMismatch(t *testing.T) {
	t.Parallel()

	base := []byte("abcdef")
	delta := testutil.BuildDeltaPayload(
		uint64(len(base)), 100,
		testutil.EncodeCopyInstruction(0, 3),
	)

	_, err := packfile.ResolveDelta(base, delta)
	require.Error(t, err)
	assert.ErrorIs(t, err, packfile.ErrMalformedDelta)
}
