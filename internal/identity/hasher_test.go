package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	digest, err := h.Hash("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "s3cret", digest)

	assert.True(t, h.Verify("s3cret", digest))
	assert.False(t, h.Verify("s3cret2", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHasher_SaltedDigestsDiffer(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	d1, err := h.Hash("same-password")
	require.NoError(t, err)
	d2, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.True(t, h.Verify("same-password", d1))
	assert.True(t, h.Verify("same-password", d2))
}

func TestHasher_VerifyGarbageDigest(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	assert.False(t, h.Verify("whatever", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify("whatever", ""))
}

func TestHasher_Async(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	res := <-h.HashAsync("async-pass")
	require.NoError(t, res.Err)
	require.NotEmpty(t, res.Digest)

	assert.True(t, <-h.VerifyAsync("async-pass", res.Digest))
	assert.False(t, <-h.VerifyAsync("other", res.Digest))
}

func TestNewHasher_CostOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{-1, 0, 99} {
		h := NewHasher(cost)
		assert.Equal(t, DefaultHashCost, h.cost)
	}
}
