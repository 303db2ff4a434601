package hash

import (
	"testing"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256(t *testing.T) {
	t.Parallel()

	h := NewHMACSHA256(secret.New("key"))

	got, err := h.Hash("The quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", string(got))

	again, err := h.Hash("The quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	lower, err := h.Hash("the quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.NotEqual(t, got, lower)

	other, err := NewHMACSHA256(secret.New("other-key")).Hash("The quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestHMACSHA256_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	got, err := NewHMACSHA256(secret.New("key")).Hash("")
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, got)
}
