package tokens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	_, ok, err := s.Token(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetToken(ctx, "g1", "tok-a"))
	require.NoError(t, s.SetToken(ctx, "g2", "tok-b"))

	token, ok, err := s.Token(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, s.ClearToken(ctx, "g1"))
	_, ok, err = s.Token(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing one game leaves the other alone.
	token, ok, _ = s.Token(ctx, "g2")
	assert.True(t, ok)
	assert.Equal(t, "tok-b", token)
}
