package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	pair, err := tm.GeneratePair("u1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), pair.AccessExp, 2*time.Second)

	c, isRefresh, err := tm.ParseAny(pair.Access)
	require.NoError(t, err)
	assert.False(t, isRefresh)
	assert.Equal(t, "u1", c.UserID)

	c, isRefresh, err = tm.ParseAny(pair.Refresh)
	require.NoError(t, err)
	assert.True(t, isRefresh)
	assert.Equal(t, "u1", c.UserID)
}

func TestParseRejects(t *testing.T) {
	tm := NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	other := NewTokenManager("x", "y", time.Minute, time.Hour)
	pair, err := other.GeneratePair("u1")
	require.NoError(t, err)

	_, _, err = tm.ParseAny(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = tm.ParseAny("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("a-secret", "r-secret", -time.Minute, -time.Minute)
	pair, err = expired.GeneratePair("u1")
	require.NoError(t, err)
	_, _, err = tm.ParseAny(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
