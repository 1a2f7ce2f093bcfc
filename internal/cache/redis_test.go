package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = ParseOptions("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = ParseOptions("redis://cache:6380/not-a-db")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())

	InitRedis("redis://cache:6380/not-a-db")
	assert.Nil(t, GetClient())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "revoked:abc", RevokedTokenKey("abc"))
	assert.Equal(t, "rl:login:ip:1.2.3.4", RateLimitKey("login", "ip:1.2.3.4"))
}
