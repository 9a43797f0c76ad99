package keyhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint32IsDeterministic(t *testing.T) {
	require.Equal(t, Uint32([]byte("hello")), Uint32([]byte("hello")))
}

func TestUint32DistinguishesInputs(t *testing.T) {
	require.NotEqual(t, Uint32([]byte("hello")), Uint32([]byte("world")))
}

func TestStringMatchesUint32OfBytes(t *testing.T) {
	require.Equal(t, Uint32([]byte("some-key")), String("some-key"))
}

func TestUint32SpreadsSequentialKeys(t *testing.T) {
	seen := map[uint32]bool{}
	for i := 0; i < 1000; i++ {
		b := []byte{byte(i), byte(i >> 8)}
		seen[Uint32(b)] = true
	}
	require.Greater(t, len(seen), 900, "expected xxhash-backed digest to spread sequential keys")
}
