package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory("/v1/uploads/", 0, 0)

	ref, err := m.Put(context.Background(), "abc.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "/v1/uploads/abc.png", ref)

	data, ct, ok := m.Get("abc.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, _, ok = m.Get("missing")
	assert.False(t, ok)

	_, err = m.Put(context.Background(), "", "image/png", nil)
	assert.Error(t, err)
}

func TestMemoryEvictsOldest(t *testing.T) {
	m := NewMemory("", 2, 0)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		_, err := m.Put(ctx, k, "image/png", []byte(k))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, m.Len())
	_, _, ok := m.Get("a")
	assert.False(t, ok)
	_, _, ok = m.Get("c")
	assert.True(t, ok)
}

func TestMemoryCopiesInput(t *testing.T) {
	m := NewMemory("", 0, 0)
	buf := []byte{9}
	_, err := m.Put(context.Background(), "k", "image/gif", buf)
	require.NoError(t, err)
	buf[0] = 0
	data, _, _ := m.Get("k")
	assert.Equal(t, []byte{9}, data)
}

func TestMemoryEvictsByBytes(t *testing.T) {
	m := NewMemory("", 100, 10)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		_, err := m.Put(ctx, k, "image/png", make([]byte, 4))
		require.NoError(t, err)
	}
	// 12 bytes held would pass the 10 byte cap
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, int64(8), m.Bytes())
	_, _, ok := m.Get("a")
	assert.False(t, ok)

	// a single oversized entry is still served
	_, err := m.Put(ctx, "big", "image/png", make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	_, _, ok = m.Get("big")
	assert.True(t, ok)
}

func TestMemoryOverwriteKeepsSizeAccurate(t *testing.T) {
	m := NewMemory("", 0, 0)
	ctx := context.Background()
	_, err := m.Put(ctx, "k", "image/png", make([]byte, 10))
	require.NoError(t, err)
	_, err = m.Put(ctx, "k", "image/png", make([]byte, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, int64(3), m.Bytes())
}
