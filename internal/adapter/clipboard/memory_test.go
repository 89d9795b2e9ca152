package clipboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CountsWrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	n0, _ := m.ChangeCount(ctx)
	require.NoError(t, m.WriteText(ctx, "hello"))
	n1, _ := m.ChangeCount(ctx)
	assert.Greater(t, n1, n0)

	txt, ok, err := m.ReadText(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", txt)

	require.NoError(t, m.WriteImage(ctx, []byte{1}))
	_, ok, _ = m.ReadText(ctx)
	assert.False(t, ok, "image write replaces text")

	m.Touch()
	_, ok, _ = m.ReadImage(ctx)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Writes())
}

func TestCounting_BumpsOnlyOnContentChange(t *testing.T) {
	dev := NewMemory()
	c := NewCounting(dev)
	ctx := context.Background()

	require.NoError(t, dev.WriteText(ctx, "a"))
	n1, err := c.ChangeCount(ctx)
	require.NoError(t, err)
	n2, _ := c.ChangeCount(ctx)
	assert.Equal(t, n1, n2, "unchanged content keeps the counter")

	require.NoError(t, dev.WriteText(ctx, "b"))
	n3, _ := c.ChangeCount(ctx)
	assert.Equal(t, n2+1, n3)

	require.NoError(t, dev.WriteImage(ctx, []byte{1, 2}))
	n4, _ := c.ChangeCount(ctx)
	assert.Equal(t, n3+1, n4)
}
