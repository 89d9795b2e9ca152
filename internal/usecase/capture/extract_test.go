package capture

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/core"
)

func TestExtract(t *testing.T) {
	ctx := context.Background()
	pb := clipboard.NewMemory()

	require.NoError(t, pb.WriteText(ctx, "hello"))
	c, ok, err := Extract(ctx, pb)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.KindText, c.Kind)
	assert.Equal(t, "hello", c.Text)

	require.NoError(t, pb.WriteImage(ctx, []byte{0x89, 'P', 'N', 'G'}))
	c, ok, err = Extract(ctx, pb)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.KindImage, c.Kind)
	assert.Len(t, c.Image, 4)

	pb.Touch()
	c, ok, err = Extract(ctx, pb)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.KindUnknown, c.Kind)
}

func TestExtract_SkipsBlankText(t *testing.T) {
	ctx := context.Background()
	pb := clipboard.NewMemory()
	require.NoError(t, pb.WriteText(ctx, "  \n\t "))

	_, ok, err := Extract(ctx, pb)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtract_CapsLongText(t *testing.T) {
	ctx := context.Background()
	pb := clipboard.NewMemory()
	require.NoError(t, pb.WriteText(ctx, strings.Repeat("a", MaxTextLen+500)))

	c, ok, err := Extract(ctx, pb)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, c.Text, MaxTextLen)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	s := "ab" + "é" // é is two bytes
	assert.Equal(t, "ab", truncate(s, 3))
	assert.Equal(t, s, truncate(s, 4))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("日本", 10), 7)))
}
