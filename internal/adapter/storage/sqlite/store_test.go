package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/otterclip/internal/core"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := Open(path)
	require.NoError(t, err)
	return st, path
}

func TestSQLiteStore_SaveLoadPreservesOrder(t *testing.T) {
	st, path := openTemp(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	masked := "user=alice " + core.MaskToken
	unloaded := core.NewImageItem([]byte{4, 5}, now.Add(-3*time.Second))
	unloaded.Unload()
	items := []core.Item{
		*core.NewTextItem("user=alice password=secret123", &masked, now),
		*core.NewImageItem([]byte{1, 2, 3}, now.Add(-time.Second)),
		*core.NewUnknownItem(now.Add(-2 * time.Second)),
		*unloaded,
	}
	require.NoError(t, st.Save(ctx, items))
	require.NoError(t, st.Close())

	// reopen to simulate a restart
	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i := range items {
		assert.Equal(t, items[i].ID, got[i].ID)
		assert.Equal(t, items[i].Kind, got[i].Kind)
		assert.Equal(t, items[i].OriginalText, got[i].OriginalText)
		assert.True(t, items[i].CreatedAt.Equal(got[i].CreatedAt))
	}
	require.NotNil(t, got[0].SanitizedText)
	assert.Equal(t, masked, *got[0].SanitizedText)
	assert.Equal(t, []byte{1, 2, 3}, got[1].Image)
	assert.False(t, got[3].ImageLoaded())
	assert.Equal(t, 2, got[3].ImageSize)
}

func TestSQLiteStore_SaveReplaces(t *testing.T) {
	st, _ := openTemp(t)
	defer st.Close()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, []core.Item{*core.NewTextItem("a", nil, time.Now()), *core.NewTextItem("b", nil, time.Now())}))
	require.NoError(t, st.Save(ctx, []core.Item{*core.NewTextItem("c", nil, time.Now())}))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_Erase(t *testing.T) {
	st, _ := openTemp(t)
	defer st.Close()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, []core.Item{*core.NewTextItem("a", nil, time.Now())}))
	require.NoError(t, st.Erase(ctx))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_MigrationIsIdempotent(t *testing.T) {
	st, path := openTemp(t)
	require.NoError(t, st.Close())

	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	var version int
	require.NoError(t, st.db.QueryRow(`PRAGMA user_version;`).Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)
}
