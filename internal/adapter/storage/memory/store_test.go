package memory

import (
	"context"
	"testing"
	"time"

	"github.com/its-jojoo/otterclip/internal/core"
)

func TestMemoryStore_SaveLoadErase(t *testing.T) {
	st := New()
	ctx := context.Background()

	img := core.NewImageItem([]byte{9, 9}, time.Now())
	items := []core.Item{*core.NewTextItem("b", nil, time.Now()), *img}
	if err := st.Save(ctx, items); err != nil {
		t.Fatal(err)
	}

	// caller mutations must not leak into the stored snapshot
	items[1].Image[0] = 0

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].OriginalText != "b" || got[1].Image[0] != 9 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if st.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", st.Saves())
	}

	if err := st.Erase(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = st.Load(ctx)
	if len(got) != 0 {
		t.Fatalf("expected empty after erase, got %d", len(got))
	}
}
