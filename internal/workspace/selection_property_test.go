package workspace

import (
	"context"
	"testing"

	"github.com/artpar/restui/internal/core"
	"pgregory.net/rapid"
)

func TestProperty_SelectionInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := newFakeStore()
		ws := New([]*core.Collection{core.NewCollection("A")}, WithStore(store))

		steps := rapid.IntRange(1, 80).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 12).Draw(t, "op") {
			case 0:
				ws.NavigateUp()
			case 1, 2:
				ws.NavigateDown()
			case 3:
				ws.CreateRequest(ctx, "r")
			case 4:
				ws.CreateFolder(ctx, "f")
			case 5:
				if rapid.IntRange(0, 3).Draw(t, "newCollection") == 0 {
					ws.CreateCollection(ctx, "c")
				}
			case 6:
				if target, err := ws.PrepareDelete(); err == nil {
					ws.ConfirmDelete(ctx, target)
				}
			case 7:
				ws.ToggleExpand()
			case 8:
				ws.SetExpanded(rapid.Bool().Draw(t, "expand"))
			case 9:
				ws.StartMove()
			case 10:
				if _, ok := ws.PendingMove(); ok {
					before := totalItems(ws)
					ws.ExecutePendingMove(ctx)
					if after := totalItems(ws); after != before {
						t.Fatalf("move changed total item count from %d to %d", before, after)
					}
				}
			case 11:
				ws.Duplicate(ctx)
			case 12:
				ws.Sort(ctx)
			}

			if err := ws.Validate(); err != nil {
				t.Fatalf("after step %d: %v", i, err)
			}
		}
	})
}

func TestProperty_NoOpMoveDoesNotWrite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		c := core.NewCollection("A")
		folders := []string{""}
		n := rapid.IntRange(1, 20).Draw(t, "items")
		for i := 0; i < n; i++ {
			parent := rapid.SampledFrom(folders).Draw(t, "parent")
			if rapid.Bool().Draw(t, "folder") {
				f, _ := c.AddFolderTo("f", parent)
				folders = append(folders, f.ID())
			} else {
				c.AddRequestTo(core.NewDefaultRequest("r"), parent)
			}
		}

		store := newFakeStore()
		ws := New([]*core.Collection{c}, WithStore(store))
		flat := c.Flatten()
		pick := rapid.IntRange(0, len(flat)-1).Draw(t, "pick")
		ws.Select(Selection{0, pick})
		if err := ws.StartMove(); err != nil {
			t.Fatalf("start move: %v", err)
		}

		// Paste onto the item's own parent line (or the header for root items).
		parent, _ := c.ParentFolderID(flat[pick].Item.ID())
		dest := Selection{0, HeaderSelected}
		if parent != "" {
			dest.Item = c.ItemIndex(parent)
		}
		ws.Select(dest)

		before := c.Flatten()
		if _, err := ws.ExecutePendingMove(ctx); err != nil {
			t.Fatalf("no-op move failed: %v", err)
		}
		if store.totalSaves() != 0 {
			t.Fatalf("no-op move wrote %d times", store.totalSaves())
		}
		after := c.Flatten()
		if len(before) != len(after) {
			t.Fatalf("no-op move changed tree")
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("no-op move changed line %d", i)
			}
		}
	})
}

func totalItems(ws *Workspace) int {
	n := 0
	for _, c := range ws.Collections() {
		n += c.CountItems()
	}
	return n
}
