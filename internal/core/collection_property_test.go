package core

import (
	"testing"

	"pgregory.net/rapid"
)

// treeOps drives a collection through random add/delete/toggle/move steps.
type treeOps struct {
	c *Collection
}

func (o *treeOps) ids() []string {
	var ids []string
	o.c.Walk(func(_ int, item Item) bool {
		ids = append(ids, item.ID())
		return true
	})
	return ids
}

func (o *treeOps) folderIDs() []string {
	ids := []string{""}
	o.c.Walk(func(_ int, item Item) bool {
		if item.IsFolder() {
			ids = append(ids, item.ID())
		}
		return true
	})
	return ids
}

func (o *treeOps) step(t *rapid.T) {
	switch rapid.IntRange(0, 5).Draw(t, "op") {
	case 0, 1:
		parent := rapid.SampledFrom(o.folderIDs()).Draw(t, "parent")
		if !o.c.AddRequestTo(NewRequestDefinition("r", MethodGet, ""), parent) {
			t.Fatalf("add request to existing folder %q failed", parent)
		}
	case 2:
		parent := rapid.SampledFrom(o.folderIDs()).Draw(t, "parent")
		if _, ok := o.c.AddFolderTo("f", parent); !ok {
			t.Fatalf("add folder to existing folder %q failed", parent)
		}
	case 3:
		if ids := o.ids(); len(ids) > 0 {
			o.c.DeleteItem(rapid.SampledFrom(ids).Draw(t, "delete"))
		}
	case 4:
		if folders := o.folderIDs(); len(folders) > 1 {
			o.c.ToggleFolder(rapid.SampledFrom(folders[1:]).Draw(t, "toggle"))
		}
	case 5:
		ids := o.ids()
		if len(ids) == 0 {
			return
		}
		id := rapid.SampledFrom(ids).Draw(t, "move")
		dest := rapid.SampledFrom(o.folderIDs()).Draw(t, "dest")
		if dest != "" && o.c.ContainsItem(id, dest) {
			return
		}
		before := o.c.CountItems()
		item, ok := o.c.ExtractItem(id)
		if !ok {
			t.Fatalf("extract of existing item %q failed", id)
		}
		if !o.c.InsertItem(item, dest) {
			t.Fatalf("insert into existing folder %q failed", dest)
		}
		if after := o.c.CountItems(); after != before {
			t.Fatalf("move changed item count from %d to %d", before, after)
		}
	}
}

func TestProperty_IDsAreUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ops := &treeOps{c: NewCollection("C")}
		n := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < n; i++ {
			ops.step(t)
		}
		seen := make(map[string]bool)
		for _, id := range ops.ids() {
			if seen[id] {
				t.Fatalf("duplicate id %s", id)
			}
			seen[id] = true
		}
	})
}

func TestProperty_FlattenRespectsExpansion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ops := &treeOps{c: NewCollection("C")}
		n := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < n; i++ {
			ops.step(t)
		}

		// Expected visible set: every item whose ancestors are all expanded.
		var want []string
		var visit func(items []Item)
		visit = func(items []Item) {
			for _, item := range items {
				want = append(want, item.ID())
				if f, ok := item.(*Folder); ok && f.Expanded() {
					visit(f.Items())
				}
			}
		}
		visit(ops.c.Items())

		flat := ops.c.Flatten()
		if len(flat) != len(want) {
			t.Fatalf("flatten yielded %d items, want %d", len(flat), len(want))
		}
		for i, fi := range flat {
			if fi.Item.ID() != want[i] {
				t.Fatalf("flatten[%d] = %s, want %s", i, fi.Item.ID(), want[i])
			}
			if i > 0 && fi.Depth > flat[i-1].Depth+1 {
				t.Fatalf("depth jumps from %d to %d at %d", flat[i-1].Depth, fi.Depth, i)
			}
		}
	})
}

func TestProperty_DeleteThenFind(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ops := &treeOps{c: NewCollection("C")}
		n := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < n; i++ {
			ops.step(t)
		}
		ids := ops.ids()
		if len(ids) == 0 {
			return
		}
		id := rapid.SampledFrom(ids).Draw(t, "victim")
		if !ops.c.DeleteItem(id) {
			t.Fatalf("delete of existing item failed")
		}
		if _, ok := ops.c.FindItem(id); ok {
			t.Fatalf("item %s still findable after delete", id)
		}
		if _, ok := ops.c.FindRequest(id); ok {
			t.Fatalf("request %s still findable after delete", id)
		}
		if ops.c.ItemIndex(id) != -1 {
			t.Fatalf("item %s still flattened after delete", id)
		}
	})
}

func TestProperty_MoveAcrossCollectionsPreservesCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := &treeOps{c: NewCollection("src")}
		dst := &treeOps{c: NewCollection("dst")}
		for i, n := 0, rapid.IntRange(1, 30).Draw(t, "srcSteps"); i < n; i++ {
			src.step(t)
		}
		for i, n := 0, rapid.IntRange(0, 30).Draw(t, "dstSteps"); i < n; i++ {
			dst.step(t)
		}
		ids := src.ids()
		if len(ids) == 0 {
			return
		}
		before := src.c.CountItems() + dst.c.CountItems()

		id := rapid.SampledFrom(ids).Draw(t, "move")
		dest := rapid.SampledFrom(dst.folderIDs()).Draw(t, "dest")
		item, ok := src.c.ExtractItem(id)
		if !ok {
			t.Fatalf("extract failed")
		}
		if !dst.c.InsertItem(item, dest) {
			t.Fatalf("insert failed")
		}
		if after := src.c.CountItems() + dst.c.CountItems(); after != before {
			t.Fatalf("count %d -> %d", before, after)
		}
	})
}
