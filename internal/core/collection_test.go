package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatIDs(c *Collection) []string {
	var ids []string
	for _, fi := range c.Flatten() {
		ids = append(ids, fi.Item.ID())
	}
	return ids
}

func flatDepths(c *Collection) []int {
	var depths []int
	for _, fi := range c.Flatten() {
		depths = append(depths, fi.Depth)
	}
	return depths
}

func TestNewCollection(t *testing.T) {
	t.Run("creates collection with name", func(t *testing.T) {
		c := NewCollection("My API")
		assert.NotEmpty(t, c.ID())
		assert.Equal(t, "My API", c.Name())
		assert.Empty(t, c.Items())
		assert.True(t, c.Expanded())
		assert.Empty(t, c.OriginPath())
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		c1 := NewCollection("API 1")
		c2 := NewCollection("API 2")
		assert.NotEqual(t, c1.ID(), c2.ID())
	})

	t.Run("renames itself", func(t *testing.T) {
		c := NewCollection("Old")
		c.Rename("New")
		assert.Equal(t, "New", c.Name())
	})
}

func TestNewFolder(t *testing.T) {
	f := NewFolder("Users")
	assert.NotEmpty(t, f.ID())
	assert.Equal(t, "Users", f.Name())
	assert.True(t, f.IsFolder())
	assert.True(t, f.Expanded())
	assert.Zero(t, f.Len())
}

func TestCollection_AddRequestTo(t *testing.T) {
	t.Run("appends at root when folder is empty", func(t *testing.T) {
		c := NewCollection("API")
		req := NewRequestDefinition("List", MethodGet, "https://api.example.com/users")

		assert.True(t, c.AddRequestTo(req, ""))
		assert.Equal(t, []string{req.ID()}, flatIDs(c))
	})

	t.Run("appends into nested folder", func(t *testing.T) {
		c := NewCollection("API")
		outer := c.AddFolder("Outer")
		inner, ok := c.AddFolderTo("Inner", outer.ID())
		require.True(t, ok)

		req := NewRequestDefinition("Get", MethodGet, "")
		assert.True(t, c.AddRequestTo(req, inner.ID()))
		assert.Equal(t, []string{outer.ID(), inner.ID(), req.ID()}, flatIDs(c))
		assert.Equal(t, []int{0, 1, 2}, flatDepths(c))
	})

	t.Run("reports false for unknown folder", func(t *testing.T) {
		c := NewCollection("API")
		req := NewRequestDefinition("Get", MethodGet, "")

		assert.False(t, c.AddRequestTo(req, "missing"))
		assert.Empty(t, c.Flatten())
	})

	t.Run("reports false when target is a request", func(t *testing.T) {
		c := NewCollection("API")
		r1 := NewRequestDefinition("One", MethodGet, "")
		c.AddRequest(r1)

		assert.False(t, c.AddRequestTo(NewRequestDefinition("Two", MethodGet, ""), r1.ID()))
		assert.Len(t, c.Flatten(), 1)
	})

	t.Run("add folder to unknown parent fails", func(t *testing.T) {
		c := NewCollection("API")
		f, ok := c.AddFolderTo("Orphan", "missing")
		assert.False(t, ok)
		assert.Nil(t, f)
	})
}

func TestCollection_Flatten(t *testing.T) {
	t.Run("folder line precedes its children", func(t *testing.T) {
		c := NewCollection("C")
		f := c.AddFolder("F")
		r1 := NewRequestDefinition("R1", MethodGet, "")
		require.True(t, c.AddRequestTo(r1, f.ID()))

		r2 := NewRequestDefinition("R2", MethodGet, "")
		require.True(t, c.AddRequestTo(r2, f.ID()))

		flat := c.Flatten()
		require.Len(t, flat, 3)
		assert.Equal(t, FlatItem{Depth: 0, Item: f}, flat[0])
		assert.Equal(t, FlatItem{Depth: 1, Item: r1}, flat[1])
		assert.Equal(t, FlatItem{Depth: 1, Item: r2}, flat[2])
	})

	t.Run("collapsed folder hides descendants", func(t *testing.T) {
		c := NewCollection("C")
		f := c.AddFolder("F")
		require.True(t, c.AddRequestTo(NewRequestDefinition("R1", MethodGet, ""), f.ID()))

		require.True(t, c.ToggleFolder(f.ID()))
		assert.False(t, f.Expanded())
		assert.Equal(t, []string{f.ID()}, flatIDs(c))
	})

	t.Run("collapsed inner folder still emits its line", func(t *testing.T) {
		c := NewCollection("C")
		outer := c.AddFolder("Outer")
		inner, _ := c.AddFolderTo("Inner", outer.ID())
		req := NewRequestDefinition("Hidden", MethodGet, "")
		require.True(t, c.AddRequestTo(req, inner.ID()))
		after := NewRequestDefinition("After", MethodGet, "")
		c.AddRequest(after)

		require.True(t, c.SetFolderExpanded(inner.ID(), false))
		assert.Equal(t, []string{outer.ID(), inner.ID(), after.ID()}, flatIDs(c))
		assert.Equal(t, -1, c.ItemIndex(req.ID()))
		assert.Equal(t, 2, c.ItemIndex(after.ID()))
	})

	t.Run("empty collection flattens to nothing", func(t *testing.T) {
		assert.Empty(t, NewCollection("C").Flatten())
	})
}

func TestCollection_FindAndUpdate(t *testing.T) {
	c := NewCollection("C")
	f := c.AddFolder("F")
	req := NewRequestDefinition("Get", MethodGet, "https://example.com")
	require.True(t, c.AddRequestTo(req, f.ID()))

	t.Run("finds nested request", func(t *testing.T) {
		found, ok := c.FindRequest(req.ID())
		require.True(t, ok)
		assert.Same(t, req, found)
	})

	t.Run("does not return folder as request", func(t *testing.T) {
		_, ok := c.FindRequest(f.ID())
		assert.False(t, ok)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, ok := c.FindRequest("nope")
		assert.False(t, ok)
	})

	t.Run("updates request in place", func(t *testing.T) {
		ok := c.UpdateRequest(req.ID(), func(r *RequestDefinition) {
			r.SetMethod(MethodPost)
			r.SetBody(`{"a":1}`)
		})
		assert.True(t, ok)
		assert.Equal(t, MethodPost, req.Method())
		assert.Equal(t, `{"a":1}`, req.Body())
	})

	t.Run("update of missing request reports false", func(t *testing.T) {
		called := false
		ok := c.UpdateRequest("nope", func(*RequestDefinition) { called = true })
		assert.False(t, ok)
		assert.False(t, called)
	})
}

func TestCollection_RenameItem(t *testing.T) {
	c := NewCollection("C")
	f := c.AddFolder("F")
	sub, _ := c.AddFolderTo("Sub", f.ID())
	req := NewRequestDefinition("Get", MethodGet, "")
	require.True(t, c.AddRequestTo(req, sub.ID()))

	assert.True(t, c.RenameItem(sub.ID(), "Renamed folder"))
	assert.True(t, c.RenameItem(req.ID(), "Renamed request"))
	assert.False(t, c.RenameItem("missing", "x"))

	assert.Equal(t, "Renamed folder", sub.Name())
	assert.Equal(t, "Renamed request", req.Name())
	assert.Equal(t, "F", f.Name())
}

func TestCollection_DeleteItem(t *testing.T) {
	t.Run("deleting folder cascades", func(t *testing.T) {
		c := NewCollection("C")
		f := c.AddFolder("F")
		r1 := NewRequestDefinition("R1", MethodGet, "")
		r2 := NewRequestDefinition("R2", MethodGet, "")
		require.True(t, c.AddRequestTo(r1, f.ID()))
		require.True(t, c.AddRequestTo(r2, f.ID()))

		assert.True(t, c.DeleteItem(f.ID()))
		assert.Empty(t, c.Flatten())
		_, ok := c.FindRequest(r1.ID())
		assert.False(t, ok)
		_, ok = c.FindRequest(r2.ID())
		assert.False(t, ok)
	})

	t.Run("deletes nested request only", func(t *testing.T) {
		c := NewCollection("C")
		f := c.AddFolder("F")
		r1 := NewRequestDefinition("R1", MethodGet, "")
		r2 := NewRequestDefinition("R2", MethodGet, "")
		require.True(t, c.AddRequestTo(r1, f.ID()))
		require.True(t, c.AddRequestTo(r2, f.ID()))

		assert.True(t, c.DeleteItem(r1.ID()))
		assert.Equal(t, []string{f.ID(), r2.ID()}, flatIDs(c))
	})

	t.Run("missing id reports false", func(t *testing.T) {
		c := NewCollection("C")
		c.AddFolder("F")
		assert.False(t, c.DeleteItem("missing"))
		assert.Len(t, c.Flatten(), 1)
	})
}

func TestCollection_ExtractInsert(t *testing.T) {
	t.Run("moves request from folder to root", func(t *testing.T) {
		c := NewCollection("C")
		f := c.AddFolder("F")
		r1 := NewRequestDefinition("R1", MethodGet, "")
		require.True(t, c.AddRequestTo(r1, f.ID()))

		item, ok := c.ExtractItem(r1.ID())
		require.True(t, ok)
		assert.Same(t, r1, item)
		assert.True(t, c.InsertItem(item, ""))

		parent, ok := c.ParentFolderID(r1.ID())
		require.True(t, ok)
		assert.Empty(t, parent)
		assert.Equal(t, []string{f.ID(), r1.ID()}, flatIDs(c))
		assert.Zero(t, f.Len())
	})

	t.Run("insert into missing folder leaves tree untouched", func(t *testing.T) {
		c := NewCollection("C")
		req := NewRequestDefinition("R", MethodGet, "")
		assert.False(t, c.InsertItem(req, "missing"))
		assert.Zero(t, c.CountItems())
	})

	t.Run("extract of missing id returns nothing", func(t *testing.T) {
		c := NewCollection("C")
		item, ok := c.ExtractItem("missing")
		assert.False(t, ok)
		assert.Nil(t, item)
	})

	t.Run("insert at index restores original position", func(t *testing.T) {
		c := NewCollection("C")
		f := c.AddFolder("F")
		a := NewRequestDefinition("A", MethodGet, "")
		b := NewRequestDefinition("B", MethodGet, "")
		d := NewRequestDefinition("D", MethodGet, "")
		for _, r := range []*RequestDefinition{a, b, d} {
			require.True(t, c.AddRequestTo(r, f.ID()))
		}
		before := flatIDs(c)

		parent, index, ok := c.Locate(b.ID())
		require.True(t, ok)
		assert.Equal(t, f.ID(), parent)
		assert.Equal(t, 1, index)

		item, ok := c.ExtractItem(b.ID())
		require.True(t, ok)
		require.True(t, c.InsertItemAt(item, parent, index))
		assert.Equal(t, before, flatIDs(c))
	})

	t.Run("insert at index clamps out of range", func(t *testing.T) {
		c := NewCollection("C")
		a := NewRequestDefinition("A", MethodGet, "")
		b := NewRequestDefinition("B", MethodGet, "")
		require.True(t, c.InsertItemAt(a, "", 10))
		require.True(t, c.InsertItemAt(b, "", -3))
		assert.Equal(t, []string{b.ID(), a.ID()}, flatIDs(c))
	})
}

func TestCollection_ParentAndContains(t *testing.T) {
	c := NewCollection("C")
	outer := c.AddFolder("Outer")
	inner, _ := c.AddFolderTo("Inner", outer.ID())
	req := NewRequestDefinition("R", MethodGet, "")
	require.True(t, c.AddRequestTo(req, inner.ID()))

	parent, ok := c.ParentFolderID(req.ID())
	assert.True(t, ok)
	assert.Equal(t, inner.ID(), parent)

	parent, ok = c.ParentFolderID(outer.ID())
	assert.True(t, ok)
	assert.Empty(t, parent)

	_, ok = c.ParentFolderID("missing")
	assert.False(t, ok)

	assert.True(t, c.ContainsItem(outer.ID(), req.ID()))
	assert.True(t, c.ContainsItem(outer.ID(), outer.ID()))
	assert.False(t, c.ContainsItem(inner.ID(), outer.ID()))
	assert.False(t, c.ContainsItem(req.ID(), inner.ID()))
}

func TestCollection_Counts(t *testing.T) {
	c := NewCollection("C")
	f := c.AddFolder("F")
	sub, _ := c.AddFolderTo("Sub", f.ID())
	require.True(t, c.AddRequestTo(NewRequestDefinition("A", MethodGet, ""), f.ID()))
	require.True(t, c.AddRequestTo(NewRequestDefinition("B", MethodGet, ""), sub.ID()))
	leaf := NewRequestDefinition("C", MethodGet, "")
	c.AddRequest(leaf)

	assert.Equal(t, 5, c.CountItems())
	assert.Equal(t, 3, c.CountRequests())

	n, ok := c.CountDescendants(f.ID())
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = c.CountDescendants(leaf.ID())
	assert.True(t, ok)
	assert.Zero(t, n)

	_, ok = c.CountDescendants("missing")
	assert.False(t, ok)
}

func TestCollection_DuplicateRequest(t *testing.T) {
	c := NewCollection("C")
	f := c.AddFolder("F")
	orig := NewRequestDefinition("Get User", MethodPost, "https://api.example.com/users")
	orig.AddHeader("X-Trace", "1")
	require.True(t, c.AddRequestTo(orig, f.ID()))

	dup, ok := c.DuplicateRequest(orig.ID())
	require.True(t, ok)
	assert.NotEqual(t, orig.ID(), dup.ID())
	assert.Equal(t, "Get User (copy)", dup.Name())
	assert.Equal(t, orig.URL(), dup.URL())
	assert.Equal(t, orig.Headers(), dup.Headers())

	parent, _ := c.ParentFolderID(dup.ID())
	assert.Equal(t, f.ID(), parent)

	dup.AddHeader("X-Other", "2")
	assert.Len(t, orig.Headers(), 1, "duplicate must not share header storage")

	_, ok = c.DuplicateRequest(f.ID())
	assert.False(t, ok, "folders are not duplicated")
}

func TestCollection_SortItems(t *testing.T) {
	c := NewCollection("C")
	c.AddRequest(NewRequestDefinition("zeta", MethodGet, ""))
	beta := c.AddFolder("beta")
	c.AddRequest(NewRequestDefinition("Alpha", MethodGet, ""))
	alpha := c.AddFolder("Alpha")
	require.True(t, c.AddRequestTo(NewRequestDefinition("b", MethodGet, ""), beta.ID()))
	require.True(t, c.AddRequestTo(NewRequestDefinition("A", MethodGet, ""), beta.ID()))
	_, ok := c.AddFolderTo("inner", beta.ID())
	require.True(t, ok)

	c.SortItems()

	var names []string
	for _, fi := range c.Flatten() {
		names = append(names, fi.Item.Name())
	}
	assert.Equal(t, []string{"Alpha", "beta", "inner", "A", "b", "Alpha", "zeta"}, names)
	assert.Same(t, alpha, c.Items()[0])
}

func TestCollection_Walk(t *testing.T) {
	c := NewCollection("C")
	f := c.AddFolder("F")
	require.True(t, c.AddRequestTo(NewRequestDefinition("R", MethodGet, ""), f.ID()))
	f.SetExpanded(false)

	var visited int
	c.Walk(func(depth int, item Item) bool {
		visited++
		return true
	})
	assert.Equal(t, 2, visited, "walk ignores expansion")

	visited = 0
	c.Walk(func(int, Item) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestCollection_Clone(t *testing.T) {
	c := NewCollection("API")
	users := c.AddFolder("Users")
	users.SetExpanded(false)
	list := NewRequestDefinition("List", MethodGet, "https://example.com/users")
	list.SetBody("x")
	require.True(t, c.AddRequestTo(list, users.ID()))
	c.AddRequest(NewRequestDefinition("Health", MethodGet, "https://example.com/health"))

	clone := c.Clone()

	assert.NotEqual(t, c.ID(), clone.ID())
	assert.Equal(t, "API", clone.Name())
	assert.Equal(t, c.CountItems(), clone.CountItems())

	var names []string
	clone.Walk(func(depth int, item Item) bool {
		_, found := c.FindItem(item.ID())
		assert.False(t, found, "%s kept its ID", item.Name())
		names = append(names, item.Name())
		return true
	})
	assert.Equal(t, []string{"Users", "List", "Health"}, names)

	folder, ok := AsFolder(clone.Items()[0])
	require.True(t, ok)
	assert.False(t, folder.Expanded())
	req, ok := AsRequest(folder.Items()[0])
	require.True(t, ok)
	assert.Equal(t, "x", req.Body())

	req.SetBody("changed")
	assert.Equal(t, "x", list.Body())
}
