package workspace

import (
	"context"
	"testing"

	"github.com/artpar/restui/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartMove(t *testing.T) {
	t.Run("records the selected item", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.ban.ID())
		require.NoError(t, f.ws.StartMove())

		pm, ok := f.ws.PendingMove()
		require.True(t, ok)
		assert.Equal(t, PendingMove{
			ItemID:           f.ban.ID(),
			ItemType:         ItemRequest,
			ItemName:         "Ban",
			SourceCollection: f.api.ID(),
		}, pm)
		assert.Contains(t, f.ws.StatusMessage(), "Moving: Ban")
	})

	t.Run("collections cannot be moved", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.ws.StartMove(), ErrCannotMoveCollection)
		_, ok := f.ws.PendingMove()
		assert.False(t, ok)
	})

	t.Run("cancel clears it", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.list.ID())
		require.NoError(t, f.ws.StartMove())
		f.ws.CancelMove()
		_, ok := f.ws.PendingMove()
		assert.False(t, ok)
		_, err := f.ws.ExecutePendingMove(context.Background())
		assert.ErrorIs(t, err, ErrNoPendingMove)
	})
}

func TestExecutePendingMove(t *testing.T) {
	ctx := context.Background()

	t.Run("request to collection root", func(t *testing.T) {
		f := newFixture(t)
		before := f.api.CountItems()
		f.selectID(t, 0, f.ban.ID())
		require.NoError(t, f.ws.StartMove())
		f.ws.Select(Selection{0, HeaderSelected})

		ch, err := f.ws.ExecutePendingMove(ctx)
		require.NoError(t, err)
		parent, ok := f.api.ParentFolderID(f.ban.ID())
		require.True(t, ok)
		assert.Empty(t, parent)
		assert.Equal(t, before, f.api.CountItems())
		assert.Equal(t, f.ban.ID(), f.selectedID(t), "selection follows the moved item")
		assert.Equal(t, f.api.ItemIndex(f.ban.ID()), ch.Index)
		assert.Equal(t, 1, f.store.saves[f.api.ID()], "same collection written once")
		assert.Equal(t, "Moved: Ban", f.ws.StatusMessage())
	})

	t.Run("request line as destination means its parent", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.health.ID())
		require.NoError(t, f.ws.StartMove())
		f.selectID(t, 0, f.list.ID())

		_, err := f.ws.ExecutePendingMove(ctx)
		require.NoError(t, err)
		parent, _ := f.api.ParentFolderID(f.health.ID())
		assert.Equal(t, f.users.ID(), parent)
	})

	t.Run("across collections writes both", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.admin.ID())
		require.NoError(t, f.ws.StartMove())
		f.ws.Select(Selection{1, HeaderSelected})

		_, err := f.ws.ExecutePendingMove(ctx)
		require.NoError(t, err)
		_, inSrc := f.api.FindItem(f.admin.ID())
		assert.False(t, inSrc)
		_, inDst := f.empty.FindRequest(f.ban.ID())
		assert.True(t, inDst, "subtree travels with the folder")
		assert.Equal(t, 1, f.store.saves[f.api.ID()])
		assert.Equal(t, 1, f.store.saves[f.empty.ID()])
		assert.Equal(t, Selection{1, 0}, f.ws.Selection())
	})

	t.Run("same location is a no-op without a write", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.list.ID())
		require.NoError(t, f.ws.StartMove())
		f.selectID(t, 0, f.users.ID())

		flatBefore := f.api.Flatten()
		_, err := f.ws.ExecutePendingMove(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Item already in this location", f.ws.StatusMessage())
		assert.Equal(t, flatBefore, f.api.Flatten())
		assert.Zero(t, f.store.totalSaves())
		_, pending := f.ws.PendingMove()
		assert.False(t, pending)
	})

	t.Run("folder into itself is rejected and nothing is lost", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.users.ID())
		require.NoError(t, f.ws.StartMove())
		f.selectID(t, 0, f.users.ID())

		flatBefore := f.api.Flatten()
		_, err := f.ws.ExecutePendingMove(ctx)
		// Users is at root, destination is Users itself.
		assert.ErrorIs(t, err, ErrMoveIntoSelf)
		assert.Equal(t, flatBefore, f.api.Flatten())
		assert.Zero(t, f.store.totalSaves())
	})

	t.Run("folder into descendant is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.users.ID())
		require.NoError(t, f.ws.StartMove())
		f.selectID(t, 0, f.admin.ID())

		count := f.api.CountItems()
		_, err := f.ws.ExecutePendingMove(ctx)
		assert.ErrorIs(t, err, ErrMoveIntoSelf)
		assert.Equal(t, count, f.api.CountItems())
		_, ok := f.api.FindFolder(f.users.ID())
		assert.True(t, ok)
	})

	t.Run("moved item that was deleted meanwhile", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.health.ID())
		require.NoError(t, f.ws.StartMove())
		f.api.DeleteItem(f.health.ID())
		f.ws.Select(Selection{1, HeaderSelected})

		_, err := f.ws.ExecutePendingMove(ctx)
		assert.ErrorIs(t, err, ErrSourceMissing)
		assert.Zero(t, f.empty.CountItems())
	})

	t.Run("deleting the source collection drops the pending move", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.health.ID())
		require.NoError(t, f.ws.StartMove())
		f.ws.Select(Selection{0, HeaderSelected})
		target, err := f.ws.PrepareDelete()
		require.NoError(t, err)
		_, err = f.ws.ConfirmDelete(ctx, target)
		require.NoError(t, err)

		_, ok := f.ws.PendingMove()
		assert.False(t, ok)
	})

	t.Run("destination folder collapsed selects the folder", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.admin.ID())
		f.ws.ToggleExpand()
		f.selectID(t, 0, f.health.ID())
		require.NoError(t, f.ws.StartMove())
		f.selectID(t, 0, f.admin.ID())

		ch, err := f.ws.ExecutePendingMove(ctx)
		require.NoError(t, err)
		assert.Equal(t, -1, ch.Index)
		assert.Equal(t, f.admin.ID(), f.selectedID(t))
		assert.NoError(t, f.ws.Validate())
	})

	t.Run("failed insert puts the item back without a write", func(t *testing.T) {
		f := newFixture(t)
		f.selectID(t, 0, f.list.ID())
		require.NoError(t, f.ws.StartMove())
		f.ws.Select(Selection{1, HeaderSelected})
		parentBefore, posBefore, ok := f.api.Locate(f.list.ID())
		require.True(t, ok)
		flatBefore := f.api.Flatten()

		f.ws.insert = func(c *core.Collection, item core.Item, folderID string) bool {
			return false
		}
		ch, err := f.ws.ExecutePendingMove(ctx)
		assert.ErrorContains(t, err, "failed to move item to destination")

		parent, pos, ok := f.api.Locate(f.list.ID())
		require.True(t, ok)
		assert.Equal(t, parentBefore, parent)
		assert.Equal(t, posBefore, pos)
		assert.Equal(t, flatBefore, f.api.Flatten())
		assert.Zero(t, f.empty.CountItems())
		assert.Equal(t, f.api.ItemIndex(f.list.ID()), ch.Index)
		assert.Zero(t, f.store.totalSaves())
		assert.Equal(t, "Failed to move item to destination", f.ws.ErrorMessage())
	})
}
