package workspace

import (
	"context"
	"fmt"

	"github.com/artpar/restui/internal/core"
)

// ItemType identifies what a selection or pending operation refers to.
type ItemType int

const (
	ItemCollection ItemType = iota
	ItemFolder
	ItemRequest
)

func (t ItemType) String() string {
	switch t {
	case ItemCollection:
		return "collection"
	case ItemFolder:
		return "folder"
	default:
		return "request"
	}
}

func itemTypeOf(item core.Item) ItemType {
	if item.IsFolder() {
		return ItemFolder
	}
	return ItemRequest
}

// PendingMove is the "cut" half of a cut/paste move. The source collection is
// tracked by ID so it survives collections being added or removed meanwhile.
type PendingMove struct {
	ItemID           string
	ItemType         ItemType
	ItemName         string
	SourceCollection string
}

// PendingMove returns the move in progress, if any.
func (w *Workspace) PendingMove() (PendingMove, bool) {
	if w.pendingMove == nil {
		return PendingMove{}, false
	}
	return *w.pendingMove, true
}

// StartMove marks the selected folder or request for moving.
func (w *Workspace) StartMove() error {
	c, ok := w.SelectedCollection()
	if !ok {
		return w.fail(ErrNoCollection)
	}
	item, ok := w.SelectedItem()
	if !ok {
		return w.fail(ErrCannotMoveCollection)
	}

	w.pendingMove = &PendingMove{
		ItemID:           item.ID(),
		ItemType:         itemTypeOf(item),
		ItemName:         item.Name(),
		SourceCollection: c.ID(),
	}
	w.setStatus(fmt.Sprintf("Moving: %s - navigate to destination, Enter to move, Esc to cancel", item.Name()))
	return nil
}

// CancelMove abandons the move in progress.
func (w *Workspace) CancelMove() {
	if w.pendingMove == nil {
		return
	}
	w.pendingMove = nil
	w.setStatus("Move cancelled")
}

// destinationFolderID resolves the selected line to an insertion point:
// a header means the collection root, a folder means into that folder, and a
// request means alongside it.
func (w *Workspace) destinationFolderID(c *core.Collection) string {
	item, ok := w.SelectedItem()
	if !ok {
		return ""
	}
	if item.IsFolder() {
		return item.ID()
	}
	parent, _ := c.ParentFolderID(item.ID())
	return parent
}

// ExecutePendingMove pastes the pending item at the selected destination. The
// destination is validated before the item is taken out of its source, and a
// failed insert puts the item back where it was, so the item is never lost.
func (w *Workspace) ExecutePendingMove(ctx context.Context) (Change, error) {
	pending := w.pendingMove
	if pending == nil {
		return Change{Index: -1}, w.fail(ErrNoPendingMove)
	}
	w.pendingMove = nil

	srcIdx := w.collectionIndex(pending.SourceCollection)
	if srcIdx < 0 {
		return Change{Index: -1}, w.fail(fmt.Errorf("source collection not found"))
	}
	src := w.collections[srcIdx]
	dst, ok := w.SelectedCollection()
	if !ok {
		return Change{Index: -1}, w.fail(ErrNoCollection)
	}

	srcParent, srcPos, found := src.Locate(pending.ItemID)
	if !found {
		return Change{Index: -1}, w.fail(ErrSourceMissing)
	}
	destFolder := w.destinationFolderID(dst)

	if src == dst && srcParent == destFolder {
		w.setStatus("Item already in this location")
		return w.change(dst, pending.ItemID), nil
	}

	if destFolder != "" {
		if _, ok := dst.FindFolder(destFolder); !ok {
			return Change{Index: -1}, w.fail(ErrDestinationMissing)
		}
		if src == dst && src.ContainsItem(pending.ItemID, destFolder) {
			return Change{Index: -1}, w.fail(ErrMoveIntoSelf)
		}
	}

	item, ok := src.ExtractItem(pending.ItemID)
	if !ok {
		return Change{Index: -1}, w.fail(ErrSourceMissing)
	}
	if !w.insert(dst, item, destFolder) {
		src.InsertItemAt(item, srcParent, srcPos)
		return w.change(src, item.ID()), w.fail(fmt.Errorf("failed to move item to destination"))
	}

	w.logger.Info("item moved",
		"item", pending.ItemName,
		"from", src.Name(),
		"to", dst.Name(),
		"folder", destFolder,
	)

	w.restore(anchor{collectionID: dst.ID(), itemID: item.ID(), index: w.sel})
	if w.source != nil && w.source.collectionID == src.ID() {
		if _, ok := dst.FindRequest(w.source.requestID); ok {
			w.source.collectionID = dst.ID()
		}
	}

	var err error
	if src != dst {
		err = w.persist(ctx, src)
	}
	if perr := w.persist(ctx, dst); err == nil {
		err = perr
	}
	if err != nil {
		return w.change(dst, item.ID()), err
	}
	w.setStatus("Moved: " + pending.ItemName)
	return w.change(dst, item.ID()), nil
}
