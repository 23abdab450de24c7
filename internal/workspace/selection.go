package workspace

import (
	"fmt"

	"github.com/artpar/restui/internal/core"
)

// HeaderSelected is the item index used when a collection header line is selected.
const HeaderSelected = -1

// Selection addresses one line of the request list: a collection header, or an
// index into that collection's flattened items.
type Selection struct {
	Collection int
	Item       int
}

// IsHeader reports whether the selection is on a collection header.
func (s Selection) IsHeader() bool {
	return s.Item == HeaderSelected
}

// Change describes the result of a structural mutation: the visible length of
// the affected collection and the new flattened index of the affected item
// (-1 when it is not visible).
type Change struct {
	FlatLen int
	Index   int
}

// anchor remembers what was selected by identity so the selection can be
// re-derived after the tree changes underneath it.
type anchor struct {
	collectionID string
	itemID       string
	index        Selection
}

func visibleLen(c *core.Collection) int {
	if c == nil || !c.Expanded() {
		return 0
	}
	return len(c.Flatten())
}

// VisibleLen returns the number of item lines shown under collection i.
func (w *Workspace) VisibleLen(i int) int {
	if i < 0 || i >= len(w.collections) {
		return 0
	}
	return visibleLen(w.collections[i])
}

// Selection returns the current selection.
func (w *Workspace) Selection() Selection {
	return w.sel
}

// Select moves the selection and enforces the selection invariant.
func (w *Workspace) Select(sel Selection) {
	w.sel = sel
	w.reconcile()
}

// SelectedCollection returns the collection the selection is in.
func (w *Workspace) SelectedCollection() (*core.Collection, bool) {
	if w.sel.Collection < 0 || w.sel.Collection >= len(w.collections) {
		return nil, false
	}
	return w.collections[w.sel.Collection], true
}

// SelectedItem returns the selected folder or request. It reports false when a
// header is selected.
func (w *Workspace) SelectedItem() (core.Item, bool) {
	c, ok := w.SelectedCollection()
	if !ok || w.sel.IsHeader() || !c.Expanded() {
		return nil, false
	}
	flat := c.Flatten()
	if w.sel.Item >= len(flat) {
		return nil, false
	}
	return flat[w.sel.Item].Item, true
}

// NavigateUp moves to the previous visible line, crossing into the previous
// collection's last item (or its header when it is collapsed or empty).
func (w *Workspace) NavigateUp() {
	if len(w.collections) == 0 {
		return
	}
	c, ok := w.SelectedCollection()
	if !ok {
		return
	}

	if c.Expanded() && !w.sel.IsHeader() {
		if w.sel.Item == 0 {
			w.sel.Item = HeaderSelected
		} else {
			w.sel.Item--
		}
		return
	}

	if w.sel.Collection == 0 {
		return
	}
	w.sel.Collection--
	w.sel.Item = w.VisibleLen(w.sel.Collection) - 1
	if w.sel.Item < 0 {
		w.sel.Item = HeaderSelected
	}
}

// NavigateDown moves to the next visible line, crossing into the next
// collection's header after the last item.
func (w *Workspace) NavigateDown() {
	if len(w.collections) == 0 {
		return
	}
	if _, ok := w.SelectedCollection(); !ok {
		return
	}

	n := w.VisibleLen(w.sel.Collection)
	if w.sel.IsHeader() && n > 0 {
		w.sel.Item = 0
		return
	}
	if !w.sel.IsHeader() && w.sel.Item < n-1 {
		w.sel.Item++
		return
	}
	if w.sel.Collection < len(w.collections)-1 {
		w.sel.Collection++
		w.sel.Item = HeaderSelected
	}
}

// Validate checks the selection invariant: the collection index is in range
// (or zero when there are no collections) and the item index is either the
// header sentinel or below the visible length of that collection.
func (w *Workspace) Validate() error {
	if len(w.collections) == 0 {
		if w.sel.Collection != 0 || !w.sel.IsHeader() {
			return fmt.Errorf("%w: %+v with no collections", ErrInvalidSelection, w.sel)
		}
		return nil
	}
	if w.sel.Collection < 0 || w.sel.Collection >= len(w.collections) {
		return fmt.Errorf("%w: collection %d of %d", ErrInvalidSelection, w.sel.Collection, len(w.collections))
	}
	if w.sel.IsHeader() {
		return nil
	}
	if n := w.VisibleLen(w.sel.Collection); w.sel.Item < 0 || w.sel.Item >= n {
		return fmt.Errorf("%w: item %d of %d visible", ErrInvalidSelection, w.sel.Item, n)
	}
	return nil
}

// reconcile clamps the selection back into range.
func (w *Workspace) reconcile() {
	if len(w.collections) == 0 {
		w.sel = Selection{Collection: 0, Item: HeaderSelected}
		return
	}
	if w.sel.Collection < 0 {
		w.sel.Collection = 0
	}
	if w.sel.Collection >= len(w.collections) {
		w.sel.Collection = len(w.collections) - 1
	}
	if w.sel.Item < 0 {
		w.sel.Item = HeaderSelected
		return
	}
	if n := w.VisibleLen(w.sel.Collection); w.sel.Item >= n {
		w.sel.Item = n - 1
		if n == 0 {
			w.sel.Item = HeaderSelected
		}
	}
}

func (w *Workspace) anchor() anchor {
	a := anchor{index: w.sel}
	if c, ok := w.SelectedCollection(); ok {
		a.collectionID = c.ID()
	}
	if item, ok := w.SelectedItem(); ok {
		a.itemID = item.ID()
	}
	return a
}

// restore re-derives the selection from an anchor. An item that still exists
// is followed to its new line; if it is now hidden the selection snaps to its
// nearest visible ancestor, or to the header when the collection is collapsed.
// An item that no longer exists keeps its numeric index, clamped.
func (w *Workspace) restore(a anchor) {
	defer w.reconcile()

	ci := w.collectionIndex(a.collectionID)
	if ci < 0 {
		w.sel = Selection{Collection: a.index.Collection, Item: HeaderSelected}
		return
	}
	w.sel.Collection = ci
	if a.itemID == "" {
		w.sel.Item = HeaderSelected
		return
	}

	c := w.collections[ci]
	if _, ok := c.FindItem(a.itemID); !ok {
		w.sel.Item = a.index.Item
		return
	}
	if !c.Expanded() {
		w.sel.Item = HeaderSelected
		return
	}
	for id := a.itemID; ; {
		if idx := c.ItemIndex(id); idx >= 0 {
			w.sel.Item = idx
			return
		}
		parent, ok := c.ParentFolderID(id)
		if !ok || parent == "" {
			w.sel.Item = HeaderSelected
			return
		}
		id = parent
	}
}

func (w *Workspace) collectionIndex(id string) int {
	for i, c := range w.collections {
		if c.ID() == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) change(c *core.Collection, itemID string) Change {
	ch := Change{FlatLen: visibleLen(c), Index: -1}
	if itemID != "" && c.Expanded() {
		ch.Index = c.ItemIndex(itemID)
	}
	return ch
}
