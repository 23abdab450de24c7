package components

import (
	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/workspace"
)

// Pure functions that turn workspace state into display rows. They never
// mutate their input, so rendering is testable without a terminal.

// RowKind identifies what a tree row shows.
type RowKind int

const (
	RowCollection RowKind = iota
	RowFolder
	RowRequest
)

// TreeRow is one rendered line of the request list.
type TreeRow struct {
	Kind       RowKind
	ID         string
	Name       string
	Depth      int
	Method     core.HTTPMethod
	Expanded   bool
	Count      int // requests in a collection, items in a folder
	Selected   bool
	MoveSource bool
}

// BuildRows flattens every collection into display rows. Items of a collapsed
// collection are omitted; movingID marks the item of a pending move.
func BuildRows(collections []*core.Collection, sel workspace.Selection, movingID string) []TreeRow {
	var rows []TreeRow
	for ci, c := range collections {
		rows = append(rows, TreeRow{
			Kind:     RowCollection,
			ID:       c.ID(),
			Name:     c.Name(),
			Expanded: c.Expanded(),
			Count:    c.CountRequests(),
			Selected: sel.Collection == ci && sel.IsHeader(),
		})
		if !c.Expanded() {
			continue
		}
		for i, fi := range c.Flatten() {
			row := TreeRow{
				ID:         fi.Item.ID(),
				Name:       fi.Item.Name(),
				Depth:      fi.Depth + 1,
				Selected:   sel.Collection == ci && sel.Item == i,
				MoveSource: movingID != "" && fi.Item.ID() == movingID,
			}
			if f, ok := core.AsFolder(fi.Item); ok {
				row.Kind = RowFolder
				row.Expanded = f.Expanded()
				row.Count = f.Len()
			} else if r, ok := core.AsRequest(fi.Item); ok {
				row.Kind = RowRequest
				row.Method = r.Method()
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// SelectedRow returns the index of the selected row, or -1.
func SelectedRow(rows []TreeRow) int {
	for i, r := range rows {
		if r.Selected {
			return i
		}
	}
	return -1
}

// MoveCursor computes new cursor position within bounds.
func MoveCursor(cursor, delta, itemCount int) int {
	if itemCount == 0 {
		return 0
	}
	newCursor := cursor + delta
	if newCursor < 0 {
		return 0
	}
	if newCursor >= itemCount {
		return itemCount - 1
	}
	return newCursor
}

// AdjustOffset ensures cursor is visible within viewport.
func AdjustOffset(cursor, offset, visibleHeight int) int {
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	if cursor < 0 {
		return offset
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visibleHeight {
		return cursor - visibleHeight + 1
	}
	return offset
}

// VisibleRange clamps a window of height rows starting at offset to total.
func VisibleRange(offset, height, total int) (int, int) {
	if offset > total {
		offset = total
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > total {
		end = total
	}
	return offset, end
}
