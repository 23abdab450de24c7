package core

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Collection represents a group of API requests. It is the unit of persistence:
// one file per collection.
type Collection struct {
	id    string
	name  string
	items []Item

	// Transient state, never persisted.
	expanded   bool
	originPath string
}

// FlatItem is one line of the flattened tree.
type FlatItem struct {
	Depth int
	Item  Item
}

// NewCollection creates a new empty collection with the given name.
func NewCollection(name string) *Collection {
	return NewCollectionWithID(uuid.New().String(), name)
}

// NewCollectionWithID creates a collection with a specific ID (for loading from storage).
func NewCollectionWithID(id, name string) *Collection {
	return &Collection{
		id:       id,
		name:     name,
		items:    make([]Item, 0),
		expanded: true,
	}
}

func (c *Collection) ID() string         { return c.id }
func (c *Collection) Name() string       { return c.name }
func (c *Collection) Expanded() bool     { return c.expanded }
func (c *Collection) OriginPath() string { return c.originPath }

func (c *Collection) SetExpanded(expanded bool) { c.expanded = expanded }
func (c *Collection) SetOriginPath(path string) { c.originPath = path }

// Rename sets the collection's own name.
func (c *Collection) Rename(name string) {
	c.name = name
}

// Items returns the root-level items in display order.
func (c *Collection) Items() []Item {
	return append([]Item(nil), c.items...)
}

// AddRequest appends a request at the collection root.
func (c *Collection) AddRequest(req *RequestDefinition) {
	c.items = append(c.items, req)
}

// AddFolder appends a new folder at the collection root.
func (c *Collection) AddFolder(name string) *Folder {
	f := NewFolder(name)
	c.items = append(c.items, f)
	return f
}

// AddExistingItem appends an already-created item at the root (for loading from storage).
func (c *Collection) AddExistingItem(item Item) {
	c.items = append(c.items, item)
}

// AddRequestTo appends req to the folder with the given ID, or to the root when
// folderID is empty. It reports false if the folder does not exist.
func (c *Collection) AddRequestTo(req *RequestDefinition, folderID string) bool {
	return c.InsertItem(req, folderID)
}

// AddFolderTo creates a folder under parentID (root when empty).
func (c *Collection) AddFolderTo(name, parentID string) (*Folder, bool) {
	f := NewFolder(name)
	if !c.InsertItem(f, parentID) {
		return nil, false
	}
	return f, true
}

// Flatten returns the visible tree in pre-order. Collapsed folders are emitted
// but their children are not. The result must be recomputed after any mutation.
func (c *Collection) Flatten() []FlatItem {
	result := make([]FlatItem, 0, len(c.items))
	return flattenItems(c.items, 0, result)
}

func flattenItems(items []Item, depth int, result []FlatItem) []FlatItem {
	for _, item := range items {
		result = append(result, FlatItem{Depth: depth, Item: item})
		if f, ok := item.(*Folder); ok && f.expanded {
			result = flattenItems(f.items, depth+1, result)
		}
	}
	return result
}

// ItemIndex returns the position of id in Flatten, or -1 if it is absent or hidden.
func (c *Collection) ItemIndex(id string) int {
	for i, fi := range c.Flatten() {
		if fi.Item.ID() == id {
			return i
		}
	}
	return -1
}

// FindItem searches for an item of either kind by ID.
func (c *Collection) FindItem(id string) (Item, bool) {
	item := findItem(c.items, id)
	return item, item != nil
}

func findItem(items []Item, id string) Item {
	for _, item := range items {
		if item.ID() == id {
			return item
		}
		if f, ok := item.(*Folder); ok {
			if found := findItem(f.items, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindRequest searches for a request by ID in the entire collection.
func (c *Collection) FindRequest(id string) (*RequestDefinition, bool) {
	item, ok := c.FindItem(id)
	if !ok {
		return nil, false
	}
	return AsRequest(item)
}

// FindFolder searches for a folder by ID recursively.
func (c *Collection) FindFolder(id string) (*Folder, bool) {
	item, ok := c.FindItem(id)
	if !ok {
		return nil, false
	}
	return AsFolder(item)
}

// UpdateRequest applies fn to the request with the given ID in place.
func (c *Collection) UpdateRequest(id string, fn func(*RequestDefinition)) bool {
	req, ok := c.FindRequest(id)
	if !ok {
		return false
	}
	fn(req)
	return true
}

// RenameItem renames a folder or request anywhere in the tree.
func (c *Collection) RenameItem(id, name string) bool {
	item, ok := c.FindItem(id)
	if !ok {
		return false
	}
	item.setName(name)
	return true
}

// ToggleFolder flips a folder's expanded flag.
func (c *Collection) ToggleFolder(id string) bool {
	f, ok := c.FindFolder(id)
	if !ok {
		return false
	}
	f.expanded = !f.expanded
	return true
}

// SetFolderExpanded sets a folder's expanded flag.
func (c *Collection) SetFolderExpanded(id string, expanded bool) bool {
	f, ok := c.FindFolder(id)
	if !ok {
		return false
	}
	f.expanded = expanded
	return true
}

// DeleteItem removes an item wherever it is. Deleting a folder removes its subtree.
func (c *Collection) DeleteItem(id string) bool {
	_, ok := c.ExtractItem(id)
	return ok
}

// ExtractItem removes and returns the item with the given ID.
func (c *Collection) ExtractItem(id string) (Item, bool) {
	item := extractItem(&c.items, id)
	return item, item != nil
}

func extractItem(items *[]Item, id string) Item {
	for i, item := range *items {
		if item.ID() == id {
			*items = append((*items)[:i:i], (*items)[i+1:]...)
			return item
		}
	}
	for _, item := range *items {
		if f, ok := item.(*Folder); ok {
			if found := extractItem(&f.items, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// InsertItem appends item to the folder with the given ID, or to the root when
// folderID is empty. It reports false, leaving the tree untouched, if the folder
// does not exist.
func (c *Collection) InsertItem(item Item, folderID string) bool {
	if folderID == "" {
		c.items = append(c.items, item)
		return true
	}
	f, ok := c.FindFolder(folderID)
	if !ok {
		return false
	}
	f.items = append(f.items, item)
	return true
}

// InsertItemAt inserts item at index among the children of folderID (root when
// empty). The index is clamped to the valid range.
func (c *Collection) InsertItemAt(item Item, folderID string, index int) bool {
	target := &c.items
	if folderID != "" {
		f, ok := c.FindFolder(folderID)
		if !ok {
			return false
		}
		target = &f.items
	}
	if index < 0 {
		index = 0
	}
	if index > len(*target) {
		index = len(*target)
	}
	*target = append(*target, nil)
	copy((*target)[index+1:], (*target)[index:])
	(*target)[index] = item
	return true
}

// Locate returns the parent folder ID ("" for root) and the index among its
// siblings of the item with the given ID.
func (c *Collection) Locate(id string) (parentID string, index int, ok bool) {
	return locate(c.items, "", id)
}

func locate(items []Item, parentID, id string) (string, int, bool) {
	for i, item := range items {
		if item.ID() == id {
			return parentID, i, true
		}
	}
	for _, item := range items {
		if f, ok := item.(*Folder); ok {
			if p, i, found := locate(f.items, f.id, id); found {
				return p, i, true
			}
		}
	}
	return "", 0, false
}

// ParentFolderID returns the ID of the folder directly containing id. It returns
// "" with ok == true for root-level items and ok == false if id is absent.
func (c *Collection) ParentFolderID(id string) (string, bool) {
	parentID, _, ok := c.Locate(id)
	return parentID, ok
}

// ContainsItem reports whether id is ancestorID itself or lies in its subtree.
func (c *Collection) ContainsItem(ancestorID, id string) bool {
	ancestor, ok := c.FindItem(ancestorID)
	if !ok {
		return false
	}
	if ancestorID == id {
		return true
	}
	f, ok := ancestor.(*Folder)
	if !ok {
		return false
	}
	return findItem(f.items, id) != nil
}

// CountItems returns the number of folders and requests in the whole tree.
func (c *Collection) CountItems() int {
	return countItems(c.items)
}

// CountRequests returns the number of requests in the whole tree.
func (c *Collection) CountRequests() int {
	return countRequests(c.items)
}

// CountDescendants returns how many items live under the folder with the given ID.
// Requests have no descendants.
func (c *Collection) CountDescendants(id string) (int, bool) {
	item, ok := c.FindItem(id)
	if !ok {
		return 0, false
	}
	if f, isFolder := item.(*Folder); isFolder {
		return countItems(f.items), true
	}
	return 0, true
}

func countItems(items []Item) int {
	n := len(items)
	for _, item := range items {
		if f, ok := item.(*Folder); ok {
			n += countItems(f.items)
		}
	}
	return n
}

func countRequests(items []Item) int {
	n := 0
	for _, item := range items {
		switch v := item.(type) {
		case *RequestDefinition:
			n++
		case *Folder:
			n += countRequests(v.items)
		}
	}
	return n
}

// DuplicateRequest copies a request under a fresh ID, named "<name> (copy)", and
// appends it to the original's parent.
func (c *Collection) DuplicateRequest(id string) (*RequestDefinition, bool) {
	original, ok := c.FindRequest(id)
	if !ok {
		return nil, false
	}
	parentID, _ := c.ParentFolderID(id)
	dup := original.Clone()
	dup.name = original.name + " (copy)"
	if !c.InsertItem(dup, parentID) {
		return nil, false
	}
	return dup, true
}

// SortItems orders every level: folders first, then requests, each by
// case-insensitive name.
func (c *Collection) SortItems() {
	sortItems(c.items)
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return strings.ToLower(a.Name()) < strings.ToLower(b.Name())
	})
	for _, item := range items {
		if f, ok := item.(*Folder); ok {
			sortItems(f.items)
		}
	}
}

// Walk visits every item in pre-order regardless of expansion, stopping early
// when fn returns false.
func (c *Collection) Walk(fn func(depth int, item Item) bool) {
	walk(c.items, 0, fn)
}

func walk(items []Item, depth int, fn func(int, Item) bool) bool {
	for _, item := range items {
		if !fn(depth, item) {
			return false
		}
		if f, ok := item.(*Folder); ok {
			if !walk(f.items, depth+1, fn) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the collection in which the collection and
// every item get a fresh ID. Folder expansion state is kept.
func (c *Collection) Clone() *Collection {
	clone := NewCollection(c.name)
	clone.items = cloneItems(c.items)
	return clone
}

func cloneItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case *RequestDefinition:
			out = append(out, v.Clone())
		case *Folder:
			f := NewFolderWithID(uuid.New().String(), v.name, v.expanded)
			f.items = cloneItems(v.items)
			out = append(out, f)
		}
	}
	return out
}
