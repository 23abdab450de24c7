package core

import "github.com/google/uuid"

// Item is an entry in a collection tree: either a *RequestDefinition or a *Folder.
// The set of implementations is closed.
type Item interface {
	ID() string
	Name() string
	IsFolder() bool

	setName(name string)
}

var (
	_ Item = (*RequestDefinition)(nil)
	_ Item = (*Folder)(nil)
)

// Folder groups requests and other folders.
type Folder struct {
	id       string
	name     string
	items    []Item
	expanded bool
}

// NewFolder creates an empty, expanded folder.
func NewFolder(name string) *Folder {
	return NewFolderWithID(uuid.New().String(), name, true)
}

// NewFolderWithID creates a folder with a specific ID (for loading from storage).
func NewFolderWithID(id, name string, expanded bool) *Folder {
	return &Folder{
		id:       id,
		name:     name,
		items:    make([]Item, 0),
		expanded: expanded,
	}
}

func (f *Folder) ID() string       { return f.id }
func (f *Folder) Name() string     { return f.name }
func (f *Folder) IsFolder() bool   { return true }
func (f *Folder) Expanded() bool   { return f.expanded }
func (f *Folder) setName(n string) { f.name = n }

func (f *Folder) SetExpanded(expanded bool) { f.expanded = expanded }

// Items returns the direct children in display order.
func (f *Folder) Items() []Item {
	return append([]Item(nil), f.items...)
}

// Len returns the number of direct children.
func (f *Folder) Len() int { return len(f.items) }

// AddExistingItem appends an already-created item to this folder.
func (f *Folder) AddExistingItem(item Item) {
	f.items = append(f.items, item)
}

// AsRequest returns the request behind item, if it is one.
func AsRequest(item Item) (*RequestDefinition, bool) {
	r, ok := item.(*RequestDefinition)
	return r, ok
}

// AsFolder returns the folder behind item, if it is one.
func AsFolder(item Item) (*Folder, bool) {
	f, ok := item.(*Folder)
	return f, ok
}
