package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artpar/restui/internal/core"
)

// Store persists whole collections.
type Store interface {
	Save(ctx context.Context, c *core.Collection) error
	Delete(ctx context.Context, c *core.Collection) error
}

// requestSource identifies where the request being edited came from.
type requestSource struct {
	collectionID string
	requestID    string
}

// Workspace holds the open collections, the selection in the request list and
// the request being edited. It is not safe for concurrent use; all mutation
// happens on the UI goroutine.
type Workspace struct {
	collections []*core.Collection
	sel         Selection
	pendingMove *PendingMove

	current *core.RequestDefinition
	source  *requestSource

	store  Store
	logger *slog.Logger
	insert func(c *core.Collection, item core.Item, folderID string) bool

	// IDs of collections deleted this session, never adopted again.
	deleted map[string]bool

	status string
	errMsg string
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithStore sets where mutated collections are written.
func WithStore(store Store) Option {
	return func(w *Workspace) {
		w.store = store
	}
}

// WithLogger sets the workspace logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a workspace over the given collections with the first header selected.
func New(collections []*core.Collection, opts ...Option) *Workspace {
	w := &Workspace{
		collections: append([]*core.Collection(nil), collections...),
		sel:         Selection{Collection: 0, Item: HeaderSelected},
		current:     core.NewDefaultRequest("New Request"),
		logger:      slog.New(slog.DiscardHandler),
		insert:      (*core.Collection).InsertItem,
		deleted:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Collections returns the open collections in display order.
func (w *Workspace) Collections() []*core.Collection {
	return append([]*core.Collection(nil), w.collections...)
}

// Collection returns the collection at index i.
func (w *Workspace) Collection(i int) (*core.Collection, bool) {
	if i < 0 || i >= len(w.collections) {
		return nil, false
	}
	return w.collections[i], true
}

func (w *Workspace) StatusMessage() string { return w.status }
func (w *Workspace) ErrorMessage() string  { return w.errMsg }

// SetStatus shows an informational message and clears any error.
func (w *Workspace) SetStatus(msg string) { w.setStatus(msg) }

// SetError shows an error message.
func (w *Workspace) SetError(msg string) {
	w.errMsg = msg
	w.status = ""
}

// ClearMessages clears both the status and the error message.
func (w *Workspace) ClearMessages() {
	w.status = ""
	w.errMsg = ""
}

func (w *Workspace) setStatus(msg string) {
	w.status = msg
	w.errMsg = ""
}

func (w *Workspace) fail(err error) error {
	w.SetError(capitalize(err.Error()))
	w.logger.Debug("workspace operation rejected", "error", err)
	return err
}

func (w *Workspace) persist(ctx context.Context, c *core.Collection) error {
	if w.store == nil {
		return nil
	}
	if err := w.store.Save(ctx, c); err != nil {
		err = fmt.Errorf("failed to save collection %q: %w", c.Name(), err)
		w.logger.Error("collection save failed", "collection", c.Name(), "error", err)
		w.SetError(capitalize(err.Error()))
		return err
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CreateCollection appends a new empty collection.
func (w *Workspace) CreateCollection(ctx context.Context, name string) (Change, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Change{Index: -1}, w.fail(ErrEmptyName)
	}

	a := w.anchor()
	c := core.NewCollection(name)
	w.collections = append(w.collections, c)
	w.restore(a)

	if err := w.persist(ctx, c); err != nil {
		return w.change(c, ""), err
	}
	w.setStatus("Created collection: " + name)
	return w.change(c, ""), nil
}

// insertionPoint resolves the selection to the folder new items go into:
// a header means the root, a folder means into it, a request means alongside it.
func (w *Workspace) insertionPoint() (*core.Collection, string, error) {
	c, ok := w.SelectedCollection()
	if !ok {
		return nil, "", ErrNoCollection
	}
	return c, w.destinationFolderID(c), nil
}

// CreateFolder adds a folder at the selected location.
func (w *Workspace) CreateFolder(ctx context.Context, name string) (Change, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Change{Index: -1}, w.fail(ErrEmptyName)
	}
	c, parentID, err := w.insertionPoint()
	if err != nil {
		return Change{Index: -1}, w.fail(err)
	}

	a := w.anchor()
	f, ok := c.AddFolderTo(name, parentID)
	if !ok {
		return Change{Index: -1}, w.fail(ErrDestinationMissing)
	}
	w.reveal(c, parentID)
	w.restore(a)

	if err := w.persist(ctx, c); err != nil {
		return w.change(c, f.ID()), err
	}
	w.setStatus("Created folder: " + name)
	return w.change(c, f.ID()), nil
}

// CreateRequest adds a default request at the selected location.
func (w *Workspace) CreateRequest(ctx context.Context, name string) (Change, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Change{Index: -1}, w.fail(ErrEmptyName)
	}
	c, parentID, err := w.insertionPoint()
	if err != nil {
		return Change{Index: -1}, w.fail(err)
	}

	a := w.anchor()
	req := core.NewDefaultRequest(name)
	if !c.AddRequestTo(req, parentID) {
		return Change{Index: -1}, w.fail(ErrDestinationMissing)
	}
	w.reveal(c, parentID)
	w.restore(a)

	if err := w.persist(ctx, c); err != nil {
		return w.change(c, req.ID()), err
	}
	w.setStatus("Created request: " + name)
	return w.change(c, req.ID()), nil
}

// reveal expands the collection and the folder something was just added to.
func (w *Workspace) reveal(c *core.Collection, folderID string) {
	c.SetExpanded(true)
	if folderID != "" {
		c.SetFolderExpanded(folderID, true)
	}
}

// SelectedName returns the name of the selected line, used to prefill rename.
func (w *Workspace) SelectedName() string {
	if item, ok := w.SelectedItem(); ok {
		return item.Name()
	}
	if c, ok := w.SelectedCollection(); ok {
		return c.Name()
	}
	return ""
}

// Rename renames the selected collection, folder or request.
func (w *Workspace) Rename(ctx context.Context, name string) (Change, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Change{Index: -1}, w.fail(ErrEmptyName)
	}
	c, ok := w.SelectedCollection()
	if !ok {
		return Change{Index: -1}, w.fail(ErrNoCollection)
	}

	itemID := ""
	if item, ok := w.SelectedItem(); ok {
		itemID = item.ID()
		c.RenameItem(itemID, name)
		if w.source != nil && w.source.requestID == itemID {
			w.current.SetName(name)
		}
	} else {
		c.Rename(name)
	}

	if err := w.persist(ctx, c); err != nil {
		return w.change(c, itemID), err
	}
	w.setStatus("Renamed to: " + name)
	return w.change(c, itemID), nil
}

// DeleteTarget is what a delete confirmation refers to.
type DeleteTarget struct {
	Type         ItemType
	ID           string
	Name         string
	CollectionID string
	Descendants  int
}

// Prompt returns the confirmation question for the target.
func (t DeleteTarget) Prompt() string {
	if t.Type != ItemRequest && t.Descendants > 0 {
		noun := "items"
		if t.Descendants == 1 {
			noun = "item"
		}
		return fmt.Sprintf("Delete %s '%s' and its %d %s?", t.Type, t.Name, t.Descendants, noun)
	}
	return fmt.Sprintf("Delete %s '%s'?", t.Type, t.Name)
}

// PrepareDelete describes what deleting the selected line would remove. A
// selected header targets the whole collection.
func (w *Workspace) PrepareDelete() (DeleteTarget, error) {
	c, ok := w.SelectedCollection()
	if !ok {
		return DeleteTarget{}, w.fail(ErrNoCollection)
	}

	item, ok := w.SelectedItem()
	if !ok {
		return DeleteTarget{
			Type:         ItemCollection,
			ID:           c.ID(),
			Name:         c.Name(),
			CollectionID: c.ID(),
			Descendants:  c.CountItems(),
		}, nil
	}

	n, _ := c.CountDescendants(item.ID())
	return DeleteTarget{
		Type:         itemTypeOf(item),
		ID:           item.ID(),
		Name:         item.Name(),
		CollectionID: c.ID(),
		Descendants:  n,
	}, nil
}

// ConfirmDelete performs a delete prepared by PrepareDelete.
func (w *Workspace) ConfirmDelete(ctx context.Context, target DeleteTarget) (Change, error) {
	ci := w.collectionIndex(target.CollectionID)
	if ci < 0 {
		return Change{Index: -1}, w.fail(ErrNoCollection)
	}
	if target.Type == ItemCollection {
		return w.deleteCollection(ctx, ci)
	}

	c := w.collections[ci]
	a := w.anchor()
	if !c.DeleteItem(target.ID) {
		return w.change(c, ""), w.fail(ErrNothingSelected)
	}
	w.restore(a)
	w.forgetSourceIfGone()
	if w.pendingMove != nil && w.pendingMove.SourceCollection == c.ID() {
		if _, ok := c.FindItem(w.pendingMove.ItemID); !ok {
			w.pendingMove = nil
		}
	}

	w.logger.Info("item deleted", "collection", c.Name(), "item", target.Name, "descendants", target.Descendants)
	if err := w.persist(ctx, c); err != nil {
		return w.change(c, ""), err
	}
	w.setStatus("Item deleted")
	return w.change(c, ""), nil
}

func (w *Workspace) deleteCollection(ctx context.Context, ci int) (Change, error) {
	c := w.collections[ci]
	w.collections = append(w.collections[:ci:ci], w.collections[ci+1:]...)
	w.deleted[c.ID()] = true
	w.sel.Item = HeaderSelected
	w.reconcile()
	w.forgetSourceIfGone()
	if w.pendingMove != nil && w.pendingMove.SourceCollection == c.ID() {
		w.pendingMove = nil
	}

	ch := Change{Index: -1}
	if sel, ok := w.SelectedCollection(); ok {
		ch.FlatLen = visibleLen(sel)
	}

	w.logger.Info("collection deleted", "collection", c.Name())
	if w.store != nil {
		if err := w.store.Delete(ctx, c); err != nil {
			err = fmt.Errorf("failed to delete collection file: %w", err)
			w.SetError(capitalize(err.Error()))
			return ch, err
		}
	}
	w.setStatus("Deleted collection: " + c.Name())
	return ch, nil
}

func (w *Workspace) forgetSourceIfGone() {
	if w.source == nil {
		return
	}
	ci := w.collectionIndex(w.source.collectionID)
	if ci >= 0 {
		if _, ok := w.collections[ci].FindRequest(w.source.requestID); ok {
			return
		}
	}
	w.source = nil
}

// Duplicate copies the selected request next to the original.
func (w *Workspace) Duplicate(ctx context.Context) (Change, error) {
	c, ok := w.SelectedCollection()
	if !ok {
		return Change{Index: -1}, w.fail(ErrNoCollection)
	}
	item, ok := w.SelectedItem()
	if !ok || item.IsFolder() {
		return Change{Index: -1}, w.fail(ErrNotARequest)
	}

	a := w.anchor()
	dup, ok := c.DuplicateRequest(item.ID())
	if !ok {
		return Change{Index: -1}, w.fail(ErrNotARequest)
	}
	w.restore(a)

	if err := w.persist(ctx, c); err != nil {
		return w.change(c, dup.ID()), err
	}
	w.setStatus("Request duplicated")
	return w.change(c, dup.ID()), nil
}

// ToggleExpand opens or closes the selected line: a collapsed collection is
// expanded, a header toggles its collection, a folder toggles itself and a
// request toggles its parent folder (or the collection at the root).
func (w *Workspace) ToggleExpand() Change {
	c, ok := w.SelectedCollection()
	if !ok {
		return Change{Index: -1}
	}

	a := w.anchor()
	item, ok := w.SelectedItem()
	switch {
	case !c.Expanded():
		c.SetExpanded(true)
	case !ok:
		c.SetExpanded(false)
	case item.IsFolder():
		c.ToggleFolder(item.ID())
	default:
		if parent, _ := c.ParentFolderID(item.ID()); parent != "" {
			c.ToggleFolder(parent)
			a.itemID = parent
		} else {
			c.SetExpanded(false)
		}
	}
	w.restore(a)
	return w.change(c, a.itemID)
}

// SetExpanded expands or collapses the selected folder, the parent folder of a
// selected request, or the collection when a header or root request is selected.
func (w *Workspace) SetExpanded(expanded bool) Change {
	c, ok := w.SelectedCollection()
	if !ok {
		return Change{Index: -1}
	}

	a := w.anchor()
	folderID := ""
	if item, ok := w.SelectedItem(); ok {
		if item.IsFolder() {
			folderID = item.ID()
		} else {
			folderID, _ = c.ParentFolderID(item.ID())
		}
	}
	if folderID != "" {
		if f, _ := c.FindFolder(folderID); !expanded && !f.Expanded() {
			c.SetExpanded(false)
		} else {
			c.SetFolderExpanded(folderID, expanded)
		}
	} else {
		c.SetExpanded(expanded)
	}
	w.restore(a)
	return w.change(c, a.itemID)
}

// Sort orders the selected collection: folders first, then by name.
func (w *Workspace) Sort(ctx context.Context) (Change, error) {
	c, ok := w.SelectedCollection()
	if !ok {
		return Change{Index: -1}, w.fail(ErrNoCollection)
	}

	a := w.anchor()
	c.SortItems()
	w.restore(a)

	if err := w.persist(ctx, c); err != nil {
		return w.change(c, a.itemID), err
	}
	w.setStatus("Sorted: " + c.Name())
	return w.change(c, a.itemID), nil
}

// Current returns the request being edited.
func (w *Workspace) Current() *core.RequestDefinition {
	return w.current
}

// CurrentIsSaved reports whether the request being edited belongs to a collection.
func (w *Workspace) CurrentIsSaved() bool {
	return w.source != nil
}

// OpenSelected loads a copy of the selected request for editing.
func (w *Workspace) OpenSelected() (*core.RequestDefinition, bool) {
	c, ok := w.SelectedCollection()
	if !ok {
		return nil, false
	}
	item, ok := w.SelectedItem()
	if !ok {
		return nil, false
	}
	req, ok := core.AsRequest(item)
	if !ok {
		return nil, false
	}

	w.current = req.Copy()
	w.source = &requestSource{collectionID: c.ID(), requestID: req.ID()}
	return w.current, true
}

// CurrentCollectionID returns the ID of the collection the edited request was
// opened from, or "" for a scratch request.
func (w *Workspace) CurrentCollectionID() string {
	if w.source == nil {
		return ""
	}
	return w.source.collectionID
}

// LoadScratch replaces the request being edited with req, detached from any
// collection.
func (w *Workspace) LoadScratch(req *core.RequestDefinition) {
	w.current = req
	w.source = nil
}

// NewScratchRequest replaces the request being edited with an unsaved default.
func (w *Workspace) NewScratchRequest() *core.RequestDefinition {
	w.current = core.NewDefaultRequest("New Request")
	w.source = nil
	return w.current
}

// SaveCurrentRequest writes the edited request back into the collection it
// was opened from.
func (w *Workspace) SaveCurrentRequest(ctx context.Context) error {
	if w.source == nil {
		return w.fail(ErrUnsavedRequest)
	}
	ci := w.collectionIndex(w.source.collectionID)
	if ci < 0 {
		w.source = nil
		return w.fail(ErrUnsavedRequest)
	}

	c := w.collections[ci]
	current := w.current
	if !c.UpdateRequest(w.source.requestID, func(r *core.RequestDefinition) {
		r.CopyFields(current)
	}) {
		w.source = nil
		return w.fail(fmt.Errorf("failed to save request"))
	}

	if err := w.persist(ctx, c); err != nil {
		return err
	}
	w.setStatus("Request saved")
	return nil
}

// SaveAll writes every collection, continuing past failures.
func (w *Workspace) SaveAll(ctx context.Context) error {
	if w.store == nil {
		return nil
	}
	var errs []error
	for _, c := range w.collections {
		if err := w.store.Save(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("failed to save collection %q: %w", c.Name(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		w.logger.Error("save all failed", "error", err)
		w.SetError(fmt.Sprintf("Failed to save %d collection(s)", len(errs)))
		return err
	}
	w.setStatus("Saved")
	return nil
}

// AdoptCollection appends a collection that appeared on disk. It reports false
// if a collection with the same ID is already open or was deleted this
// session; the watcher can deliver a file read just before its deletion.
func (w *Workspace) AdoptCollection(c *core.Collection) bool {
	if w.collectionIndex(c.ID()) >= 0 {
		return false
	}
	if w.deleted[c.ID()] {
		w.logger.Debug("ignoring deleted collection", "collection", c.Name(), "path", c.OriginPath())
		return false
	}
	a := w.anchor()
	w.collections = append(w.collections, c)
	w.restore(a)
	w.logger.Info("collection adopted", "collection", c.Name(), "path", c.OriginPath())
	w.setStatus("Loaded collection: " + c.Name())
	return true
}

// ImportCollection appends a collection built outside the workspace and saves
// it. One whose ID is already open is added as a clone with fresh IDs; the
// returned collection is the one that was added.
func (w *Workspace) ImportCollection(ctx context.Context, c *core.Collection) (*core.Collection, error) {
	if strings.TrimSpace(c.Name()) == "" {
		return nil, w.fail(ErrEmptyName)
	}
	if w.collectionIndex(c.ID()) >= 0 {
		c = c.Clone()
	}

	delete(w.deleted, c.ID())

	a := w.anchor()
	w.collections = append(w.collections, c)
	w.restore(a)

	if err := w.persist(ctx, c); err != nil {
		return c, err
	}
	w.setStatus("Imported collection: " + c.Name())
	return c, nil
}
