package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/artpar/restui/internal/core"
	"github.com/goccy/go-json"
)

// collectionExt is the extension of collection files in the store directory.
const collectionExt = ".json"

// ErrDuplicateCollection is reported when two files carry the same collection ID.
var ErrDuplicateCollection = errors.New("duplicate collection id")

// LoadFailure records a collection file that could not be loaded.
type LoadFailure struct {
	Path string
	Err  error
}

func (f LoadFailure) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(f.Path), f.Err)
}

// CollectionStore manages collection persistence to the filesystem.
type CollectionStore struct {
	basePath string
	logger   *slog.Logger
}

// StoreOption configures a CollectionStore.
type StoreOption func(*CollectionStore)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *CollectionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCollectionStore creates a new filesystem-based collection store.
func NewCollectionStore(basePath string, opts ...StoreOption) (*CollectionStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create collections directory: %w", err)
	}

	s := &CollectionStore{
		basePath: basePath,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory collections are stored in.
func (s *CollectionStore) Dir() string {
	return s.basePath
}

// PathFor returns the file backing c: the path it was loaded from, or
// <dir>/<id>.json for collections created in this session.
func (s *CollectionStore) PathFor(c *core.Collection) string {
	if p := c.OriginPath(); p != "" {
		return p
	}
	return filepath.Join(s.basePath, c.ID()+collectionExt)
}

// Save writes the whole collection as pretty-printed JSON, replacing the file.
func (s *CollectionStore) Save(ctx context.Context, c *core.Collection) error {
	content, err := json.MarshalIndent(toCollectionData(c), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	path := s.PathFor(c)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write collection file: %w", err)
	}
	if c.OriginPath() == "" {
		c.SetOriginPath(path)
	}

	s.logger.Debug("collection saved", "collection", c.Name(), "path", path)
	return nil
}

// Load reads a single collection file. The collection comes back expanded and
// remembers the path it was loaded from.
func (s *CollectionStore) Load(ctx context.Context, path string) (*core.Collection, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	var data collectionData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection: %w", err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("failed to load collection: missing id")
	}

	c := fromCollectionData(&data)
	c.SetExpanded(true)
	c.SetOriginPath(path)
	return c, nil
}

// LoadAll loads every collection file in the store directory. Files that fail to
// load are skipped and reported in the failures slice instead of aborting.
func (s *CollectionStore) LoadAll(ctx context.Context) ([]*core.Collection, []LoadFailure, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read collections directory: %w", err)
	}

	var (
		collections []*core.Collection
		failures    []LoadFailure
		seen        = make(map[string]string)
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if entry.IsDir() || !IsCollectionFile(entry.Name()) {
			continue
		}

		path := filepath.Join(s.basePath, entry.Name())
		c, err := s.Load(ctx, path)
		if err == nil {
			if first, dup := seen[c.ID()]; dup {
				err = fmt.Errorf("%w: %s already loaded from %s", ErrDuplicateCollection, c.ID(), filepath.Base(first))
			}
		}
		if err != nil {
			s.logger.Warn("skipping collection file", "path", path, "error", err)
			failures = append(failures, LoadFailure{Path: path, Err: err})
			continue
		}

		seen[c.ID()] = path
		collections = append(collections, c)
	}

	s.logger.Info("collections loaded", "count", len(collections), "failed", len(failures))
	return collections, failures, nil
}

// Delete removes the file backing c. A file that is already gone is not an error.
func (s *CollectionStore) Delete(ctx context.Context, c *core.Collection) error {
	path := s.PathFor(c)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	s.logger.Debug("collection deleted", "collection", c.Name(), "path", path)
	return nil
}

// IsCollectionFile reports whether name looks like a collection file.
func IsCollectionFile(name string) bool {
	return strings.HasSuffix(name, collectionExt) && !strings.HasPrefix(name, ".")
}

// SampleCollection returns the collection offered when the store is empty.
func SampleCollection() *core.Collection {
	c := core.NewCollection("Sample Collection")

	users := core.NewDefaultRequest("Get Users")
	users.SetURL("https://jsonplaceholder.typicode.com/users")
	c.AddRequest(users)

	create := core.NewDefaultRequest("Create User")
	create.SetMethod(core.MethodPost)
	create.SetURL("https://jsonplaceholder.typicode.com/users")
	create.SetBody(`{"name": "John Doe", "email": "john@example.com"}`)
	c.AddRequest(create)

	return c
}
