package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/restui/internal/core"
)

// Common errors
var (
	ErrInvalidFormat = errors.New("unrecognized import format")
	ErrParseError    = errors.New("parse error")
)

// Format represents a supported import format.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatPostman Format = "postman"
	FormatCurl    Format = "curl"
)

// Importer builds a collection from content in an external format.
type Importer interface {
	Name() string
	Format() Format

	// DetectFormat reports whether content looks like this importer's format.
	DetectFormat(content []byte) bool

	Import(ctx context.Context, content []byte) (*ImportResult, error)
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Collection   *core.Collection
	RequestCount int
	FolderCount  int
	Warnings     []string
	SourceFormat Format
}

func newResult(coll *core.Collection, format Format, warnings []string) *ImportResult {
	return &ImportResult{
		Collection:   coll,
		RequestCount: coll.CountRequests(),
		FolderCount:  coll.CountItems() - coll.CountRequests(),
		Warnings:     warnings,
		SourceFormat: format,
	}
}

// Registry holds importers in detection order.
type Registry struct {
	importers []Importer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a registry with every built-in importer.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPostmanImporter())
	r.Register(NewCurlImporter())
	return r
}

// Register adds an importer, replacing any with the same format.
func (r *Registry) Register(imp Importer) {
	for i, existing := range r.importers {
		if existing.Format() == imp.Format() {
			r.importers[i] = imp
			return
		}
	}
	r.importers = append(r.importers, imp)
}

// Get returns an importer by format.
func (r *Registry) Get(format Format) (Importer, bool) {
	for _, imp := range r.importers {
		if imp.Format() == format {
			return imp, true
		}
	}
	return nil, false
}

// Import parses content with the importer for format. FormatAuto tries each
// registered importer in order and uses the first that recognizes the content.
func (r *Registry) Import(ctx context.Context, format Format, content []byte) (*ImportResult, error) {
	if format == FormatAuto || format == "" {
		for _, imp := range r.importers {
			if imp.DetectFormat(content) {
				return imp.Import(ctx, content)
			}
		}
		return nil, ErrInvalidFormat
	}

	imp, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
	return imp.Import(ctx, content)
}

// ListFormats returns the registered formats in detection order.
func (r *Registry) ListFormats() []Format {
	formats := make([]Format, 0, len(r.importers))
	for _, imp := range r.importers {
		formats = append(formats, imp.Format())
	}
	return formats
}

// parseMethod maps a method onto the supported set, noting any fallback.
func parseMethod(method, name string, warnings *[]string) core.HTTPMethod {
	m := core.ParseMethod(method)
	if strings.TrimSpace(method) != "" && !strings.EqualFold(string(m), strings.TrimSpace(method)) {
		*warnings = append(*warnings, fmt.Sprintf("%s: unsupported method %s imported as %s", name, method, m))
	}
	return m
}
