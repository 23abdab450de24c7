package exporter

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/artpar/restui/internal/core"
)

// Common errors
var (
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnknownFormat     = errors.New("unknown export format")
)

// Format represents a supported export format.
type Format string

const (
	FormatPostman Format = "postman"
	FormatCurl    Format = "curl"
)

// Exporter converts a collection to an external format.
type Exporter interface {
	Name() string
	Format() Format
	FileExtension() string
	Export(ctx context.Context, coll *core.Collection) ([]byte, error)
}

// ExportResult contains the result of an export operation.
type ExportResult struct {
	Content       []byte
	Format        Format
	FileExtension string
}

// Registry holds all registered exporters.
type Registry struct {
	exporters map[Format]Exporter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[Format]Exporter),
	}
}

// DefaultRegistry returns a registry with every built-in exporter.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewCurlExporter())
	r.Register(NewPostmanExporter())
	return r
}

// Register adds an exporter, replacing any with the same format.
func (r *Registry) Register(exp Exporter) {
	r.exporters[exp.Format()] = exp
}

// Get returns an exporter by format.
func (r *Registry) Get(format Format) (Exporter, bool) {
	exp, ok := r.exporters[format]
	return exp, ok
}

// Export exports the collection using the specified format.
func (r *Registry) Export(ctx context.Context, format Format, coll *core.Collection) (*ExportResult, error) {
	exp, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	content, err := exp.Export(ctx, coll)
	if err != nil {
		return nil, fmt.Errorf("failed to export as %s: %w", format, err)
	}

	return &ExportResult{
		Content:       content,
		Format:        format,
		FileExtension: exp.FileExtension(),
	}, nil
}

// ListFormats returns all registered formats, sorted.
func (r *Registry) ListFormats() []Format {
	formats := make([]Format, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
