package exporter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/protocol/http"
)

// CurlExporter exports collections and requests to curl commands.
type CurlExporter struct {
	Pretty      bool // Use line continuations for readability
	IncludeAuth bool
}

// NewCurlExporter creates a new curl exporter.
func NewCurlExporter() *CurlExporter {
	return &CurlExporter{
		Pretty:      true,
		IncludeAuth: true,
	}
}

func (c *CurlExporter) Name() string {
	return "curl command"
}

func (c *CurlExporter) Format() Format {
	return FormatCurl
}

func (c *CurlExporter) FileExtension() string {
	return ".sh"
}

// Curl renders req as a single-line curl command with auth included.
func Curl(req *core.RequestDefinition) string {
	exp := &CurlExporter{IncludeAuth: true}
	cmd, err := exp.ExportRequest(req)
	if err != nil {
		return ""
	}
	return cmd
}

// Export renders every request of coll as a shell script, folders as
// section comments, in tree order.
func (c *CurlExporter) Export(ctx context.Context, coll *core.Collection) ([]byte, error) {
	if coll == nil {
		return nil, ErrInvalidCollection
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "#!/bin/bash\n# Collection: %s\n\n", coll.Name())

	coll.Walk(func(depth int, item core.Item) bool {
		if f, ok := core.AsFolder(item); ok {
			fmt.Fprintf(&sb, "# %s %s %s\n\n", strings.Repeat("=", depth+3), f.Name(), strings.Repeat("=", depth+3))
			return true
		}
		req, _ := core.AsRequest(item)
		cmd, err := c.ExportRequest(req)
		if err != nil {
			return true
		}
		fmt.Fprintf(&sb, "# %s\n%s\n\n", req.Name(), cmd)
		return ctx.Err() == nil
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// ExportRequest renders a single request.
func (c *CurlExporter) ExportRequest(req *core.RequestDefinition) (string, error) {
	if req == nil {
		return "", ErrInvalidRequest
	}

	parts := []string{"curl"}

	if req.Method() != core.MethodGet {
		parts = append(parts, "-X", string(req.Method()))
	}

	for _, h := range req.Headers() {
		if h.Enabled && h.Key != "" {
			parts = append(parts, "-H", fmt.Sprintf("%s: %s", h.Key, h.Value))
		}
	}

	auth := req.Auth()
	if c.IncludeAuth && auth.IsConfigured() {
		switch auth.Type {
		case core.AuthBasic:
			if auth.BasicPassword != "" {
				parts = append(parts, "-u", fmt.Sprintf("%s:%s", auth.BasicUsername, auth.BasicPassword))
			} else {
				parts = append(parts, "-u", auth.BasicUsername)
			}
		case core.AuthBearer:
			parts = append(parts, "-H", fmt.Sprintf("Authorization: Bearer %s", auth.BearerToken))
		case core.AuthAPIKey:
			if !auth.InQuery() {
				parts = append(parts, "-H", fmt.Sprintf("%s: %s", auth.APIKeyName, auth.APIKeyValue))
			}
		}
	}

	if http.HasBody(req.Method()) && req.Body() != "" {
		parts = append(parts, "--data-raw", req.Body())
	}

	// URL (always last)
	parts = append(parts, c.requestURL(req))

	if c.Pretty {
		return formatPrettyCurl(parts), nil
	}
	return formatInlineCurl(parts), nil
}

func (c *CurlExporter) requestURL(req *core.RequestDefinition) string {
	params := url.Values{}
	for _, p := range req.QueryParams() {
		if p.Enabled && p.Key != "" {
			params.Add(p.Key, p.Value)
		}
	}
	auth := req.Auth()
	if c.IncludeAuth && auth.IsConfigured() && auth.InQuery() {
		params.Set(auth.APIKeyName, auth.APIKeyValue)
	}
	if len(params) == 0 {
		return req.URL()
	}

	sep := "?"
	if strings.Contains(req.URL(), "?") {
		sep = "&"
	}
	return req.URL() + sep + params.Encode()
}

func formatInlineCurl(parts []string) string {
	var result strings.Builder
	for i, part := range parts {
		if i > 0 {
			result.WriteString(" ")
		}
		result.WriteString(shellQuote(part))
	}
	return result.String()
}

func formatPrettyCurl(parts []string) string {
	var result strings.Builder
	result.WriteString("curl")

	last := len(parts) - 1
	for i := 1; i < last; i += 2 {
		result.WriteString(" \\\n  ")
		result.WriteString(parts[i])
		result.WriteString(" ")
		result.WriteString(shellQuote(parts[i+1]))
	}
	result.WriteString(" \\\n  ")
	result.WriteString(shellQuote(parts[last]))

	return result.String()
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'$`\\!*?[]{}()<>|&;#~") {
		return s
	}
	// Close the quote, emit an escaped quote, reopen.
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var _ Exporter = (*CurlExporter)(nil)
