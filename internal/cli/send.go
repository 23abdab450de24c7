package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/core"
	httpclient "github.com/artpar/restui/internal/protocol/http"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// SendOptions holds options for the send command.
type SendOptions struct {
	Headers    []string
	Body       string
	JSON       bool
	Collection string
	Request    string
}

func newSendCommand(root *rootOptions) *cobra.Command {
	opts := &SendOptions{}

	cmd := &cobra.Command{
		Use:   "send [METHOD URL]",
		Short: "Send an HTTP request",
		Long: `Send an ad-hoc request, or a saved one with --collection and --request.
Every send is recorded in history.

Examples:
  restui send GET https://httpbin.org/get
  restui send POST https://httpbin.org/post -H "Content-Type: application/json" -b '{"name": "test"}'
  restui send --collection "Sample Collection" --request "Get Users"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.Request != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd.Context(), func(a *app.App) error {
				req, collectionID, err := buildSendRequest(a, args, opts)
				if err != nil {
					return err
				}
				return runSend(cmd, a, req, collectionID, opts)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, "Request headers (format: Key:Value)")
	cmd.Flags().StringVarP(&opts.Body, "body", "b", "", "Request body")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output response as JSON")
	cmd.Flags().StringVarP(&opts.Collection, "collection", "C", "", "Collection holding the saved request")
	cmd.Flags().StringVarP(&opts.Request, "request", "r", "", "Name or ID of a saved request")

	return cmd
}

// buildSendRequest returns a copy of the saved request, or a new one from args.
// Headers and body from flags are applied on top either way.
func buildSendRequest(a *app.App, args []string, opts *SendOptions) (*core.RequestDefinition, string, error) {
	var (
		req          *core.RequestDefinition
		collectionID string
	)

	if opts.Request != "" {
		if opts.Collection == "" {
			return nil, "", errors.New("--request needs --collection")
		}
		collections := a.Workspace().Collections()
		i, err := findCollection(collections, opts.Collection)
		if err != nil {
			return nil, "", err
		}
		saved, ok := findRequest(collections[i], opts.Request)
		if !ok {
			return nil, "", fmt.Errorf("request %q not found in %s", opts.Request, collections[i].Name())
		}
		req = saved.Copy()
		collectionID = collections[i].ID()
	} else {
		req = core.NewRequestDefinition(args[1], core.ParseMethod(args[0]), args[1])
	}

	for _, kv := range parseHeaders(opts.Headers) {
		req.AddHeader(kv.Key, kv.Value)
	}
	if opts.Body != "" {
		req.SetBody(opts.Body)
	}
	if req.URL() == "" {
		return nil, "", fmt.Errorf("request %q has no URL", req.Name())
	}
	return req, collectionID, nil
}

// findRequest matches name against request IDs, then names case-insensitively.
func findRequest(c *core.Collection, name string) (*core.RequestDefinition, bool) {
	if req, ok := c.FindRequest(name); ok {
		return req, true
	}
	var found *core.RequestDefinition
	c.Walk(func(_ int, item core.Item) bool {
		if req, ok := core.AsRequest(item); ok && strings.EqualFold(req.Name(), name) {
			found = req
			return false
		}
		return true
	})
	return found, found != nil
}

func runSend(cmd *cobra.Command, a *app.App, req *core.RequestDefinition, collectionID string, opts *SendOptions) error {
	resp, err := a.Send(cmd.Context(), req, collectionID)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if opts.JSON {
		return outputJSON(cmd, resp)
	}
	return outputHuman(cmd, resp)
}

func outputJSON(cmd *cobra.Command, resp *httpclient.Response) error {
	headers := make(map[string]string, len(resp.Headers))
	for _, h := range resp.Headers {
		headers[h.Key] = h.Value
	}
	result := map[string]any{
		"status":      resp.StatusCode,
		"status_text": resp.StatusText,
		"headers":     headers,
		"body":        resp.Body,
		"size":        resp.Size,
		"timing_ms":   resp.Duration.Milliseconds(),
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputHuman(cmd *cobra.Command, resp *httpclient.Response) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "HTTP %s\n", resp.Status())
	fmt.Fprintf(out, "Time: %dms\n", resp.Duration.Milliseconds())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Headers:")
	for _, h := range resp.Headers {
		fmt.Fprintf(out, "  %s: %s\n", h.Key, h.Value)
	}
	fmt.Fprintln(out)

	if resp.Body != "" {
		fmt.Fprintln(out, "Body:")
		fmt.Fprintln(out, resp.PrettyBody())
	}

	return nil
}

// parseHeaders converts "Key:Value" strings to enabled key-values, skipping
// malformed ones.
func parseHeaders(headerStrs []string) []core.KeyValue {
	var headers []core.KeyValue
	for _, h := range headerStrs {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		headers = append(headers, core.NewKeyValue(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	return headers
}
