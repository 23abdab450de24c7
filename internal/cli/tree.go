package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/core"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// treeNode is the JSON form of one tree line.
type treeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Method   string     `json:"method,omitempty"`
	URL      string     `json:"url,omitempty"`
	Children []treeNode `json:"children,omitempty"`
}

func newTreeCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree [COLLECTION]",
		Short: "Print collections with their folders and requests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				collections := a.Workspace().Collections()
				if len(args) == 1 {
					i, err := findCollection(collections, args[0])
					if err != nil {
						return err
					}
					collections = collections[i : i+1]
				}
				if asJSON {
					return writeTreeJSON(cmd.OutOrStdout(), collections)
				}
				writeTree(cmd.OutOrStdout(), collections)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the tree as JSON")
	return cmd
}

// writeTree prints every item of every collection in pre-order, ignoring
// expansion state.
func writeTree(out io.Writer, collections []*core.Collection) {
	if len(collections) == 0 {
		fmt.Fprintln(out, "No collections.")
		return
	}
	for _, c := range collections {
		fmt.Fprintf(out, "%s (%d requests)\n", c.Name(), c.CountRequests())
		c.Walk(func(depth int, item core.Item) bool {
			indent := strings.Repeat("  ", depth+1)
			if req, ok := core.AsRequest(item); ok {
				fmt.Fprintf(out, "%s%-7s %s\n", indent, req.Method(), req.Name())
			} else {
				fmt.Fprintf(out, "%s%s/\n", indent, item.Name())
			}
			return true
		})
	}
}

func writeTreeJSON(out io.Writer, collections []*core.Collection) error {
	nodes := make([]treeNode, 0, len(collections))
	for _, c := range collections {
		nodes = append(nodes, treeNode{ID: c.ID(), Name: c.Name(), Children: toTreeNodes(c.Items())})
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodes)
}

func toTreeNodes(items []core.Item) []treeNode {
	nodes := make([]treeNode, 0, len(items))
	for _, item := range items {
		node := treeNode{ID: item.ID(), Name: item.Name()}
		if req, ok := core.AsRequest(item); ok {
			node.Method = string(req.Method())
			node.URL = req.URL()
		} else if f, ok := core.AsFolder(item); ok {
			node.Children = toTreeNodes(f.Items())
		}
		nodes = append(nodes, node)
	}
	return nodes
}
