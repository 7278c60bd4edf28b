package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitranim/ckq"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Expression bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <json-tree>",
		Short: "Render a JSON syntax tree as query text",
		Long: `Render a JSON syntax tree as query text. Nodes are objects of one of the
following forms:

  {"value": <json>}
  {"identifier": "name"}
  {"func": "name", "args": [<node>, ...]}
  {"call": "name", "args": [<node>, ...]}
  {"initial": "select"}
  {"base": <node>, "keyword": "distinct"}
  {"base": <node>, "args": [<node>, ...]}

Renders a statement unless --expression is given.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runRender(opts, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.Expression, "expression", false, "render as a sub-expression")

	return cmd
}

func runRender(opts *RenderOptions, arg string) (string, error) {
	node, err := decodeNode([]byte(arg))
	if err != nil {
		return "", err
	}
	if opts.Expression {
		return ckq.Expression(node)
	}
	return ckq.Statement(node)
}
