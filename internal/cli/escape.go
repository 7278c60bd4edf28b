package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mitranim/ckq"
)

// EscapeOptions holds flags for the escape command.
type EscapeOptions struct {
	Text  bool
	Quote string
}

// NewEscapeCommand creates the escape command.
func NewEscapeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EscapeOptions{}

	cmd := &cobra.Command{
		Use:   "escape <json-value>",
		Short: "Encode a JSON value as a query literal",
		Long: `Encode a JSON value as a query literal. Arrays become array(...), objects
become array(tuple(key, value), ...) with sorted keys.

With --text, the argument is taken as a plain string and quoted with --quote.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := runEscape(opts, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.Text, "text", false, "treat the argument as plain text")
	cmd.Flags().StringVar(&opts.Quote, "quote", "'", "quote character for --text")

	return cmd
}

func runEscape(opts *EscapeOptions, arg string) (string, error) {
	if opts.Text {
		if len(opts.Quote) != 1 {
			return "", errors.New("quote must be a single ASCII character")
		}
		text, err := escapeText(arg, opts.Quote[0])
		if err != nil {
			return "", err
		}
		return text, nil
	}

	val, err := decodeValue([]byte(arg))
	if err != nil {
		return "", err
	}
	return ckq.EscapeValue(val)
}

func escapeText(src string, quote byte) (out string, err error) {
	bui := ckq.MakeBui(len(src) + 2)
	err = bui.Catch(func(bui *ckq.Bui) {
		bui.Text = ckq.AppendText(bui.Text, src, quote)
	})
	return bui.String(), err
}
