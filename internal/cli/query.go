package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mitranim/ckq"
	"github.com/mitranim/ckq/cksess"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	Method string
	Input  string
	Tree   bool
	Server cksess.Options
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{Server: cksess.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run a query against a server",
		Long: `Run a query and stream its output to stdout. With --input, the file (or
stdin for "-") is sent after the query, e.g. for inserts. With --tree, the
argument is a JSON syntax tree as accepted by the render command.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, opts, args[0], cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Method, "method", "m", string(cksess.MethodHttp), "transport (http|tcp|ssh)")
	flags.StringVarP(&opts.Input, "input", "i", "", `file to send after the query ("-" for stdin)`)
	flags.BoolVar(&opts.Tree, "tree", false, "treat the argument as a JSON syntax tree")
	flags.StringVar(&opts.Server.Host, "host", opts.Server.Host, "server host")
	flags.IntVar(&opts.Server.TcpPort, "tcp-port", opts.Server.TcpPort, "native protocol port")
	flags.IntVar(&opts.Server.HttpPort, "http-port", opts.Server.HttpPort, "HTTP interface port")
	flags.IntVar(&opts.Server.SshPort, "ssh-port", opts.Server.SshPort, "SSH port")
	flags.StringVar(&opts.Server.SshUsername, "ssh-user", "", "SSH user name (enables the ssh method)")
	flags.StringVar(&opts.Server.SshPassword, "ssh-password", "", "SSH password")
	flags.StringVar(&opts.Server.SshPublicKey, "ssh-key", "", "SSH private key file")
	flags.StringVar(&opts.Server.SshKnownHosts, "ssh-known-hosts", "", "known_hosts file for host key checking")
	flags.StringVar(&opts.Server.SshCommandPrefix, "ssh-prefix", "", "prefix of the remote command, e.g. sudo")
	flags.StringVar(&opts.Server.Binary, "binary", "", "client binary (default: bundled or clickhouse)")

	return cmd
}

func runQuery(rootOpts *RootOptions, opts *QueryOptions, arg string, cmd *cobra.Command) error {
	method, err := cksess.ParseMethod(opts.Method)
	if err != nil {
		return err
	}

	text := arg
	if opts.Tree {
		node, err := decodeNode([]byte(arg))
		if err != nil {
			return err
		}
		if text, err = ckq.Statement(node); err != nil {
			return err
		}
	}

	in, closeIn, err := openInput(opts.Input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer closeIn()

	server := opts.Server
	server.Logger = rootOpts.Logger(cmd.ErrOrStderr())

	sess, err := cksess.Open(server)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.Query(cmd.Context(), text, in, cmd.OutOrStdout(), method)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return stdin, func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return file, func() { file.Close() }, nil
}
