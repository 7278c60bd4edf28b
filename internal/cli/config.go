package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mitranim/ckq/ckconf"
)

// ConfigOptions holds flags for the config command.
type ConfigOptions struct {
	File     string
	Settings string
	Write    bool
	Server   ckconf.Options
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{Server: ckconf.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate server configuration",
		Long: `Generate the XML configuration of a local server. Options are read from
--file if given, then overridden by flags. Extra settings are merged from
--settings. Prints the XML unless --write is given, in which case the file is
written to the data directory and its path is printed.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(opts, cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.File, "file", "f", "", "YAML options file")
	flags.StringVar(&opts.Settings, "settings", "", "YAML file with extra settings")
	flags.BoolVar(&opts.Write, "write", false, "write config.xml to the data directory")
	flags.IntVar(&opts.Server.TcpPort, "tcp-port", opts.Server.TcpPort, "native protocol port")
	flags.IntVar(&opts.Server.HttpPort, "http-port", opts.Server.HttpPort, "HTTP interface port")
	flags.StringVar(&opts.Server.User, "user", opts.Server.User, "user name")
	flags.StringVar(&opts.Server.Password, "password", opts.Server.Password, "user password")
	flags.StringVar(&opts.Server.DataDir, "data-dir", opts.Server.DataDir, "data directory")
	flags.Uint64Var(&opts.Server.MemorySize, "memory-size", 0, "memory size in bytes (default: physical memory)")

	return cmd
}

func runConfig(opts *ConfigOptions, cmd *cobra.Command) error {
	server, err := resolveServerOptions(opts, cmd)
	if err != nil {
		return err
	}

	if opts.Write {
		path, err := ckconf.Create(server)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	}

	tree, err := ckconf.Build(server)
	if err != nil {
		return err
	}
	return ckconf.WriteXML(cmd.OutOrStdout(), tree)
}

// resolveServerOptions applies the options file, then explicitly set flags,
// then the settings file.
func resolveServerOptions(opts *ConfigOptions, cmd *cobra.Command) (ckconf.Options, error) {
	server := opts.Server

	if opts.File != "" {
		loaded, err := ckconf.LoadOptions(opts.File, os.Getenv)
		if err != nil {
			return ckconf.Options{}, err
		}

		flags := cmd.Flags()
		if flags.Changed("tcp-port") {
			loaded.TcpPort = server.TcpPort
		}
		if flags.Changed("http-port") {
			loaded.HttpPort = server.HttpPort
		}
		if flags.Changed("user") {
			loaded.User = server.User
		}
		if flags.Changed("password") {
			loaded.Password = server.Password
		}
		if flags.Changed("data-dir") {
			loaded.DataDir = server.DataDir
		}
		if flags.Changed("memory-size") {
			loaded.MemorySize = server.MemorySize
		}
		server = loaded
	}

	if opts.Settings != "" {
		tree, err := ckconf.LoadYAML(opts.Settings)
		if err != nil {
			return ckconf.Options{}, err
		}
		merged := make(map[string]any, len(server.Settings)+len(tree))
		for key, val := range server.Settings {
			merged[key] = val
		}
		for key, val := range tree {
			merged[key] = val
		}
		server.Settings = merged
	}

	return server, nil
}
