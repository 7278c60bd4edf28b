// Package ckconf generates server configuration files for a local ClickHouse
// instance: listening ports, data paths, a single user with its profile and
// quota, and memory limits derived from the host's physical memory.
package ckconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
)

const (
	DefaultTcpPort  = 9000
	DefaultHttpPort = 8123
	DefaultUser     = "default"

	defaultListenHost    = "0.0.0.0"
	defaultMarkCacheSize = "5368709120"
)

// Tree is a nested configuration document. Leaves are strings, branches are
// nested trees. Element order is not significant; see WriteXML.
type Tree map[string]any

// Options describes the server to configure. Settings are merged into the
// generated tree and take precedence over every default except the ports.
type Options struct {
	TcpPort    int            `yaml:"tcp_port"`
	HttpPort   int            `yaml:"http_port"`
	User       string         `yaml:"user"`
	Password   string         `yaml:"password"`
	DataDir    string         `yaml:"data_dir"`
	MemorySize uint64         `yaml:"memory_size"`
	Settings   map[string]any `yaml:"settings"`
}

// DefaultOptions returns the options of a single-user local server.
func DefaultOptions() Options {
	return Options{
		TcpPort:  DefaultTcpPort,
		HttpPort: DefaultHttpPort,
		User:     DefaultUser,
		DataDir:  DefaultDataDir(),
	}
}

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	var errs []error
	if o.TcpPort < 1 || o.TcpPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid tcp port: %d (must be 1-65535)", o.TcpPort))
	}
	if o.HttpPort < 1 || o.HttpPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port: %d (must be 1-65535)", o.HttpPort))
	}
	if o.User == "" {
		errs = append(errs, errors.New("user is required"))
	}
	if o.DataDir == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	return errors.Join(errs...)
}

// Build produces the configuration tree. When MemorySize is zero, memory
// limits are derived from PhysicalMemory.
func Build(opt Options) (Tree, error) {
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	memory := opt.MemorySize
	if memory == 0 {
		var err error
		memory, err = PhysicalMemory()
		if err != nil {
			return nil, fmt.Errorf("failed to detect memory size: %w", err)
		}
	}

	data, err := normalizeTree(opt.Settings, "")
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	data["tcp_port"] = strconv.Itoa(opt.TcpPort)
	data["http_port"] = strconv.Itoa(opt.HttpPort)

	setDefault(data, "listen_host", defaultListenHost)
	setDefault(data, "path", opt.DataDir)
	setDefault(data, "tmp_path", filepath.Join(opt.DataDir, "tmp"))
	setDefault(data, "format_schema_path", filepath.Join(opt.DataDir, "format_schema"))
	setDefault(data, "user_files_path", filepath.Join(opt.DataDir, "user_files"))
	setDefault(data, "mark_cache_size", defaultMarkCacheSize)
	setDefault(data, "logger", Tree{
		"log":      filepath.Join(opt.DataDir, "stdout.log"),
		"errorlog": filepath.Join(opt.DataDir, "stderr.log"),
	})
	setDefault(data, "query_log", Tree{
		"database": "system",
		"table":    "query_log",
	})

	profile, err := section(data, "profiles", opt.User)
	if err != nil {
		return nil, err
	}
	setupProfile(profile, memory)

	user, err := section(data, "users", opt.User)
	if err != nil {
		return nil, err
	}
	setDefault(user, "profile", opt.User)
	setDefault(user, "quota", opt.User)
	setDefault(user, "password", opt.Password)
	setDefault(user, "networks", Tree{"ip": "::/0"})

	if _, err := section(data, "quotas", opt.User); err != nil {
		return nil, err
	}
	return data, nil
}

// Limits are 60%, 50% and 10% of the memory size, in that order.
func setupProfile(profile Tree, memory uint64) {
	bound1 := strconv.FormatUint(memory/10*6+memory%10*6/10, 10)
	bound2 := strconv.FormatUint(memory/10*5+memory%10*5/10, 10)
	bound3 := strconv.FormatUint(memory/10, 10)

	setDefault(profile, "max_memory_usage_for_all_queries", bound1)
	setDefault(profile, "max_memory_usage", bound1)
	setDefault(profile, "max_bytes_before_external_group_by", bound2)
	setDefault(profile, "max_bytes_before_external_sort", bound2)
	setDefault(profile, "max_bytes_in_distinct", bound2)
	setDefault(profile, "max_bytes_before_remerge_sort", bound3)
	setDefault(profile, "max_bytes_in_set", bound3)
	setDefault(profile, "max_bytes_in_join", bound3)
	setDefault(profile, "log_queries", "1")
	setDefault(profile, "join_use_nulls", "1")
	setDefault(profile, "join_algorithm", "auto")
	setDefault(profile, "input_format_allow_errors_num", "100")
	setDefault(profile, "input_format_allow_errors_ratio", "0.01")
	setDefault(profile, "date_time_input_format", "best_effort")
}

func setDefault(data Tree, key string, val any) {
	if _, ok := data[key]; !ok {
		data[key] = val
	}
}

// section returns data[group][name], creating missing levels. Existing leaves
// at either level are an error.
func section(data Tree, group, name string) (Tree, error) {
	outer, err := subtree(data, group, group)
	if err != nil {
		return nil, err
	}
	return subtree(outer, name, group+"."+name)
}

func subtree(data Tree, key, path string) (Tree, error) {
	val, ok := data[key]
	if !ok {
		out := Tree{}
		data[key] = out
		return out, nil
	}
	out, ok := val.(Tree)
	if !ok {
		return nil, fmt.Errorf("expected %q to be a section, got %q", path, val)
	}
	return out, nil
}

// normalizeTree deep-copies decoded settings, converting scalars to strings.
func normalizeTree(src map[string]any, path string) (Tree, error) {
	out := make(Tree, len(src))
	for key, val := range src {
		keyPath := joinPath(path, key)
		if !isElementName(key) {
			return nil, fmt.Errorf("invalid element name %q", keyPath)
		}

		norm, err := normalizeValue(val, keyPath)
		if err != nil {
			return nil, err
		}
		out[key] = norm
	}
	return out, nil
}

func normalizeValue(src any, path string) (any, error) {
	switch val := src.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case Tree:
		return normalizeTree(val, path)
	case map[string]any:
		return normalizeTree(val, path)
	default:
		return nil, fmt.Errorf("unsupported value of type %T at %q", src, path)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func isElementName(val string) bool {
	if val == "" {
		return false
	}
	for ind, char := range val {
		switch {
		case char == '_', char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z':
		case ind > 0 && (char == '-' || char == '.' || char >= '0' && char <= '9'):
		default:
			return false
		}
	}
	return true
}
