// Package cksess sends query text to a ClickHouse server over one of three
// transports: the HTTP interface, the local command-line client, or the
// command-line client on the server host via SSH. Input and output are
// streamed; the query itself is sent as the first line of the input.
package cksess

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/mitranim/ckq"
	"github.com/mitranim/ckq/ckconf"
)

// Method selects the transport of a query.
type Method string

const (
	MethodHttp Method = "http"
	MethodTcp  Method = "tcp"
	MethodSsh  Method = "ssh"
)

// ParseMethod accepts "http", "tcp" or "ssh".
func ParseMethod(val string) (Method, error) {
	switch method := Method(val); method {
	case MethodHttp, MethodTcp, MethodSsh:
		return method, nil
	default:
		return "", fmt.Errorf("unknown method %q (expected http, tcp or ssh)", val)
	}
}

const (
	DefaultHost    = "localhost"
	DefaultSshPort = 22
	sshTimeout     = 30 * time.Second
)

// Options configures a Session. SSH fields are only needed for MethodSsh; the
// SSH connection is established by Open when SshUsername is set.
type Options struct {
	Host     string
	TcpPort  int
	HttpPort int

	SshPort          int
	SshUsername      string
	SshPassword      string
	SshPublicKey     string // path to the private key file
	SshKnownHosts    string // path to a known_hosts file; host keys are not checked when empty
	SshCommandPrefix string // prepended to the remote command, e.g. "sudo"

	// Binary is the local client executable for MethodTcp and the remote one
	// for MethodSsh. Defaults to ckconf.BinaryFile.
	Binary string

	HttpClient *http.Client
	Logger     *slog.Logger
}

// DefaultOptions returns options for a server on localhost with default ports.
func DefaultOptions() Options {
	return Options{
		Host:     DefaultHost,
		TcpPort:  ckconf.DefaultTcpPort,
		HttpPort: ckconf.DefaultHttpPort,
		SshPort:  DefaultSshPort,
	}
}

// Session is a handle to a single server. It holds no connection for HTTP and
// TCP queries. It is safe for concurrent use.
type Session struct {
	opt    Options
	http   *http.Client
	ssh    *ssh.Client
	logger atomic.Pointer[slog.Logger]

	closeOnce sync.Once
	closeErr  error
}

// Open creates a session, connecting over SSH if SshUsername is set.
func Open(opt Options) (*Session, error) {
	if opt.Host == "" {
		opt.Host = DefaultHost
	}
	if opt.Binary == "" {
		opt.Binary = ckconf.BinaryFile()
	}

	sess := &Session{
		opt:  opt,
		http: opt.HttpClient,
	}
	if sess.http == nil {
		sess.http = http.DefaultClient
	}
	sess.SetLogger(opt.Logger)

	if opt.SshUsername != "" {
		client, err := dialSsh(opt)
		if err != nil {
			return nil, err
		}
		sess.ssh = client
	}
	return sess, nil
}

// SetLogger sets the logger. If nil, slog.Default() is used. Safe to call
// while queries are running; each query uses the logger set when it started.
func (s *Session) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.logger.Store(logger)
}

// Close releases the SSH connection, if any.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.ssh != nil {
			s.closeErr = s.ssh.Close()
		}
	})
	return s.closeErr
}

// Query runs the query text, streaming in after it and the result to out.
// Both in and out may be nil. Server-side failures are returned as *Error.
func (s *Session) Query(ctx context.Context, text string, in io.Reader, out io.Writer, method Method) error {
	stdin := io.MultiReader(strings.NewReader(text+"\n"), orEmpty(in))
	if out == nil {
		out = io.Discard
	}
	var stderr bytes.Buffer

	logger := s.logger.Load().With("method", string(method), "host", s.opt.Host)
	logger.DebugContext(ctx, "running query", "query", text)
	start := time.Now()

	var err error
	switch method {
	case MethodHttp:
		err = s.runHttp(ctx, stdin, out, &stderr)
	case MethodTcp:
		err = s.runTcp(ctx, stdin, out, &stderr)
	case MethodSsh:
		err = s.runSsh(ctx, stdin, out, &stderr)
	default:
		_, err = ParseMethod(string(method))
		return err
	}

	if err != nil {
		logger.WarnContext(ctx, "query failed", "error", err, "duration", time.Since(start))
		return &Error{
			Host:     s.opt.Host,
			TcpPort:  s.opt.TcpPort,
			HttpPort: s.opt.HttpPort,
			Query:    text,
			Stderr:   stderr.String(),
			Cause:    err,
		}
	}

	logger.DebugContext(ctx, "query finished", "duration", time.Since(start))
	return nil
}

// QueryNode renders the node as a statement and runs it via Query.
func (s *Session) QueryNode(ctx context.Context, node ckq.Node, in io.Reader, out io.Writer, method Method) error {
	text, err := ckq.Statement(node)
	if err != nil {
		return fmt.Errorf("failed to render query: %w", err)
	}
	return s.Query(ctx, text, in, out, method)
}

// QueryString runs the query and returns its whole output.
func (s *Session) QueryString(ctx context.Context, text string, method Method) (string, error) {
	var out strings.Builder
	err := s.Query(ctx, text, nil, &out, method)
	return out.String(), err
}

func orEmpty(in io.Reader) io.Reader {
	if in == nil {
		return strings.NewReader("")
	}
	return in
}
