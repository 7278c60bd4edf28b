package cksess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// StatusError reports a non-200 response of the HTTP interface. The response
// body is collected into Error.Stderr.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

func (s *Session) httpUrl() string {
	return "http://" + net.JoinHostPort(s.opt.Host, strconv.Itoa(s.opt.HttpPort)) + "/"
}

func (s *Session) runHttp(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.httpUrl(), stdin)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if _, err := io.Copy(stderr, resp.Body); err != nil {
			return fmt.Errorf("failed to read error response: %w", err)
		}
		return &StatusError{Code: resp.StatusCode}
	}

	if _, err := io.Copy(stdout, resp.Body); err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	return nil
}

func (s *Session) clientArgs() []string {
	return []string{"client", "--host", s.opt.Host, "--port", strconv.Itoa(s.opt.TcpPort)}
}

func (s *Session) runTcp(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, s.opt.Binary, s.clientArgs()...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// remoteCommand is run by the remote shell. The client connects to the server
// on the same host, so only the port is passed.
func (s *Session) remoteCommand() string {
	var parts []string
	if s.opt.SshCommandPrefix != "" {
		parts = append(parts, s.opt.SshCommandPrefix)
	}
	parts = append(parts, s.opt.Binary, "client", "--port", strconv.Itoa(s.opt.TcpPort))
	return strings.Join(parts, " ")
}

var errSshNotConfigured = errors.New("ssh is not configured: set SshUsername")

func (s *Session) runSsh(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	if s.ssh == nil {
		return errSshNotConfigured
	}

	sess, err := s.ssh.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open ssh session: %w", err)
	}
	defer sess.Close()

	sess.Stdin = stdin
	sess.Stdout = stdout
	sess.Stderr = stderr

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			sess.Close()
		case <-done:
		}
	}()

	err = sess.Run(s.remoteCommand())
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func dialSsh(opt Options) (*ssh.Client, error) {
	var authMethods []ssh.AuthMethod

	if opt.SshPublicKey != "" {
		keyData, err := os.ReadFile(opt.SshPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ssh key: %w", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	if opt.SshPassword != "" {
		authMethods = append(authMethods, ssh.Password(opt.SshPassword))
	}

	if len(authMethods) == 0 {
		return nil, errors.New("ssh requires a password or a key")
	}

	config := &ssh.ClientConfig{
		User:            opt.SshUsername,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sshTimeout,
	}

	if opt.SshKnownHosts != "" {
		callback, err := knownhosts.New(opt.SshKnownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
		config.HostKeyCallback = callback
	}

	port := opt.SshPort
	if port == 0 {
		port = DefaultSshPort
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(opt.Host, strconv.Itoa(port)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect via ssh: %w", err)
	}
	return client, nil
}
