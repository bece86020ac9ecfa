package source

import (
	"context"
	"fmt"
	"strings"
)

// SSHAdapter tails a remote file by running tail -F over ssh
type SSHAdapter struct {
	Host string // user@host or host
	Path string // remote file path
}

// NewSSHAdapter creates an adapter for a remote file
func NewSSHAdapter(host, path string) (*SSHAdapter, error) {
	if err := validateSSHHost(host); err != nil {
		return nil, err
	}
	if err := validateRemotePath(path); err != nil {
		return nil, err
	}
	return &SSHAdapter{Host: host, Path: path}, nil
}

// Tail streams the remote file until cancelled. BatchMode disables
// password prompts so a misconfigured host fails fast instead of
// hanging the source task on interactive input.
func (a *SSHAdapter) Tail(ctx context.Context, emit Emit) {
	tailCommand(ctx, emit, "ssh",
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=accept-new",
		a.Host,
		"tail", "-F", "-n", DefaultTailLines, a.Path)
}

// DisplayName returns the ssh-prefixed host and path
func (a *SSHAdapter) DisplayName() string {
	return fmt.Sprintf("ssh:%s:%s", a.Host, a.Path)
}

// validateSSHHost accepts host or user@host forms made of hostname-safe
// characters, rejecting anything the ssh command could parse as options.
func validateSSHHost(host string) error {
	if host == "" {
		return fmt.Errorf("ssh host is empty")
	}
	if strings.HasPrefix(host, "-") {
		return fmt.Errorf("invalid ssh host %q: must not start with '-'", host)
	}
	for _, r := range host {
		ok := r == '@' || r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return fmt.Errorf("invalid ssh host %q: unexpected character %q", host, r)
		}
	}
	return nil
}

func validateRemotePath(path string) error {
	if path == "" {
		return fmt.Errorf("remote path is empty")
	}
	if strings.HasPrefix(path, "-") {
		return fmt.Errorf("invalid remote path %q: must not start with '-'", path)
	}
	if strings.ContainsAny(path, ";|&$`\n") {
		return fmt.Errorf("invalid remote path %q: shell metacharacters not allowed", path)
	}
	return nil
}
