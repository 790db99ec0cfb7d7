// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	cryptoSSH "golang.org/x/crypto/ssh"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/config"
	"github.com/rantoo/fleetctl/pkg/inventory"
	"github.com/rantoo/fleetctl/pkg/ssh"
)

// curlTimeoutExit is curl's exit code for an operation timeout.
const curlTimeoutExit = 28

// SSHRunner executes modules over SSH sessions. It is the production
// ModuleRunner.
type SSHRunner struct {
	timeout         time.Duration
	insecureHostKey bool
}

func NewSSHRunner(cfg config.Config) *SSHRunner {
	return &SSHRunner{
		timeout:         cfg.Timeout,
		insecureHostKey: cfg.InsecureHostKey,
	}
}

// RunModule opens a session to the host, runs the command the descriptor
// translates to, and returns combined output. Errors come back typed
// (ConnectError, AuthError, ModuleError) or as the context error so the
// executor can classify them.
func (r *SSHRunner) RunModule(ctx context.Context, desc action.Descriptor, host *inventory.Host) (string, error) {
	cmd, err := remoteCommand(desc, r.timeout)
	if err != nil {
		return "", err
	}

	client, err := r.connect(ctx, host)
	if err != nil {
		return "", err
	}
	defer client.Close()

	out, err := client.RunContext(ctx, cmd)
	if err != nil {
		if ctx.Err() != nil {
			return string(out), ctx.Err()
		}
		var exitErr *cryptoSSH.ExitError
		if errors.As(err, &exitErr) {
			// curl exit 28 means the endpoint itself timed out, which is an
			// unreachable-style outcome rather than a module failure
			if desc.Module == action.ModuleHTTP && exitErr.ExitStatus() == curlTimeoutExit {
				return string(out), fmt.Errorf("health fetch timed out: %w", context.DeadlineExceeded)
			}
			return string(out), &ModuleError{Output: string(out), Err: err}
		}
		return string(out), &ConnectError{Err: err}
	}
	return string(out), nil
}

func (r *SSHRunner) connect(ctx context.Context, host *inventory.Host) (*ssh.Client, error) {
	cfg := &ssh.Config{
		User:                 host.Username,
		Host:                 host.Address,
		Port:                 host.Port,
		Password:             host.Password,
		PrivateKeyPath:       host.PrivateKey,
		PrivateKeyPassphrase: host.Passphrase,
		Timeout:              r.timeout,
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < cfg.Timeout {
			cfg.Timeout = remaining
		}
	}
	if r.insecureHostKey {
		cfg.SetHostKeyCallback(ssh.InsecureHostKey())
	}

	client, err := ssh.NewClient(cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isAuthError(err) {
			return nil, &AuthError{Err: err}
		}
		return nil, &ConnectError{Err: err}
	}
	return client, nil
}

func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") ||
		strings.Contains(msg, "failed to configure auth")
}

// remoteCommand translates a descriptor into the shell command that
// implements its module on the target host.
func remoteCommand(desc action.Descriptor, timeout time.Duration) (string, error) {
	switch desc.Module {
	case action.ModuleService:
		name := desc.Args["name"]
		if name == "" {
			return "", fmt.Errorf("service module requires a unit name")
		}
		if desc.Args["state"] == "restarted" {
			return fmt.Sprintf("sudo systemctl restart %s && systemctl is-active %s", name, name), nil
		}
		return fmt.Sprintf("systemctl is-active %s", name), nil

	case action.ModuleShell:
		cmd := desc.Args["cmd"]
		if cmd == "" {
			return "", fmt.Errorf("shell module requires a command")
		}
		return cmd, nil

	case action.ModuleHTTP:
		url := desc.Args["url"]
		if url == "" {
			return "", fmt.Errorf("http module requires a url")
		}
		secs := int(timeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		return fmt.Sprintf("curl -fsS -m %d %s", secs, url), nil
	}
	return "", fmt.Errorf("unsupported module: %q", desc.Module)
}

// SaveJournal exports the full unit journal on the host to a temporary file
// and downloads it into destDir, returning the local path. Used by
// `fleetctl logs --save`.
func (r *SSHRunner) SaveJournal(ctx context.Context, host *inventory.Host, service, destDir string) (string, error) {
	client, err := r.connect(ctx, host)
	if err != nil {
		return "", err
	}
	defer client.Close()

	remotePath := fmt.Sprintf("/tmp/fleetctl_%s_%d.log", service, time.Now().UnixNano())
	exportCmd := fmt.Sprintf("journalctl -u %s --no-pager > %s", service, remotePath)
	if out, err := client.RunContext(ctx, exportCmd); err != nil {
		return "", fmt.Errorf("journal export on %s failed: %w (output: %s)", host.Name, err, strings.TrimSpace(string(out)))
	}
	defer client.Run(fmt.Sprintf("rm -f %s", remotePath))

	localPath := filepath.Join(destDir, fmt.Sprintf("%s-%s.log", host.Name, service))
	if err := client.Download(remotePath, localPath); err != nil {
		return "", fmt.Errorf("journal download from %s failed: %w", host.Name, err)
	}
	return localPath, nil
}
