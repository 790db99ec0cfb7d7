// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// default constants
const (
	DefaultTimeout = 20 * time.Second
	DefaultPort    = 22
)

// Client represents ssh client.
type Client struct {
	*ssh.Client
}

type Config struct {
	User                 string
	Host                 string
	Port                 int
	Timeout              time.Duration
	Password             string
	PrivateKeyPath       string
	PrivateKeyPassphrase string
	hostKeyCallBack      ssh.HostKeyCallback
}

func (c *Config) SetHostKeyCallback(hostKeyCallBack ssh.HostKeyCallback) {
	c.hostKeyCallBack = hostKeyCallBack
}

// NewClient returns new ssh client and error if any.
func NewClient(config *Config) (*Client, error) {
	c := &Client{}
	var err error

	auth, err := configureAuth(config.Password, config.PrivateKeyPath, config.PrivateKeyPassphrase)
	if err != nil {
		return nil, errors.New("failed to configure auth: " + err.Error())
	}

	hostKeyCallback, err := configureHostKeyCallback(config.hostKeyCallBack)
	if err != nil {
		return nil, errors.New("failed to configure hostKeyCallBack: " + err.Error())
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}

	c.Client, err = ssh.Dial("tcp", net.JoinHostPort(config.Host, fmt.Sprint(config.Port)), &ssh.ClientConfig{
		User:            config.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         config.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Run starts a new SSH session and runs the cmd, it returns CombinedOutput and err if any.
func (c Client) Run(cmd string) ([]byte, error) {
	sess, err := c.NewSession()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	return sess.CombinedOutput(cmd)
}

// RunContext runs cmd like Run but aborts the session when ctx is done,
// returning ctx.Err() so callers can tell a timeout from a remote failure.
func (c Client) RunContext(ctx context.Context, cmd string) ([]byte, error) {
	sess, err := c.NewSession()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := sess.CombinedOutput(cmd)
		done <- result{out: out, err: err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		// closing the session unblocks CombinedOutput
		sess.Close()
		return nil, ctx.Err()
	}
}

// newSftp returns new sftp client and error if any.
func (c Client) newSftp(opts ...sftp.ClientOption) (*sftp.Client, error) {
	return sftp.NewClient(c.Client, opts...)
}

// Close client net connection.
func (c Client) Close() error {
	return c.Client.Close()
}

// makeTempPath generates temporary file location
func makeTempPath(basePath string) string {
	return filepath.Join("/tmp", fmt.Sprintf("fleetctl_%d_%s", time.Now().UnixNano(), filepath.Base(basePath)))
}

// Download file from remote server!
func (c Client) Download(remotePath string, localPath string) (err error) {
	if err := c.sftpDownload(remotePath, localPath); err != nil {
		if isPermissionDenied(err) {
			return c.sudoDownload(remotePath, localPath)
		}
		return err
	}
	return nil
}

func (c Client) sftpDownload(remotePath string, localPath string) error {
	local, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer local.Close()

	ftp, err := c.newSftp()
	if err != nil {
		return err
	}
	defer ftp.Close()

	remote, err := ftp.Open(remotePath)
	if err != nil {
		return err
	}
	defer remote.Close()

	// Stat to retrieve remote file permissions
	remoteFileInfo, err := remote.Stat()
	if err != nil {
		return err
	}

	if _, err = io.Copy(local, remote); err != nil {
		return err
	}

	// set local file permissions to match remote file
	if err := local.Chmod(remoteFileInfo.Mode()); err != nil {
		return err
	}

	return local.Sync()
}

func (c Client) sudoDownload(remotePath string, localPath string) error {
	// To handle permission denied errors, we first copy the file to a temporary location
	// on the remote server using sudo, change its ownership to the current user,
	// then download it, and finally clean up the temporary file.
	tempPath := makeTempPath(remotePath)

	if _, err := c.Run(fmt.Sprintf("sudo cp -p %s %s", remotePath, tempPath)); err != nil {
		return fmt.Errorf("failed to sudo cp to %s: %w", tempPath, err)
	}
	defer c.Run(fmt.Sprintf("sudo rm -f %s", tempPath))

	if _, err := c.Run(fmt.Sprintf("sudo chown %s %s", c.Client.User(), tempPath)); err != nil {
		return fmt.Errorf("failed to sudo chown on %s: %w", tempPath, err)
	}

	return c.sftpDownload(tempPath, localPath)
}

func isPermissionDenied(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	var statusErr *sftp.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == uint32(sftp.ErrSshFxPermissionDenied) {
			return true
		}
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "permission denied") || strings.Contains(errMsg, "ssh_fx_permission_denied")
}
