// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package ssh

import (
	"bufio"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// InsecureHostKey accepts any host key without verification. Only meant for
// throwaway lab fleets; the flag that enables it says so.
func InsecureHostKey() ssh.HostKeyCallback {
	return ssh.InsecureIgnoreHostKey()
}

// DefaultKnownHostsPath returns the default user known_hosts file.
func DefaultKnownHostsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}

// configureHostKeyCallback returns an interactive host key callback by default
// that prompts the user when encountering unknown hosts. If a custom callback
// is provided, it will be used instead.
func configureHostKeyCallback(hostKeyCallback ssh.HostKeyCallback) (ssh.HostKeyCallback, error) {
	if hostKeyCallback != nil {
		return hostKeyCallback, nil
	}

	path, err := DefaultKnownHostsPath()
	if err != nil {
		return nil, err
	}

	return InteractiveHostKeyCallback(path)
}

// InteractiveHostKeyCallback creates a host key callback that prompts the user
// when encountering an unknown host key. If the user accepts, the key is
// appended to the known_hosts file; a host already present is validated
// without prompting.
func InteractiveHostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	if err := ensureKnownHostsFile(knownHostsPath); err != nil {
		return nil, fmt.Errorf("failed to ensure known_hosts file exists: %w", err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		// Re-read known_hosts on each attempt so keys accepted for earlier
		// hosts of the same dispatch are picked up.
		verify, err := knownhosts.New(knownHostsPath)
		if err != nil {
			return fmt.Errorf("failed to read known_hosts %s: %w", knownHostsPath, err)
		}

		lookupHostname := hostname
		if tcpAddr, ok := remote.(*net.TCPAddr); ok && !strings.Contains(hostname, ":") {
			lookupHostname = net.JoinHostPort(hostname, fmt.Sprint(tcpAddr.Port))
		}

		err = verify(lookupHostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) {
			return promptAndAddHostKey(hostname, remote, key, knownHostsPath, keyErr)
		}

		return err
	}, nil
}

// promptAndAddHostKey prompts the user to accept or reject an unknown host key
// and adds it to known_hosts if accepted.
func promptAndAddHostKey(hostname string, remote net.Addr, key ssh.PublicKey, knownHostsPath string, keyErr *knownhosts.KeyError) error {
	fingerprint := hostKeyFingerprint(key)

	fmt.Printf("\nThe authenticity of host '%s (%s)' can't be established.\n", hostname, remote.String())
	fmt.Printf("%s key fingerprint is %s.\n", key.Type(), fingerprint)
	if len(keyErr.Want) > 0 {
		fmt.Printf("This host key is known but does not match. Possible man-in-the-middle attack!\n")
	}
	fmt.Printf("Are you sure you want to continue connecting (yes/no/[fingerprint])? ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read user input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response != "yes" && response != "y" && response != strings.ToLower(fingerprint) {
		return fmt.Errorf("host key verification cancelled by user")
	}

	if err := addHostKeyToKnownHosts(hostname, remote, key, knownHostsPath); err != nil {
		return fmt.Errorf("failed to add host key to known_hosts: %w", err)
	}

	fmt.Printf("Warning: Permanently added '%s' (%s) to the list of known hosts.\n", hostname, key.Type())
	return nil
}

// hostKeyFingerprint returns the SHA256 fingerprint of the host key
// in the format used by OpenSSH (SHA256:...).
func hostKeyFingerprint(key ssh.PublicKey) string {
	hash := sha256.Sum256(key.Marshal())
	return "SHA256:" + base64.StdEncoding.EncodeToString(hash[:])
}

// addHostKeyToKnownHosts appends a host key entry covering both the hostname
// and, when available, the remote IP.
func addHostKeyToKnownHosts(hostname string, remote net.Addr, key ssh.PublicKey, knownHostsPath string) error {
	file, err := os.OpenFile(knownHostsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open known_hosts file: %w", err)
	}
	defer file.Close()

	addresses := []string{hostname}
	if tcpAddr, ok := remote.(*net.TCPAddr); ok && tcpAddr.IP.String() != hostname {
		addresses = append(addresses, tcpAddr.IP.String())
	}

	entry := knownhosts.Line(addresses, key)
	if _, err := file.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("failed to write to known_hosts file: %w", err)
	}

	return nil
}

// ensureKnownHostsFile ensures the known_hosts file and its directory exist.
func ensureKnownHostsFile(knownHostsPath string) error {
	if err := os.MkdirAll(filepath.Dir(knownHostsPath), 0o700); err != nil {
		return fmt.Errorf("failed to create .ssh directory: %w", err)
	}

	if _, err := os.Stat(knownHostsPath); os.IsNotExist(err) {
		file, err := os.OpenFile(knownHostsPath, os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create known_hosts file: %w", err)
		}
		file.Close()
	}

	return nil
}
