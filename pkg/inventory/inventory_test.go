// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rantoo/fleetctl/pkg/config"
)

func writeInventory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve(t *testing.T) {
	content := `
rantoo:
  - name: web-1
    host: 10.100.72.7
    username: deploy
    private_key: /home/deploy/.ssh/id_ed25519
  - name: web-2
    host: 10.100.72.8
    port: 2222
    username: deploy
    private_key: /home/deploy/.ssh/id_ed25519
staging:
  - name: stage-1
    host: 10.100.80.1
`
	path := writeInventory(t, content)

	got, err := Resolve(path, "rantoo", config.Identity{})
	require.NoError(t, err)

	want := &HostGroup{
		Name: "rantoo",
		Hosts: []*Host{
			{
				Name:       "web-1",
				Address:    "10.100.72.7",
				Username:   "deploy",
				PrivateKey: "/home/deploy/.ssh/id_ed25519",
			},
			{
				Name:       "web-2",
				Address:    "10.100.72.8",
				Port:       2222,
				Username:   "deploy",
				PrivateKey: "/home/deploy/.ssh/id_ed25519",
			},
		},
	}
	require.Equal(t, want, got)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"), "rantoo", config.Identity{})
	require.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestResolveMalformedInventory(t *testing.T) {
	path := writeInventory(t, "rantoo: [not, a, host")
	_, err := Resolve(path, "rantoo", config.Identity{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInventoryNotFound)
}

// A syntactically valid inventory without the requested group still
// resolves; the executor rejects the empty group later so the operator can
// tell a missing file from an empty group.
func TestResolveAbsentGroupSucceedsEmpty(t *testing.T) {
	path := writeInventory(t, "staging:\n  - name: stage-1\n    host: 10.100.80.1\n")

	got, err := Resolve(path, "rantoo", config.Identity{})
	require.NoError(t, err)
	require.Equal(t, "rantoo", got.Name)
	require.Empty(t, got.Hosts)
}

func TestResolveAppliesIdentityDefaults(t *testing.T) {
	content := `
rantoo:
  - host: 10.100.72.7
  - name: web-2
    host: 10.100.72.8
    username: admin
    password: changeme
`
	path := writeInventory(t, content)

	identity := config.Identity{
		User:           "deploy",
		PrivateKeyPath: "/home/deploy/.ssh/id_ed25519",
		Passphrase:     "secret",
	}
	got, err := Resolve(path, "rantoo", identity)
	require.NoError(t, err)
	require.Len(t, got.Hosts, 2)

	// bare host picks up name, user and key from the identity
	require.Equal(t, "10.100.72.7", got.Hosts[0].Name)
	require.Equal(t, "deploy", got.Hosts[0].Username)
	require.Equal(t, "/home/deploy/.ssh/id_ed25519", got.Hosts[0].PrivateKey)
	require.Equal(t, "secret", got.Hosts[0].Passphrase)

	// host with its own credentials keeps them
	require.Equal(t, "admin", got.Hosts[1].Username)
	require.Equal(t, "changeme", got.Hosts[1].Password)
	require.Empty(t, got.Hosts[1].PrivateKey)
}
