// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/config"
	"github.com/rantoo/fleetctl/pkg/inventory"
	"github.com/rantoo/fleetctl/pkg/report"
)

// recordingRunner counts module invocations and remembers the descriptors
// it received.
type recordingRunner struct {
	mu    sync.Mutex
	descs []action.Descriptor
}

func (r *recordingRunner) RunModule(ctx context.Context, desc action.Descriptor, host *inventory.Host) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descs = append(r.descs, desc)
	return "active", nil
}

func (r *recordingRunner) invocations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.descs)
}

func testConfig(inventoryPath string) config.Config {
	return config.Config{
		InventoryPath: inventoryPath,
		Group:         "rantoo",
		Identity:      config.Identity{User: "deploy", PrivateKeyPath: "/tmp/id_test"},
		Service:       "rantoo",
		HealthPort:    8080,
		Timeout:       time.Second,
		Concurrency:   2,
	}
}

func writeTestInventory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	content := "rantoo:\n  - name: web-1\n    host: 10.0.0.1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// A missing inventory is a hard precondition failure: the dispatcher must
// exit non-zero without a single remote invocation.
func TestDispatchOperationMissingInventory(t *testing.T) {
	runner := &recordingRunner{}
	var buf bytes.Buffer

	cfg := testConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	code := dispatchOperation(context.Background(), cfg, action.OpStatus, runner, &buf)

	require.Equal(t, report.ExitFailure, code)
	require.Equal(t, 0, runner.invocations())
	require.Contains(t, buf.String(), "inventory file not found")
}

func TestDispatchOperationStatusSingleHost(t *testing.T) {
	runner := &recordingRunner{}
	var buf bytes.Buffer

	cfg := testConfig(writeTestInventory(t))
	code := dispatchOperation(context.Background(), cfg, action.OpStatus, runner, &buf)

	require.Equal(t, report.ExitSuccess, code)
	require.Equal(t, 1, runner.invocations())
	require.Equal(t, action.ModuleService, runner.descs[0].Module)
	require.Equal(t, map[string]string{"name": "rantoo"}, runner.descs[0].Args)
	require.Contains(t, buf.String(), "web-1 (10.0.0.1): ok")
}

func TestDispatchOperationEmptyGroup(t *testing.T) {
	runner := &recordingRunner{}
	var buf bytes.Buffer

	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staging:\n  - host: 10.0.0.9\n"), 0o644))

	code := dispatchOperation(context.Background(), testConfig(path), action.OpStatus, runner, &buf)

	require.Equal(t, report.ExitFailure, code)
	require.Equal(t, 0, runner.invocations())
	require.Contains(t, buf.String(), "host group is empty")
}

// Operation names outside the fixed set are rejected by the router with a
// usage error before any dispatch machinery runs.
func TestUnknownOperationIsUsageError(t *testing.T) {
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"deploy"})

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "deploy")
}
