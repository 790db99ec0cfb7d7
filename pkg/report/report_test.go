// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package report

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/dispatch"
	"github.com/rantoo/fleetctl/pkg/inventory"
)

func outcome(name, addr string, status dispatch.Status, output string, err error) dispatch.HostOutcome {
	return dispatch.HostOutcome{
		Host:    &inventory.Host{Name: name, Address: addr},
		Status:  status,
		Output:  output,
		Err:     err,
		Elapsed: 120 * time.Millisecond,
	}
}

func TestReportAllSuccess(t *testing.T) {
	var buf bytes.Buffer
	rep := New(&buf)

	agg := &dispatch.AggregateResult{
		Op:    action.OpStatus,
		Group: "rantoo",
		Outcomes: []dispatch.HostOutcome{
			outcome("web-1", "10.0.0.1", dispatch.StatusSuccess, "active\n", nil),
			outcome("web-2", "10.0.0.2", dispatch.StatusSuccess, "active\n", nil),
		},
	}

	code := rep.Report(agg)
	require.Equal(t, ExitSuccess, code)

	out := buf.String()
	require.Contains(t, out, "status on group \"rantoo\" (2 hosts)")
	require.Contains(t, out, "web-1 (10.0.0.1): ok")
	require.Contains(t, out, "web-2 (10.0.0.2): ok")
	require.Contains(t, out, "active")
	require.Contains(t, out, "all 2 hosts succeeded")
}

// Every per-host failure must be named explicitly, never coalesced into a
// generic "failed".
func TestReportPartialFailure(t *testing.T) {
	var buf bytes.Buffer
	rep := New(&buf)

	agg := &dispatch.AggregateResult{
		Op:    action.OpHealth,
		Group: "rantoo",
		Outcomes: []dispatch.HostOutcome{
			outcome("web-1", "10.0.0.1", dispatch.StatusSuccess, `{"status": "healthy"}`, nil),
			outcome("web-2", "10.0.0.2", dispatch.StatusTimeout, "", errors.New("context deadline exceeded")),
			outcome("web-3", "10.0.0.3", dispatch.StatusConnectionFailed, "", errors.New("connection refused")),
		},
	}

	code := rep.Report(agg)
	require.Equal(t, ExitFailure, code)

	out := buf.String()
	require.Contains(t, out, "web-2 (10.0.0.2): timeout")
	require.Contains(t, out, "web-3 (10.0.0.3): connection failed")
	require.Contains(t, out, "2/3 hosts failed")
	require.Contains(t, out, "worst outcome: connection failed")
}

func TestReportModuleFailureExitCode(t *testing.T) {
	var buf bytes.Buffer
	rep := New(&buf)

	agg := &dispatch.AggregateResult{
		Op:    action.OpRestart,
		Group: "rantoo",
		Outcomes: []dispatch.HostOutcome{
			outcome("web-1", "10.0.0.1", dispatch.StatusModuleError, "inactive\n", errors.New("exited with status 3")),
		},
	}

	require.Equal(t, ExitFailure, rep.Report(agg))
	require.Contains(t, buf.String(), "module error")
}

func TestLeveledLines(t *testing.T) {
	var buf bytes.Buffer
	rep := New(&buf)

	rep.Headerf("restart on group %q", "rantoo")
	rep.Infof("resolved %d hosts", 3)
	rep.Successf("web-1 ok")
	rep.Warnf("web-2 slow")
	rep.Errorf("web-3 unreachable")

	out := buf.String()
	for _, want := range []string{"restart on group", "resolved 3 hosts", "web-1 ok", "web-2 slow", "web-3 unreachable"} {
		require.Contains(t, out, want)
	}
}
