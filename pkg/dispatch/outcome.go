// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package dispatch

import (
	"time"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/inventory"
)

// Status is the per-host outcome classification. The order encodes
// severity: everything above StatusSuccess is a failure, and the highest
// value among a group's outcomes is the worst case reported in the summary.
type Status int

const (
	StatusSuccess Status = iota
	StatusModuleError
	StatusTimeout
	StatusAuthFailed
	StatusConnectionFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusModuleError:
		return "module error"
	case StatusTimeout:
		return "timeout"
	case StatusAuthFailed:
		return "auth failed"
	case StatusConnectionFailed:
		return "connection failed"
	}
	return "unknown"
}

// HostOutcome is the result of executing one action against one host.
// Exactly one is produced per host in the group, transport failures
// included.
type HostOutcome struct {
	Host    *inventory.Host
	Status  Status
	Output  string
	Err     error
	Elapsed time.Duration
}

func (o HostOutcome) OK() bool {
	return o.Status == StatusSuccess
}

// AggregateResult collects every HostOutcome of one invocation. It is
// created by the executor, consumed once by the reporter, and discarded.
type AggregateResult struct {
	Op       action.Operation
	Group    string
	Outcomes []HostOutcome
}

// OK reports overall success: true only when every host succeeded. The
// aggregation is a plain conjunction, so outcome order never matters.
func (a *AggregateResult) OK() bool {
	for _, o := range a.Outcomes {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Failed returns the number of non-success outcomes.
func (a *AggregateResult) Failed() int {
	n := 0
	for _, o := range a.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Worst returns the most severe status among all outcomes.
func (a *AggregateResult) Worst() Status {
	worst := StatusSuccess
	for _, o := range a.Outcomes {
		if o.Status > worst {
			worst = o.Status
		}
	}
	return worst
}
