// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package action

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned for any operation name outside the fixed
// set. It surfaces before any remote call is attempted.
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is the closed set of fleet operations. Keeping it a typed
// enumeration gives exhaustive switches instead of a stringly default branch.
type Operation int

const (
	OpStatus Operation = iota
	OpLogs
	OpRestart
	OpHealth

	// OpExec is the interactive ad-hoc command runner. It is not part of
	// the dispatchable operation set: Parse rejects it and the registry
	// holds no descriptor for it, its descriptor is built from user input.
	OpExec
)

func (op Operation) String() string {
	switch op {
	case OpStatus:
		return "status"
	case OpLogs:
		return "logs"
	case OpRestart:
		return "restart"
	case OpHealth:
		return "health"
	case OpExec:
		return "exec"
	}
	return fmt.Sprintf("operation(%d)", int(op))
}

// Operations returns every supported operation, in declaration order.
func Operations() []Operation {
	return []Operation{OpStatus, OpLogs, OpRestart, OpHealth}
}

// Parse maps an operation name to its Operation, or fails with
// ErrUnknownOperation.
func Parse(name string) (Operation, error) {
	for _, op := range Operations() {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Module names the kind of remote behavior a descriptor invokes.
type Module string

const (
	// ModuleService queries or mutates a systemd unit's run-state.
	ModuleService Module = "service"
	// ModuleShell runs a shell command and captures its output.
	ModuleShell Module = "shell"
	// ModuleHTTP fetches a URL on the remote host and returns the body.
	ModuleHTTP Module = "http"
)

// Descriptor is the remote action bound to one operation: a module plus its
// arguments. Pure data, constructed once, never mutated.
type Descriptor struct {
	Op     Operation
	Module Module
	Args   map[string]string
}

// Registry is the static, total mapping from operation to descriptor.
type Registry struct {
	byOp map[Operation]Descriptor
}

// journalLines is how much recent journal the logs operation reads.
const journalLines = 50

// NewRegistry binds the operation set to the managed service and its
// health port.
func NewRegistry(service string, healthPort int) *Registry {
	return &Registry{
		byOp: map[Operation]Descriptor{
			OpStatus: {
				Op:     OpStatus,
				Module: ModuleService,
				Args:   map[string]string{"name": service},
			},
			OpLogs: {
				Op:     OpLogs,
				Module: ModuleShell,
				Args: map[string]string{
					"cmd": fmt.Sprintf("journalctl -u %s -n %d --no-pager", service, journalLines),
				},
			},
			OpRestart: {
				Op:     OpRestart,
				Module: ModuleService,
				Args:   map[string]string{"name": service, "state": "restarted"},
			},
			OpHealth: {
				Op:     OpHealth,
				Module: ModuleHTTP,
				Args: map[string]string{
					"url": fmt.Sprintf("http://localhost:%d/health", healthPort),
				},
			},
		},
	}
}

// Lookup returns the descriptor for op. The registry is total over the
// Operation enum, so a valid op always has exactly one descriptor.
func (r *Registry) Lookup(op Operation) Descriptor {
	return r.byOp[op]
}

// LookupName resolves an operation by name, failing with
// ErrUnknownOperation for anything outside the fixed set.
func (r *Registry) LookupName(name string) (Descriptor, error) {
	op, err := Parse(name)
	if err != nil {
		return Descriptor{}, err
	}
	return r.Lookup(op), nil
}
