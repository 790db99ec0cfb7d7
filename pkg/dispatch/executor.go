// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package dispatch

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/config"
	"github.com/rantoo/fleetctl/pkg/inventory"
)

// ModuleRunner is the remote-execution capability: invoke one module with
// its arguments against one host and return the captured output. The SSH
// implementation lives in runner.go; tests substitute a fake.
type ModuleRunner interface {
	RunModule(ctx context.Context, desc action.Descriptor, host *inventory.Host) (string, error)
}

// Executor fans one descriptor out across every host of a group.
type Executor struct {
	Runner      ModuleRunner
	Concurrency int
	Timeout     time.Duration
}

func NewExecutor(runner ModuleRunner, cfg config.Config) *Executor {
	return &Executor{
		Runner:      runner,
		Concurrency: cfg.Concurrency,
		Timeout:     cfg.Timeout,
	}
}

// Execute runs the descriptor against all hosts in the group and returns
// one HostOutcome per host. A failing host never aborts its siblings: every
// host is attempted and classified independently, and each attempt is
// bounded by the per-host timeout. Only an empty group is an error.
func (e *Executor) Execute(ctx context.Context, desc action.Descriptor, group *inventory.HostGroup) (*AggregateResult, error) {
	if group == nil || len(group.Hosts) == 0 {
		name := ""
		if group != nil {
			name = group.Name
		}
		return nil, fmt.Errorf("%w: %q", ErrEmptyHostGroup, name)
	}

	concurrency := e.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	// one slot per host, written exactly once, so no lock is needed
	outcomes := make([]HostOutcome, len(group.Hosts))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, host := range group.Hosts {
		i, host := i, host
		g.Go(func() error {
			hostCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			out, err := e.Runner.RunModule(hostCtx, desc, host)
			outcomes[i] = HostOutcome{
				Host:    host,
				Status:  classify(err),
				Output:  out,
				Err:     err,
				Elapsed: time.Since(start),
			}
			return nil
		})
	}
	// workers never return errors, failures land in their outcome slot
	_ = g.Wait()

	return &AggregateResult{
		Op:       desc.Op,
		Group:    group.Name,
		Outcomes: outcomes,
	}, nil
}
