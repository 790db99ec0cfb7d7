// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/config"
	"github.com/rantoo/fleetctl/pkg/dispatch"
	"github.com/rantoo/fleetctl/pkg/inventory"
	"github.com/rantoo/fleetctl/pkg/report"
)

func printLog(format string, v ...any) {
	if verbose {
		log.Printf(format, v...)
	}
}

func mustConfig() config.Config {
	cfg := config.Config{
		InventoryPath: inventoryFile,
		Group:         groupName,
		Identity: config.Identity{
			User:           loginUser,
			PrivateKeyPath: privateKeyFile,
			Passphrase:     passphrase,
		},
		Service:         serviceName,
		HealthPort:      healthPort,
		Timeout:         timeout,
		Concurrency:     concurrency,
		InsecureHostKey: insecureHostKey,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

// signalContext returns a context cancelled on SIGINT/SIGTERM so in-flight
// remote calls are aborted while already-completed outcomes still get
// reported.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// dispatchOperation is the whole router path behind every operation:
// inventory gate, registry lookup, host fan-out, report. It returns the
// process exit code. The inventory gate runs first, so nothing is dispatched
// and no connection is attempted when the inventory does not resolve.
func dispatchOperation(ctx context.Context, cfg config.Config, op action.Operation, runner dispatch.ModuleRunner, out io.Writer) int {
	rep := report.New(out)

	group, err := inventory.Resolve(cfg.InventoryPath, cfg.Group, cfg.Identity)
	if err != nil {
		rep.Errorf("Error: %v", err)
		return report.ExitFailure
	}
	printLog("resolved group %q with %d host(s) from %s", group.Name, len(group.Hosts), cfg.InventoryPath)

	registry := action.NewRegistry(cfg.Service, cfg.HealthPort)
	desc := registry.Lookup(op)
	printLog("dispatching %s (module %s) with timeout %v, concurrency %d", op, desc.Module, cfg.Timeout, cfg.Concurrency)

	executor := dispatch.NewExecutor(runner, cfg)
	agg, err := executor.Execute(ctx, desc, group)
	if err != nil {
		rep.Errorf("Error: %v", err)
		return report.ExitFailure
	}

	return rep.Report(agg)
}

func runOperation(op action.Operation) {
	cfg := mustConfig()

	ctx, stop := signalContext()
	defer stop()

	code := dispatchOperation(ctx, cfg, op, dispatch.NewSSHRunner(cfg), os.Stdout)
	stop()
	os.Exit(code)
}
