// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/config"
	"github.com/rantoo/fleetctl/pkg/dispatch"
	"github.com/rantoo/fleetctl/pkg/inventory"
	"github.com/rantoo/fleetctl/pkg/report"
)

var saveDir string

// NewCommandLogs prints the most recent journal lines of the service per
// host. With --save it additionally downloads the full unit journal of each
// host into the given directory over sftp.
func NewCommandLogs() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the last 50 journal lines of the service per host",
		Args:  cobra.NoArgs,
		Run:   logsCommandFunc,
	}
	cmd.Flags().StringVar(&saveDir, "save", "", "directory to download the full unit journal of each host into")
	return cmd
}

func logsCommandFunc(cmd *cobra.Command, args []string) {
	cfg := mustConfig()

	ctx, stop := signalContext()
	defer stop()

	runner := dispatch.NewSSHRunner(cfg)
	code := dispatchOperation(ctx, cfg, action.OpLogs, runner, os.Stdout)

	if saveDir != "" {
		if saveCode := saveJournals(ctx, cfg, runner); saveCode != report.ExitSuccess {
			code = report.ExitFailure
		}
	}

	stop()
	os.Exit(code)
}

func saveJournals(ctx context.Context, cfg config.Config, runner *dispatch.SSHRunner) int {
	rep := report.New(os.Stdout)

	group, err := inventory.Resolve(cfg.InventoryPath, cfg.Group, cfg.Identity)
	if err != nil {
		rep.Errorf("Error: %v", err)
		return report.ExitFailure
	}

	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		log.Fatalf("failed to create save directory %s: %v", saveDir, err)
	}

	code := report.ExitSuccess
	for _, host := range group.Hosts {
		path, err := runner.SaveJournal(ctx, host, cfg.Service, saveDir)
		if err != nil {
			rep.Warnf("%s (%s): journal not saved: %v", host.Name, host.Address, err)
			code = report.ExitFailure
			continue
		}
		rep.Infof("saved journal of %s to %s", host.Name, path)
	}
	return code
}
