// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/cliui"
	"github.com/rantoo/fleetctl/pkg/dispatch"
	"github.com/rantoo/fleetctl/pkg/inventory"
	"github.com/rantoo/fleetctl/pkg/report"
)

var userCmd string

// NewCommandExec runs an ad-hoc command against host(s).
// Runs the command against a single host if the user selects a specific host,
// or against every host in the group if the user selects all.
func NewCommandExec() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run an ad-hoc command against host(s) of the group",
		Args:  cobra.NoArgs,
		Run:   execCommandFunc,
	}
	cmd.Flags().StringVarP(&userCmd, "command", "e", "", "command to run on the selected host(s)")
	return cmd
}

func execCommandFunc(cmd *cobra.Command, args []string) {
	cfg := mustConfig()
	if userCmd == "" {
		log.Fatalf("no command provided, use --command")
	}

	rep := report.New(os.Stdout)
	group, err := inventory.Resolve(cfg.InventoryPath, cfg.Group, cfg.Identity)
	if err != nil {
		rep.Errorf("Error: %v", err)
		os.Exit(report.ExitFailure)
	}
	if len(group.Hosts) == 0 {
		rep.Errorf("Error: %v: %q", dispatch.ErrEmptyHostGroup, group.Name)
		os.Exit(report.ExitFailure)
	}

	options := make([]string, len(group.Hosts)+1)
	for i, h := range group.Hosts {
		options[i] = fmt.Sprintf("%s (%s)", h.Name, h.Address)
	}
	options[len(group.Hosts)] = "all"

	idx, _, err := cliui.Select(
		"Select the host to run the command against:",
		options,
	)
	if err != nil {
		// user didn't select any host
		log.Fatalf("no host selected, exiting: %v", err)
	}

	targets := group
	if idx < len(group.Hosts) {
		targets = &inventory.HostGroup{Name: group.Name, Hosts: group.Hosts[idx : idx+1]}
	}

	desc := action.Descriptor{
		Op:     action.OpExec,
		Module: action.ModuleShell,
		Args:   map[string]string{"cmd": userCmd},
	}

	ctx, stop := signalContext()
	defer stop()

	executor := dispatch.NewExecutor(dispatch.NewSSHRunner(cfg), cfg)
	agg, err := executor.Execute(ctx, desc, targets)
	if err != nil {
		rep.Errorf("Error: %v", err)
		os.Exit(report.ExitFailure)
	}

	stop()
	os.Exit(rep.Report(agg))
}
