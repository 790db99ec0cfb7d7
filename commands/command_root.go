// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rantoo/fleetctl/pkg/action"
	"github.com/rantoo/fleetctl/pkg/config"
)

const (
	cliName        = "fleetctl"
	cliDescription = "Dispatch fleet operations (status, logs, restart, health) against a host group over SSH"
)

var (
	inventoryFile   string
	groupName       string
	loginUser       string
	privateKeyFile  string
	passphrase      string
	serviceName     string
	healthPort      int
	timeout         time.Duration
	concurrency     int
	verbose         bool
	insecureHostKey bool

	rootCmd = &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Args:  cobra.NoArgs,
		// bare invocation keeps the historical default of running status;
		// anything that is not a known operation is a usage error
		Run: func(cmd *cobra.Command, args []string) {
			runOperation(action.OpStatus)
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&inventoryFile, "inventory", "i", config.EnvOr("FLEETCTL_INVENTORY", config.DefaultInventoryFilename), "path to the YAML host inventory")
	pf.StringVarP(&groupName, "group", "g", config.EnvOr("FLEETCTL_GROUP", config.DefaultGroup), "inventory host group to dispatch against")
	pf.StringVarP(&loginUser, "user", "u", config.EnvOr("FLEETCTL_USER", ""), "login user for hosts that do not set one")
	pf.StringVarP(&privateKeyFile, "key", "k", config.EnvOr("FLEETCTL_KEY", ""), "private key file for hosts that do not set one")
	pf.StringVar(&passphrase, "passphrase", "", "passphrase for the private key")
	pf.StringVarP(&serviceName, "service", "s", config.EnvOr("FLEETCTL_SERVICE", config.DefaultService), "name of the managed service unit")
	pf.IntVarP(&healthPort, "health-port", "p", config.DefaultHealthPort, "port of the service health endpoint")
	pf.DurationVarP(&timeout, "timeout", "t", config.DefaultTimeout, "per-host operation timeout")
	pf.IntVarP(&concurrency, "concurrency", "c", config.DefaultConcurrency, "maximum number of hosts contacted in parallel")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&insecureHostKey, "insecure-host-key", false, "skip host key verification (lab fleets only)")

	rootCmd.AddCommand(
		NewCommandStatus(),
		NewCommandLogs(),
		NewCommandRestart(),
		NewCommandHealth(),
		NewCommandExec(),
		NewCommandVersion(),
	)
}

func RootCmd() *cobra.Command {
	return rootCmd
}
