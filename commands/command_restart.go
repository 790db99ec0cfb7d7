// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"github.com/spf13/cobra"

	"github.com/rantoo/fleetctl/pkg/action"
)

// NewCommandRestart requests a restart of the service on every host and
// prints the resulting run-state.
func NewCommandRestart() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the service and print the resulting state per host",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runOperation(action.OpRestart)
		},
	}
}
