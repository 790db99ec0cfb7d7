// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"github.com/spf13/cobra"

	"github.com/rantoo/fleetctl/pkg/action"
)

// NewCommandStatus queries and prints the service run-state per host.
func NewCommandStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query and print the service run-state per host",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runOperation(action.OpStatus)
		},
	}
}
