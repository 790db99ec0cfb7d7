// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package commands

import (
	"github.com/spf13/cobra"

	"github.com/rantoo/fleetctl/pkg/action"
)

// NewCommandHealth fetches the service health endpoint on every host and
// prints the response body.
func NewCommandHealth() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Fetch the service health endpoint and print the body per host",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runOperation(action.OpHealth)
		},
	}
}
