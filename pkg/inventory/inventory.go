// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package inventory

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/rantoo/fleetctl/pkg/config"
)

// ErrInventoryNotFound is returned when the inventory file does not exist.
// Resolution is a hard precondition: nothing is dispatched until it passes.
var ErrInventoryNotFound = errors.New("inventory file not found")

// Host is one target machine with its connection attributes. Attributes
// left empty in the inventory are filled from the identity flags.
type Host struct {
	Name       string `json:"name"`
	Address    string `json:"host"`
	Port       int    `json:"port,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	PrivateKey string `json:"private_key,omitempty"`
	Passphrase string `json:"passphrase,omitempty"`
}

// HostGroup is the named set of machines targeted by one dispatch. It is
// read once at startup and never mutated afterwards.
type HostGroup struct {
	Name  string
	Hosts []*Host
}

// Resolve reads the inventory file at path and returns the named group with
// identity defaults applied. A missing file fails with ErrInventoryNotFound;
// a group that is absent or empty still resolves (the executor rejects it),
// so a missing file and an empty group produce distinct errors.
func Resolve(path, group string, identity config.Identity) (*HostGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInventoryNotFound, path)
		}
		return nil, fmt.Errorf("read inventory failed: %w", err)
	}

	var groups map[string][]*Host
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse inventory %s failed: %w", path, err)
	}

	hosts := groups[group]
	for _, h := range hosts {
		h.applyDefaults(identity)
	}

	return &HostGroup{Name: group, Hosts: hosts}, nil
}

func (h *Host) applyDefaults(identity config.Identity) {
	if h.Username == "" {
		h.Username = identity.User
	}
	if h.PrivateKey == "" && h.Password == "" {
		h.PrivateKey = identity.PrivateKeyPath
		h.Passphrase = identity.Passphrase
		h.Password = identity.Password
	}
	if h.Name == "" {
		h.Name = h.Address
	}
}
