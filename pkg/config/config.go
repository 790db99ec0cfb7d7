// Copyright (c) 2025 Broadcom. All Rights Reserved.
// Broadcom Confidential. The term "Broadcom" refers to Broadcom Inc.
// and/or its subsidiaries.

package config

import (
	"fmt"
	"os"
	"time"
)

// defaults for the recognized options
const (
	DefaultInventoryFilename = "inventory.yaml"
	DefaultGroup             = "rantoo"
	DefaultService           = "rantoo"
	DefaultHealthPort        = 8080
	DefaultTimeout           = 30 * time.Second
	DefaultConcurrency       = 8
)

// Identity is the credential set used to authenticate remote sessions.
type Identity struct {
	User           string
	PrivateKeyPath string
	Passphrase     string
	Password       string
}

// Config carries everything one invocation needs. It is built once at
// startup from flags and FLEETCTL_* environment fallbacks and passed into
// each component; nothing reads ambient state after construction.
type Config struct {
	InventoryPath   string
	Group           string
	Identity        Identity
	Service         string
	HealthPort      int
	Timeout         time.Duration
	Concurrency     int
	InsecureHostKey bool
}

func (c *Config) Validate() error {
	if c.InventoryPath == "" {
		return fmt.Errorf("inventory path must not be empty")
	}
	if c.Group == "" {
		return fmt.Errorf("host group name must not be empty")
	}
	if c.Service == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("health port out of range: %d", c.HealthPort)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got: %d", c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or def when the
// variable is unset or empty. Used to seed flag defaults.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
