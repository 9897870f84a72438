// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
)

// PrefixSource reports the applied prefix.
type PrefixSource interface {
	Get() string
}

// ConfigChecker reports the currently applied prefix.
type ConfigChecker struct {
	src PrefixSource
}

// NewConfigChecker creates a checker for the config store.
func NewConfigChecker(src PrefixSource) *ConfigChecker {
	return &ConfigChecker{src: src}
}

func (c *ConfigChecker) Name() string {
	return "config"
}

func (c *ConfigChecker) Check(_ context.Context) CheckResult {
	if c.src == nil {
		return CheckResult{Status: StatusUnhealthy, Error: "config store not initialized"}
	}
	prefix := c.src.Get()
	if prefix == "" {
		return CheckResult{Status: StatusUnhealthy, Error: "no prefix applied"}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("prefix %q", prefix)}
}

// FileChecker checks if a file exists and is readable
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for file existence
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{
		name: name,
		path: path,
	}
}

func (c *FileChecker) Name() string {
	return c.name
}

func (c *FileChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			// The running prefix stays in effect, so a missing file only degrades.
			return CheckResult{
				Status:  StatusDegraded,
				Error:   "file not found",
				Message: c.path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if info.IsDir() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "expected file, got directory",
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "file exists and readable",
	}
}

// ConnChecker reports the state of an optional outbound connection.
type ConnChecker struct {
	name      string
	connected func() bool
}

// NewConnChecker creates a checker backed by a connected probe.
// A nil probe means the connection is not configured.
func NewConnChecker(name string, connected func() bool) *ConnChecker {
	return &ConnChecker{name: name, connected: connected}
}

func (c *ConnChecker) Name() string {
	return c.name
}

func (c *ConnChecker) Check(_ context.Context) CheckResult {
	if c.connected == nil {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	if !c.connected() {
		// Events are best-effort; greetings keep working without the bus.
		return CheckResult{Status: StatusDegraded, Error: "not connected"}
	}
	return CheckResult{Status: StatusHealthy, Message: "connected"}
}
