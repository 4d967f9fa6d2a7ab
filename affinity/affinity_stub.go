//go:build !linux && !windows
// +build !linux,!windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Returns error to indicate unavailability.

package affinity

import "github.com/momentics/hioload-mempool/api"

func pinPlatform(cpuID int) (func() error, error) {
	return nil, api.ErrAffinityUnsupported
}

func allowedCPUsPlatform() ([]int, error) {
	return nil, api.ErrAffinityUnsupported
}
