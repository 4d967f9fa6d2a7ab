//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"runtime"
	"syscall"
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procSetThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

func pinPlatform(cpuID int) (func() error, error) {
	hThread, _, _ := procGetCurrentThread.Call()
	prev, _, err := procSetThreadAffinityMask.Call(hThread, uintptr(1)<<cpuID)
	if prev == 0 {
		return nil, err
	}
	return func() error {
		if ret, _, err := procSetThreadAffinityMask.Call(hThread, prev); ret == 0 {
			return err
		}
		return nil
	}, nil
}

func allowedCPUsPlatform() ([]int, error) {
	cpus := make([]int, runtime.NumCPU())
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}
