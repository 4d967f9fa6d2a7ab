// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"runtime"

	"github.com/momentics/hioload-mempool/api"
)

// Pin locks the calling goroutine to its OS thread and binds that thread to cpuID.
// The returned release restores the previous thread affinity and unlocks the thread;
// it must be called from the same goroutine.
func Pin(cpuID int) (release func(), err error) {
	if cpuID < 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "affinity: negative cpu id").
			WithContext("cpu", cpuID)
	}
	runtime.LockOSThread()
	restore, err := pinPlatform(cpuID)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		_ = restore()
		runtime.UnlockOSThread()
	}, nil
}

// AllowedCPUs lists the logical CPUs the process may run on.
func AllowedCPUs() ([]int, error) {
	return allowedCPUsPlatform()
}
