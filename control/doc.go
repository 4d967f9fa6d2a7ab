// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, debug introspection and host description for hioload-mempool.
//
// Provides concurrent-safe primitives including:
//   - Prometheus export of registered pool statistics
//   - Probe registration and state dumps
//   - Host/platform description for benchmark reports
package control
