// Package bench drives the allocator strategies through the batch, shared
// and per-worker scenarios and renders the timings as a report.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package bench
