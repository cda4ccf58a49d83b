// Package observe provides observability primitives for guarded operations.
//
// It is a pure instrumentation library: no admission logic, no transport, no
// I/O beyond exporter setup. Consumers wire the observer into rate limiters,
// circuit breakers, and retry policies via the hooks in instrument.go.
package observe
