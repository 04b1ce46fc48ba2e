// Package benchmark loads benchmark definitions and materializes
// per-instance worker configurations. A definition names the worker binary,
// the fleet of instances with their core assignments and ports, and the
// round schedule driving a run.
package benchmark
