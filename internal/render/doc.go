// Package render draws the live fleet status. The supervisor hands each
// poll's snapshot to a Sink; which sink is attached decides whether the
// status becomes an in-place terminal block, an append-only log line, or
// nothing. Rendering never affects orchestration.
package render
