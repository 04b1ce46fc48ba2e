//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

package render

// Sink consumes one snapshot per poll. This interface decouples the
// supervisor from the presentation layer: an in-place terminal block, an
// append-only log line, or a silent sink all satisfy it without the
// supervisor knowing which one is attached.
type Sink interface {
	// Render draws or records one poll snapshot.
	//
	// Parameters:
	//   - snap: The fleet state as of this poll.
	Render(snap Snapshot)
}

// SinkFunc is a function adapter that implements Sink. This allows passing
// a function directly where a Sink is expected.
type SinkFunc func(snap Snapshot)

// Render calls the underlying function.
func (f SinkFunc) Render(snap Snapshot) {
	f(snap)
}

// NullSink is a no-op implementation of Sink. Useful for tests and for
// runs where only the structured log matters.
type NullSink struct{}

// Render discards the snapshot.
func (NullSink) Render(Snapshot) {}

// MultiSink fans one snapshot out to several sinks, in order. It lets a
// terminal view and a metrics exporter observe the same poll.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(snap Snapshot) {
		for _, s := range sinks {
			s.Render(snap)
		}
	})
}
