package domain

import "context"

// Transport performs authenticated JSON requests against the instance.
// Implementations decode the response body into v.
type Transport interface {
	Get(ctx context.Context, url string, v any) error
	Post(ctx context.Context, url string, body any, v any) error
}

// Sink receives the step's named outputs and progress lines.
type Sink interface {
	SetOutput(name, value string)
	Info(msg string)
}

// Output names written by the version resolver.
const (
	OutputRollbackVersion = "rollbackVersion"
	OutputNewVersion      = "newVersion"
)

// SnapshotObserver is implemented by sinks that want every job snapshot,
// not only the rendered progress line.
type SnapshotObserver interface {
	Snapshot(s Snapshot)
}
