// Package runtime orchestrates render passes and effect execution for
// hook instances. It sits between the hooks package (slot bookkeeping)
// and an external reconciler: the reconciler asks the runtime to
// mount, render and unmount instances, and notifies it of commit and
// paint; the runtime forwards re-render requests back through its Host
// and drains effect queues in two phases.
//
// Layout effects drain synchronously inside Commit, before the host
// paints. Passive effects drain after Paint, on whatever asynchronous
// turn the Host provides. Failures inside reducers, effect bodies and
// effect cleanups are isolated per slot and delivered to the
// configured ErrorSink; the drains keep going.
//
// The runtime also carries the observability surface: Prometheus
// metrics, OpenTelemetry spans around render passes and drains,
// structured logs, and an optional in-memory event recorder that feeds
// the devtools inspector.
package runtime
