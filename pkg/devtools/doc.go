// Package devtools exposes a runtime's activity over HTTP for
// inspection during development: a JSON snapshot of recent events and
// counters, plus a WebSocket stream of live events.
//
// The inspector is read-only and meant for development builds; it has
// no authentication. Do not mount it on a production listener.
package devtools
