package hooks

// DebugMode enables extra validation for development.
//
// When enabled, slot operations verify they run on the goroutine that
// began the session and panic otherwise; sharing a live session across
// goroutines is always a bug, it just usually goes unnoticed.
//
// Not safe to toggle while renders are in flight. Set once at startup,
// or save and restore around a test.
var DebugMode bool
