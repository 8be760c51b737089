package probe

import "context"

// Result is the outcome of one probe. Transport-level failures land in Err
// with Reachable false; the caller always gets a value back, never a fatal
// error.
type Result struct {
	Reachable  bool
	StatusCode int
	Body       string
	Err        error
}

// Checker issues exactly one request per call. Retry policy belongs to the
// monitor loop, not here.
type Checker interface {
	Check(ctx context.Context, target string) Result
}
