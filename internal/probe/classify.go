package probe

import (
	"net/http"
	"strings"
)

// ExpectedMarker identifies the correct origin page. A 200 from a hosting
// provider's error page or a captive portal must still classify unhealthy.
const ExpectedMarker = "SecureDrop | Protecting Journalists and Sources"

// Classify reports whether a probe result counts as healthy.
func Classify(r Result) bool {
	return r.Reachable && r.StatusCode == http.StatusOK && strings.Contains(r.Body, ExpectedMarker)
}
