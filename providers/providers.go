// Package providers implements the model-call boundary: payload shaping for
// the supported backend targets and the HTTP client that talks to them.
package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/cdevos2017/cot6930-200-a1/params"
)

// Target selects the request/response format of the model server.
type Target string

const (
	TargetOllama    Target = "ollama"
	TargetOpenWebUI Target = "open-webui"
)

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetOllama, TargetOpenWebUI:
		return Target(s), nil
	default:
		return "", fmt.Errorf("unknown target: %q", s)
	}
}

// Caller sends one prompt to a model backend and returns the elapsed wall
// time together with the response text. On failure elapsed is negative and
// err carries the cause; callers treat any failure as a single unusable
// round-trip, never as fatal.
type Caller interface {
	Send(ctx context.Context, prompt, model string, target Target, opts params.Set) (elapsed time.Duration, response string, err error)
}
