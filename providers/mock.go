package providers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cdevos2017/cot6930-200-a1/params"
)

// MockCaller is a scripted Caller for tests. Each Send consumes the next
// entry from Responses; once they run out the last entry repeats. A non-nil
// Err fails every call instead.
type MockCaller struct {
	mu        sync.Mutex
	Responses []string
	Err       error

	// Prompts records every prompt passed to Send, in order.
	Prompts []string
	calls   int
}

var errNoResponse = errors.New("mock caller has no scripted responses")

func (m *MockCaller) Send(_ context.Context, prompt, _ string, _ Target, _ params.Set) (time.Duration, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	m.calls++

	if m.Err != nil {
		return -1, "", m.Err
	}
	if len(m.Responses) == 0 {
		return -1, "", errNoResponse
	}
	idx := m.calls - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return time.Millisecond, m.Responses[idx], nil
}

// CallCount reports how many times Send was invoked.
func (m *MockCaller) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
