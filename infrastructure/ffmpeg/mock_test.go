package ffmpeg

import "context"

type runCall struct {
	name string
	args []string
}

// mockRunner records calls and returns a canned result
type mockRunner struct {
	calls  []runCall
	result Result
	err    error
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	m.calls = append(m.calls, runCall{name: name, args: args})
	return m.result, m.err
}
