package llm

import "context"

// MockClient serves canned completions when no API key is configured and in
// tests. Results produced through it carry the mock flag downstream.
type MockClient struct {
	SamplerName string
	Content     string
	Err         error
	// Script, when non-empty, is consumed one entry per invocation before
	// falling back to Content.
	Script []Response
	calls  int
}

func (m *MockClient) Name() string {
	if m.SamplerName == "" {
		return "mock"
	}
	return m.SamplerName
}

func (m *MockClient) Invoke(ctx context.Context, prompt string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if m.Err != nil {
		return Response{}, m.Err
	}
	if m.calls < len(m.Script) {
		resp := m.Script[m.calls]
		m.calls++
		return resp, nil
	}
	if m.Content != "" {
		return Response{Content: m.Content}, nil
	}
	return Response{Content: "The opportunity shows balanced fundamentals across the reviewed dimensions. Score: 65"}, nil
}
