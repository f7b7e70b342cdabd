package openrouter

import (
	"context"
	"sync"

	"github.com/mamamath/mothermath-backend/internal/normalize"
)

// MockResponse is one canned gateway reply for the MockClient.
type MockResponse struct {
	Content string
	Err     error
}

// RecordedCall captures what a MockClient call received.
type RecordedCall struct {
	Method   string
	System   string
	User     string
	History  []Message
	ImageURL string
}

// MockClient is a deterministic Client for tests. It serves canned responses
// in FIFO order and records every request.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []RecordedCall
}

func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

func (m *MockClient) next(call RecordedCall) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, call)
	if len(m.responses) == 0 {
		return "", &GatewayError{Status: 503, Message: "mock response queue exhausted"}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockClient) GenerateText(_ context.Context, system, user string) (string, error) {
	return m.next(RecordedCall{Method: "GenerateText", System: system, User: user})
}

func (m *MockClient) GenerateChat(_ context.Context, system string, history []Message, user string) (string, error) {
	return m.next(RecordedCall{Method: "GenerateChat", System: system, User: user, History: history})
}

func (m *MockClient) GenerateJSON(_ context.Context, system, user string) (*Result, error) {
	content, err := m.next(RecordedCall{Method: "GenerateJSON", System: system, User: user})
	if err != nil {
		return nil, err
	}
	normalized := normalize.Normalize(content)
	if normalized.Kind != normalize.KindJSON {
		return nil, ErrInvalidJSON
	}
	return &Result{Kind: KindJSON, Text: normalized.Text, Object: normalized.Object}, nil
}

func (m *MockClient) GenerateTextWithImage(_ context.Context, system, user, imageURL string) (string, error) {
	return m.next(RecordedCall{Method: "GenerateTextWithImage", System: system, User: user, ImageURL: imageURL})
}
