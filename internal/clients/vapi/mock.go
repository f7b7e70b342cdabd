package vapi

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is an in-memory Client for tests. It records every call and
// returns canned results.
type MockClient struct {
	mu       sync.Mutex
	nextID   int
	Started  []StartCallRequest
	Stopped  []string
	StartErr error
	StopErr  error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) StartCall(_ context.Context, req StartCallRequest) (*Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	m.nextID++
	m.Started = append(m.Started, req)
	return &Call{ID: fmt.Sprintf("call-%d", m.nextID), Status: "queued"}, nil
}

func (m *MockClient) StopCall(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StopErr != nil {
		return m.StopErr
	}
	m.Stopped = append(m.Stopped, callID)
	return nil
}
