package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockClient answers locally without calling any provider. It is the
// development default.
type MockClient struct{}

// NewMockClient creates a mock completion client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Provider returns the provider name
func (m *MockClient) Provider() string {
	return "mock"
}

// Complete echoes the request line of prompt back as a canned suggestion
func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	request := prompt
	if idx := strings.LastIndex(prompt, "Request: "); idx >= 0 {
		request = prompt[idx+len("Request: "):]
	}
	return fmt.Sprintf("Suggestion for %q:\nCook something simple with what you have.\n", strings.TrimSpace(request)), nil
}
