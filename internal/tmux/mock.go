package tmux

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client for testing.
// It uses testify/mock to provide flexible behavior configuration and
// method call tracking for assertions.
//
// Example usage:
//
//	mockClient := new(MockClient)
//	mockClient.On("Topology", mock.Anything, "work").Return(Topology{
//	    Windows: []Window{{ID: "@1", Name: "shell", Active: true}},
//	}, nil)
//
//	topo, err := mockClient.Topology(ctx, "work")
//	assert.NoError(t, err)
//	mockClient.AssertExpectations(t)
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

// Topology returns a mocked topology.
func (m *MockClient) Topology(ctx context.Context, session string) (Topology, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(Topology), args.Error(1)
}

// RenameWindow returns a mocked error for a window rename.
//
//	mock.On("RenameWindow", mock.Anything, "@1", "build ✅").Return(nil)
func (m *MockClient) RenameWindow(ctx context.Context, windowID, name string) error {
	args := m.Called(ctx, windowID, name)
	return args.Error(0)
}

// CurrentSession returns a mocked session name.
func (m *MockClient) CurrentSession(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Sessions returns mocked session names.
//
//	mock.On("Sessions", mock.Anything).Return([]string{"work", "notes"}, nil)
func (m *MockClient) Sessions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// HasSession returns a mocked boolean indicating if tmux server is running.
func (m *MockClient) HasSession(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// Run returns mocked stdout, stderr, and error for a tmux command.
//
//	mock.On("Run", mock.Anything, []string{"list-sessions"}).Return("work\n", "", nil)
func (m *MockClient) Run(ctx context.Context, args ...string) (string, string, error) {
	callArgs := m.Called(ctx, args)
	return callArgs.String(0), callArgs.String(1), callArgs.Error(2)
}
