package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// mockTransport implements Transport with pre-programmed responses.
type mockTransport struct {
	mu        sync.Mutex
	responses map[string]json.RawMessage // method → result JSON
	sendErrs  map[string]error           // method → transport error
	closed    bool
	calls     []string // methods that were sent
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		responses: make(map[string]json.RawMessage),
		sendErrs:  make(map[string]error),
	}
}

// withInitialize configures the mock to respond to initialize.
func (m *mockTransport) withInitialize() *mockTransport {
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      ServerInfo{Name: "mock-server", Version: "1.0"},
	}
	data, _ := json.Marshal(result)
	m.responses[MethodInitialize] = data
	return m
}

// withTools configures the mock to respond to tools/list with the given tools.
func (m *mockTransport) withTools(tools []ToolInfo) *mockTransport {
	result := ToolsListResult{Tools: tools}
	data, _ := json.Marshal(result)
	m.responses[MethodToolsList] = data
	return m
}

// withToolCall configures the mock to respond to tools/call with the given result.
func (m *mockTransport) withToolCall(toolResult ToolResult) *mockTransport {
	data, _ := json.Marshal(toolResult)
	m.responses[MethodToolsCall] = data
	return m
}

// withResponse configures a raw response for any method.
func (m *mockTransport) withResponse(method string, result json.RawMessage) *mockTransport {
	m.responses[method] = result
	return m
}

// withSendError makes Send fail for the given method.
func (m *mockTransport) withSendError(method string, err error) *mockTransport {
	m.sendErrs[method] = err
	return m
}

func (m *mockTransport) Send(_ context.Context, req JSONRPCRequest) (JSONRPCResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return JSONRPCResponse{}, fmt.Errorf("transport closed")
	}
	m.calls = append(m.calls, req.Method)

	if err, ok := m.sendErrs[req.Method]; ok {
		return JSONRPCResponse{}, err
	}

	result, ok := m.responses[req.Method]
	if !ok {
		return JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &JSONRPCError{Code: -32601, Message: "Method not found: " + req.Method},
		}, nil
	}

	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}, nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
