package mcp

import "context"

// Transport delivers JSON-RPC requests to an MCP endpoint.
type Transport interface {
	// Send sends a JSON-RPC request and returns the correlated response.
	Send(ctx context.Context, req JSONRPCRequest) (JSONRPCResponse, error)
	// Close terminates the transport connection.
	Close() error
}
