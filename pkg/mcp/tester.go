// Package mcp implements a minimal MCP (Model Context Protocol) client used
// to verify that a trigger's MCP endpoint speaks the protocol end to end:
// initialize, tools/list, and a single tools/call.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/opsbeacon/opsbeacon-go/pkg/opsbeacon"
)

// StepResult records the outcome of one protocol step.
type StepResult struct {
	OK       bool
	Response *JSONRPCResponse
	Err      error
	Message  string
}

// TestResult is the outcome of a full protocol check. Only a transport
// failure short-circuits later steps, which are left zero-valued; a
// delivered response counts as progress whatever its shape.
type TestResult struct {
	Initialize StepResult
	Tools      StepResult
	Execution  StepResult

	ToolCount int
	ToolName  string // tool exercised by the execution step
	Success   bool
}

// Tester drives the three-step protocol check against one MCP endpoint.
type Tester struct {
	transport Transport
	logger    hclog.Logger
	toolName  string
	toolArgs  map[string]any
}

// TesterOption customizes a Tester.
type TesterOption func(*Tester)

// WithLogger sets the diagnostic logger.
func WithLogger(l hclog.Logger) TesterOption {
	return func(t *Tester) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithTool selects the tool to exercise in the execution step. When the
// server does not list a tool with that name, the first listed tool is
// used instead.
func WithTool(name string) TesterOption {
	return func(t *Tester) { t.toolName = name }
}

// WithToolArguments sets the arguments for the execution step.
func WithToolArguments(args map[string]any) TesterOption {
	return func(t *Tester) { t.toolArgs = args }
}

// WithTransport replaces the transport built from the url/token pair.
func WithTransport(tr Transport) TesterOption {
	return func(t *Tester) { t.transport = tr }
}

// TestProtocol runs the protocol check against the MCP endpoint at url,
// authenticating with the trigger's bearer token. A nil error means the
// check itself ran; consult the result for per-step outcomes.
func TestProtocol(ctx context.Context, url, token string, opts ...TesterOption) (*TestResult, error) {
	if url == "" {
		return nil, &opsbeacon.ValidationError{Field: "url", Message: "MCP server URL is required"}
	}
	if token == "" {
		return nil, &opsbeacon.ValidationError{Field: "token", Message: "API token is required"}
	}

	t := &Tester{
		transport: NewBearerTransport(url, token),
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	defer t.transport.Close()

	return t.run(ctx), nil
}

func (t *Tester) run(ctx context.Context) *TestResult {
	result := &TestResult{}

	// Step 1: initialize handshake. A delivered response is enough to
	// proceed; only a transport failure stops the check here.
	result.Initialize = t.send(ctx, 1, MethodInitialize, InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ClientCapabilities{},
		ClientInfo: ClientInfo{
			Name:    "opsbeacon-go",
			Version: opsbeacon.Version,
		},
	})
	if !result.Initialize.OK {
		return result
	}
	t.logger.Debug("initialize handshake complete")

	// Step 2: tool discovery. An error object, a missing result, or an
	// undecodable result all count as an empty tool list.
	result.Tools = t.send(ctx, 2, MethodToolsList, struct{}{})
	if !result.Tools.OK {
		return result
	}

	var tools ToolsListResult
	if resp := result.Tools.Response; resp.Error == nil && resp.Result != nil {
		if err := json.Unmarshal(resp.Result, &tools); err != nil {
			t.logger.Debug("undecodable tools/list result", "error", err)
			tools.Tools = nil
		}
	}
	result.ToolCount = len(tools.Tools)
	t.logger.Debug("tools listed", "count", result.ToolCount)

	if len(tools.Tools) == 0 {
		result.Execution.Message = "no tools available"
		return result
	}

	// Step 3: execute one tool. The named tool when listed, else the
	// first one.
	tool := tools.Tools[0]
	if t.toolName != "" {
		for _, candidate := range tools.Tools {
			if candidate.Name == t.toolName {
				tool = candidate
				break
			}
		}
	}
	result.ToolName = tool.Name

	result.Execution = t.send(ctx, 3, MethodToolsCall, ToolCallParams{
		Name:      tool.Name,
		Arguments: t.toolArgs,
	})
	if !result.Execution.OK {
		return result
	}

	// Execution succeeds only when the response carries a result.
	resp := result.Execution.Response
	switch {
	case resp.Error != nil:
		result.Execution.OK = false
		result.Execution.Err = &opsbeacon.MCPError{Message: MethodToolsCall + " failed", Err: resp.Error}
	case resp.Result == nil:
		result.Execution.OK = false
		result.Execution.Message = "response carried no result"
	default:
		result.Execution.Message = fmt.Sprintf("tool %q executed", tool.Name)
		result.Success = true
	}
	return result
}

// send delivers one request. OK means the transport produced a response;
// the caller judges the response's shape.
func (t *Tester) send(ctx context.Context, id int, method string, params any) StepResult {
	resp, err := t.transport.Send(ctx, newRequest(id, method, params))
	if err != nil {
		t.logger.Debug("step failed", "method", method, "error", err)
		return StepResult{Err: &opsbeacon.MCPError{Message: method + " failed", Err: err}}
	}
	return StepResult{OK: true, Response: &resp}
}
