package opsbeacon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mvdan.cc/sh/v3/shell"
)

// RunRequest describes a command execution. Either CommandText (free-text
// mode) or both Connection and Command (structured mode) must be set;
// CommandText takes precedence when non-empty.
type RunRequest struct {
	// CommandText is a full command line, e.g. "myserver: check-disk".
	CommandText string

	// Connection and Command select structured execution.
	Connection string
	Command    string

	// Args are pre-tokenized command arguments, passed through unchanged.
	Args []string

	// ArgLine is a whitespace-delimited argument string, tokenized
	// shell-style so quoted substrings stay single tokens. Ignored when
	// Args is non-nil.
	ArgLine string
}

// Run executes a command in the workspace. Exactly one execution request is
// issued. The decoded response body is returned as-is: a 200 response whose
// body contains an "error" key or "success": false is not an error at this
// layer (see the package comment), callers interpret it.
//
// API-level failures are re-raised as CommandExecutionError carrying the
// command (or command text) and connection names.
func (c *Client) Run(ctx context.Context, req RunRequest) (map[string]any, error) {
	var body map[string]any
	switch {
	case req.CommandText != "":
		body = map[string]any{"commandLine": req.CommandText}
	case req.Command != "" && req.Connection != "":
		args, err := req.tokenizeArgs()
		if err != nil {
			return nil, err
		}
		body = map[string]any{
			"command":    req.Command,
			"connection": req.Connection,
			"arguments":  args,
		}
	default:
		return nil, &ValidationError{
			Message: "either CommandText or both Connection and Command are required",
		}
	}

	respBody, err := c.do(ctx, http.MethodPost, "/trigger/v1/api", body)
	if err != nil {
		if isAPIFailure(err) {
			command := req.Command
			if command == "" {
				command = req.CommandText
			}
			return nil, &CommandExecutionError{Command: command, Connection: req.Connection, Err: err}
		}
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err), Body: string(respBody)}
	}
	return result, nil
}

// tokenizeArgs resolves the argument list: Args passes through, ArgLine is
// split with shell-style tokenization, absence yields an empty list.
// Dollar variables in ArgLine are kept verbatim rather than expanded from
// the local environment; the workspace resolves them server side.
func (r RunRequest) tokenizeArgs() ([]string, error) {
	if r.Args != nil {
		return r.Args, nil
	}
	if r.ArgLine == "" {
		return []string{}, nil
	}
	fields, err := shell.Fields(r.ArgLine, func(name string) string { return "$" + name })
	if err != nil {
		return nil, &ValidationError{Field: "ArgLine", Message: fmt.Sprintf("invalid argument string: %v", err)}
	}
	return fields, nil
}
