package opsbeacon

import (
	"context"
	"net/http"
)

// Commands fetches the commands available in the workspace. Results are
// never cached; every call re-fetches from the API.
func (c *Client) Commands(ctx context.Context) ([]Command, error) {
	var out struct {
		Commands []Command `json:"commands"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/commands", nil, &out); err != nil {
		return nil, err
	}
	return out.Commands, nil
}

// AddCommand registers a new command in the workspace.
func (c *Client) AddCommand(ctx context.Context, cmd Command) (Command, error) {
	if cmd == (Command{}) {
		return Command{}, &ValidationError{Field: "cmd", Message: "command data is required"}
	}
	var created Command
	if err := c.doJSON(ctx, http.MethodPost, "/workspace/v2/commands", cmd, &created); err != nil {
		return Command{}, err
	}
	return created, nil
}

// Connections retrieves the connections in the workspace.
func (c *Client) Connections(ctx context.Context) ([]Connection, error) {
	var out struct {
		Connections []Connection `json:"connections"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/connections", nil, &out); err != nil {
		return nil, err
	}
	return out.Connections, nil
}
