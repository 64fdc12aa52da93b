package opsbeacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// MCPTriggerSpec configures a new mcp-kind trigger.
type MCPTriggerSpec struct {
	Description   string
	ToolInstances []ToolInstance
	Policies      []string
}

// TriggerCreateResult is the envelope returned by CreateMCPTrigger. The
// server returns APIToken only at creation time — it cannot be retrieved
// later, so callers must persist it immediately. Raw always holds the
// decoded response body; when the server returned neither a url nor an
// error, Success is false and Raw is the only signal (a deliberate escape
// hatch for future response shapes).
type TriggerCreateResult struct {
	Success  bool
	Name     string
	URL      string
	APIToken string
	Message  string
	Raw      map[string]any
}

// TriggerUpdate is a partial update for an mcp-kind trigger. Nil fields are
// left unchanged; a non-nil ToolInstances wholly replaces the tool list.
type TriggerUpdate struct {
	Description   *string
	ToolInstances []ToolInstance
}

// ToolConfig describes a tool to add to an mcp-kind trigger.
type ToolConfig struct {
	// Name is the tool name visible to callers. When empty, a positional
	// name of the form "tool_N" is assigned.
	Name        string
	Description string
	Connection  string
	Command     string
	Arguments   map[string]any
}

// Triggers fetches all triggers in the workspace.
func (c *Client) Triggers(ctx context.Context) ([]Trigger, error) {
	var out struct {
		Triggers []Trigger `json:"triggers"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/triggers", nil, &out); err != nil {
		return nil, err
	}
	return out.Triggers, nil
}

// TriggersByKind fetches the triggers of the given kind, preserving the
// relative order of the full listing.
func (c *Client) TriggersByKind(ctx context.Context, kind string) ([]Trigger, error) {
	all, err := c.Triggers(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []Trigger
	for _, t := range all {
		if t.Kind == kind {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// MCPTriggers fetches the mcp-kind triggers in the workspace.
func (c *Client) MCPTriggers(ctx context.Context) ([]Trigger, error) {
	return c.TriggersByKind(ctx, TriggerKindMCP)
}

// GetTrigger fetches a trigger by name. When the direct lookup fails with
// an API-level error, the full trigger list is scanned by name before
// giving up with ResourceNotFoundError: the remote service's single-item
// lookup is not guaranteed consistent with its list endpoint.
func (c *Client) GetTrigger(ctx context.Context, name string) (Trigger, error) {
	if name == "" {
		return Trigger{}, &ValidationError{Field: "name", Message: "trigger name is required"}
	}

	var trigger Trigger
	err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/triggers/"+url.PathEscape(name), nil, &trigger)
	if err == nil {
		return trigger, nil
	}
	if !isAPIFailure(err) {
		return Trigger{}, err
	}

	all, listErr := c.Triggers(ctx)
	if listErr != nil {
		return Trigger{}, listErr
	}
	for _, t := range all {
		if t.Name == name {
			return t, nil
		}
	}
	return Trigger{}, &ResourceNotFoundError{Resource: "Trigger", ID: name}
}

// CreateMCPTrigger creates an mcp-kind trigger. The commands and
// connections arrays are derived from the tool instances' overrides and
// de-duplicated with set semantics (order unspecified).
func (c *Client) CreateMCPTrigger(ctx context.Context, name string, spec MCPTriggerSpec) (*TriggerCreateResult, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "trigger name is required"}
	}

	commands, connections := collectToolTargets(spec.ToolInstances)
	instances := spec.ToolInstances
	if instances == nil {
		instances = []ToolInstance{}
	}

	payload := map[string]any{
		"name":           name,
		"description":    spec.Description,
		"kind":           TriggerKindMCP,
		"commands":       commands,
		"connections":    connections,
		"policies":       orEmpty(spec.Policies),
		"mcpTriggerInfo": MCPTriggerInfo{ToolInstances: instances},
	}

	respBody, err := c.do(ctx, http.MethodPost, "/workspace/v2/triggers", payload)
	if err != nil {
		if isAPIFailure(err) {
			return nil, &MCPError{TriggerName: name, Message: "create failed", Err: err}
		}
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err), Body: string(respBody)}
	}

	if u, _ := raw["url"].(string); u != "" {
		token, _ := raw["apiToken"].(string)
		return &TriggerCreateResult{
			Success:  true,
			Name:     name,
			URL:      u,
			APIToken: token,
			Message:  fmt.Sprintf("MCP trigger %q created successfully", name),
			Raw:      raw,
		}, nil
	}
	if msg, _ := raw["err"].(string); msg != "" {
		return nil, &MCPError{TriggerName: name, Message: msg}
	}

	// Unrecognized response shape: pass it through unmodified.
	return &TriggerCreateResult{Name: name, Raw: raw}, nil
}

// UpdateMCPTrigger applies a partial update to an mcp-kind trigger. The
// existing trigger is fetched first and must be mcp-kind. Unset fields keep
// their prior values; a supplied tool-instance list wholly replaces the old
// one, and the commands/connections arrays are recomputed from it.
func (c *Client) UpdateMCPTrigger(ctx context.Context, name string, upd TriggerUpdate) (map[string]any, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "trigger name is required"}
	}

	existing, err := c.GetTrigger(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing.Kind != TriggerKindMCP {
		return nil, &MCPError{TriggerName: name, Message: fmt.Sprintf("%q is not an MCP trigger", name)}
	}

	commands := orEmpty(existing.Commands)
	connections := orEmpty(existing.Connections)
	if upd.ToolInstances != nil {
		commands, connections = collectToolTargets(upd.ToolInstances)
	}

	description := existing.Description
	if upd.Description != nil {
		description = *upd.Description
	}

	info := MCPTriggerInfo{ToolInstances: []ToolInstance{}}
	if existing.MCPTriggerInfo != nil {
		info = *existing.MCPTriggerInfo
	}
	if upd.ToolInstances != nil {
		info.ToolInstances = upd.ToolInstances
	}

	payload := map[string]any{
		"name":           name,
		"kind":           TriggerKindMCP,
		"description":    description,
		"commands":       commands,
		"connections":    connections,
		"mcpTriggerInfo": info,
	}

	respBody, err := c.do(ctx, http.MethodPut, "/workspace/v2/triggers/"+url.PathEscape(name), payload)
	if err != nil {
		if isAPIFailure(err) {
			return nil, &MCPError{TriggerName: name, Message: "update failed", Err: err}
		}
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decode response: %v", err), Body: string(respBody)}
	}
	return result, nil
}

// DeleteTrigger removes a trigger by name.
func (c *Client) DeleteTrigger(ctx context.Context, name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "trigger name is required"}
	}
	_, err := c.do(ctx, http.MethodDelete, "/workspace/v2/triggers/"+url.PathEscape(name), nil)
	return err
}

// MCPTriggerURL returns the MCP server URL of the named trigger, or the
// empty string when the trigger does not exist or is not mcp-kind.
func (c *Client) MCPTriggerURL(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "trigger name is required"}
	}
	trigger, err := c.GetTrigger(ctx, name)
	if err != nil {
		var notFound *ResourceNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", err
	}
	if trigger.Kind != TriggerKindMCP {
		return "", nil
	}
	return trigger.TriggerURL, nil
}

// AddToolToMCPTrigger appends a tool instance, built from config with a
// fresh unique instance identifier, to the named trigger's tool list and
// submits the extended list as a full update.
func (c *Client) AddToolToMCPTrigger(ctx context.Context, triggerName string, config ToolConfig) (map[string]any, error) {
	if triggerName == "" {
		return nil, &ValidationError{Field: "triggerName", Message: "trigger name is required"}
	}

	trigger, err := c.GetTrigger(ctx, triggerName)
	if err != nil {
		return nil, err
	}
	if trigger.Kind != TriggerKindMCP {
		return nil, &MCPError{TriggerName: triggerName, Message: fmt.Sprintf("%q is not an MCP trigger", triggerName)}
	}

	var instances []ToolInstance
	if trigger.MCPTriggerInfo != nil {
		instances = append(instances, trigger.MCPTriggerInfo.ToolInstances...)
	}

	name := config.Name
	if name == "" {
		name = fmt.Sprintf("tool_%d", len(instances)+1)
	}
	arguments := config.Arguments
	if arguments == nil {
		arguments = map[string]any{}
	}

	id := uuid.NewString()
	instances = append(instances, ToolInstance{
		InstanceID: id,
		TemplateID: id,
		Overrides: ToolOverrides{
			Name:              name,
			Description:       config.Description,
			Connection:        config.Connection,
			Command:           config.Command,
			ArgumentOverrides: arguments,
		},
	})

	return c.UpdateMCPTrigger(ctx, triggerName, TriggerUpdate{ToolInstances: instances})
}

// RemoveToolFromMCPTrigger removes the tool whose overrides name matches
// toolName from the named trigger. When no tool matches, it returns
// ResourceNotFoundError without issuing an update.
func (c *Client) RemoveToolFromMCPTrigger(ctx context.Context, triggerName, toolName string) (map[string]any, error) {
	if triggerName == "" {
		return nil, &ValidationError{Field: "triggerName", Message: "trigger name is required"}
	}
	if toolName == "" {
		return nil, &ValidationError{Field: "toolName", Message: "tool name is required"}
	}

	trigger, err := c.GetTrigger(ctx, triggerName)
	if err != nil {
		return nil, err
	}
	if trigger.Kind != TriggerKindMCP {
		return nil, &MCPError{TriggerName: triggerName, Message: fmt.Sprintf("%q is not an MCP trigger", triggerName)}
	}

	var instances []ToolInstance
	if trigger.MCPTriggerInfo != nil {
		instances = trigger.MCPTriggerInfo.ToolInstances
	}

	kept := make([]ToolInstance, 0, len(instances))
	for _, inst := range instances {
		if inst.Overrides.Name != toolName {
			kept = append(kept, inst)
		}
	}
	if len(kept) == len(instances) {
		return nil, &ResourceNotFoundError{Resource: "Tool", ID: toolName}
	}

	return c.UpdateMCPTrigger(ctx, triggerName, TriggerUpdate{ToolInstances: kept})
}

// collectToolTargets derives the de-duplicated commands and connections
// arrays from the tool instances' overrides. The result has set semantics:
// order is unspecified.
func collectToolTargets(instances []ToolInstance) (commands, connections []string) {
	commandSet := make(map[string]struct{})
	connectionSet := make(map[string]struct{})
	for _, inst := range instances {
		if inst.Overrides.Command != "" {
			commandSet[inst.Overrides.Command] = struct{}{}
		}
		if inst.Overrides.Connection != "" {
			connectionSet[inst.Overrides.Connection] = struct{}{}
		}
	}
	commands = make([]string, 0, len(commandSet))
	for cmd := range commandSet {
		commands = append(commands, cmd)
	}
	connections = make([]string, 0, len(connectionSet))
	for conn := range connectionSet {
		connections = append(connections, conn)
	}
	return commands, connections
}
