package opsbeacon

// Trigger kinds. Only mcp-kind triggers have behavior beyond plain CRUD in
// this client; the MCP-specific operations reject triggers of any other kind.
const (
	TriggerKindMCP     = "mcp"
	TriggerKindWebHook = "webHook"
	TriggerKindCron    = "cron"
	TriggerKindLink    = "link"
)

// Command is a workspace command definition.
type Command struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Connection is a workspace connection (a target commands execute against).
type Connection struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// User is a workspace user.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Group is a named set of workspace users.
type Group struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

// Policy is a named allow-list of commands and connections used to scope
// trigger permissions. The commands/connections lists are stored exactly as
// submitted; the client does not de-duplicate them.
type Policy struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Commands    []string `json:"commands"`
	Connections []string `json:"connections"`
}

// Trigger is a named, server-hosted endpoint configuration.
type Trigger struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Description    string          `json:"description,omitempty"`
	TriggerURL     string          `json:"triggerUrl,omitempty"`
	Commands       []string        `json:"commands,omitempty"`
	Connections    []string        `json:"connections,omitempty"`
	Policies       []string        `json:"policies,omitempty"`
	MCPTriggerInfo *MCPTriggerInfo `json:"mcpTriggerInfo,omitempty"`
}

// MCPTriggerInfo holds the mcp-kind trigger payload.
type MCPTriggerInfo struct {
	ToolInstances []ToolInstance `json:"toolInstances"`
}

// ToolInstance is one configured command+connection pairing exposed as a
// named callable tool under an mcp-kind trigger. InstanceID and TemplateID
// are opaque identifiers assigned at creation.
type ToolInstance struct {
	InstanceID string        `json:"instanceId"`
	TemplateID string        `json:"templateId"`
	Overrides  ToolOverrides `json:"overrides"`
}

// ToolOverrides carries the externally visible configuration of a tool
// instance. Name is the tool name clients call; the server requires it to
// be unique within a trigger's tool list.
type ToolOverrides struct {
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Connection        string         `json:"connection"`
	Command           string         `json:"command"`
	ArgumentOverrides map[string]any `json:"argumentOverrides"`
}
