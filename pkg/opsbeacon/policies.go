package opsbeacon

import (
	"context"
	"net/http"
	"net/url"
)

// Policies fetches the execution policies in the workspace.
func (c *Client) Policies(ctx context.Context) ([]Policy, error) {
	var out struct {
		Policies []Policy `json:"policies"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/policy", nil, &out); err != nil {
		return nil, err
	}
	return out.Policies, nil
}

// CreatePolicy creates an execution policy. The commands and connections
// lists are submitted exactly as given; the server stores whatever was sent.
func (c *Client) CreatePolicy(ctx context.Context, policy Policy) (Policy, error) {
	if policy.Name == "" {
		return Policy{}, &ValidationError{Field: "policy.Name", Message: "policy name is required"}
	}
	payload := Policy{
		Name:        policy.Name,
		Description: policy.Description,
		Commands:    orEmpty(policy.Commands),
		Connections: orEmpty(policy.Connections),
	}
	var created Policy
	if err := c.doJSON(ctx, http.MethodPost, "/workspace/v2/policy", payload, &created); err != nil {
		return Policy{}, err
	}
	return created, nil
}

// GetPolicy fetches a policy by name. When the direct lookup fails with an
// API-level error, the full policy list is scanned by name before giving up
// with ResourceNotFoundError; the single-item endpoint is not guaranteed
// consistent with the list endpoint.
func (c *Client) GetPolicy(ctx context.Context, name string) (Policy, error) {
	if name == "" {
		return Policy{}, &ValidationError{Field: "name", Message: "policy name is required"}
	}

	var policy Policy
	err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/policy/"+url.PathEscape(name), nil, &policy)
	if err == nil {
		return policy, nil
	}
	if !isAPIFailure(err) {
		return Policy{}, err
	}

	all, listErr := c.Policies(ctx)
	if listErr != nil {
		return Policy{}, listErr
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return Policy{}, &ResourceNotFoundError{Resource: "Policy", ID: name}
}

// DeletePolicy removes a policy by name.
func (c *Client) DeletePolicy(ctx context.Context, name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "policy name is required"}
	}
	_, err := c.do(ctx, http.MethodDelete, "/workspace/v2/policy/"+url.PathEscape(name), nil)
	return err
}

// orEmpty substitutes an empty slice for nil so the field marshals as []
// instead of null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
