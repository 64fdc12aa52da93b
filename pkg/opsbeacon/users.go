package opsbeacon

import (
	"context"
	"net/http"
	"net/url"
)

// Users fetches the users in the workspace.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// AddUser adds a user to the workspace.
func (c *Client) AddUser(ctx context.Context, user User) (User, error) {
	if user == (User{}) {
		return User{}, &ValidationError{Field: "user", Message: "user data is required"}
	}
	var created User
	if err := c.doJSON(ctx, http.MethodPost, "/workspace/v2/users", user, &created); err != nil {
		return User{}, err
	}
	return created, nil
}

// DeleteUser removes a user from the workspace by id.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return &ValidationError{Field: "userID", Message: "user id is required"}
	}
	_, err := c.do(ctx, http.MethodDelete, "/workspace/v2/users/"+url.PathEscape(userID), nil)
	return err
}

// Groups fetches the groups in the workspace.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out struct {
		Groups []Group `json:"groups"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/workspace/v2/policy/group", nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

// AddGroup adds a group to the workspace.
func (c *Client) AddGroup(ctx context.Context, group Group) (Group, error) {
	if group.Name == "" && len(group.Members) == 0 {
		return Group{}, &ValidationError{Field: "group", Message: "group data is required"}
	}
	var created Group
	if err := c.doJSON(ctx, http.MethodPost, "/workspace/v2/policy/group", group, &created); err != nil {
		return Group{}, err
	}
	return created, nil
}

// DeleteGroup removes a group from the workspace by name.
func (c *Client) DeleteGroup(ctx context.Context, groupName string) error {
	if groupName == "" {
		return &ValidationError{Field: "groupName", Message: "group name is required"}
	}
	_, err := c.do(ctx, http.MethodDelete, "/workspace/v2/policy/group/"+url.PathEscape(groupName), nil)
	return err
}
