package opsbeacon

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{"commands":[{"id":"1","name":"deploy"},{"id":"2","name":"restart"}]}`))

	commands, err := c.Commands(context.Background())
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "deploy", commands[0].Name)
}

func TestAddCommand_RequiresData(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{}`))

	_, err := c.AddCommand(context.Background(), Command{})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestConnections(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{"connections":[{"name":"server1","type":"ssh"}]}`))

	connections, err := c.Connections(context.Background())
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.Equal(t, "ssh", connections[0].Type)
}

func TestUsers_CRUD(t *testing.T) {
	var method, path string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.EscapedPath()
		w.Write([]byte(`{"users":[{"id":"u1","email":"a@example.com"}]}`))
	}))

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)

	require.NoError(t, c.DeleteUser(context.Background(), "user with spaces"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/workspace/v2/users/user%20with%20spaces", path)

	var validationErr *ValidationError
	_, err = c.AddUser(context.Background(), User{})
	require.ErrorAs(t, err, &validationErr)
	require.ErrorAs(t, c.DeleteUser(context.Background(), ""), &validationErr)
}

func TestGroups_CRUD(t *testing.T) {
	var path string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"groups":[{"name":"ops","members":["a@example.com"]}]}`))
	}))

	groups, err := c.Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "ops", groups[0].Name)
	assert.Equal(t, "/workspace/v2/policy/group", path)

	require.NoError(t, c.DeleteGroup(context.Background(), "ops"))
	assert.Equal(t, "/workspace/v2/policy/group/ops", path)

	var validationErr *ValidationError
	_, err = c.AddGroup(context.Background(), Group{})
	require.ErrorAs(t, err, &validationErr)
}

func TestCreatePolicy_NormalizesNilSlices(t *testing.T) {
	var captured map[string]any
	c := newTestClient(t, captureHandler(&captured, `{"name":"p1","commands":[],"connections":[]}`))

	_, err := c.CreatePolicy(context.Background(), Policy{Name: "p1"})
	require.NoError(t, err)

	commands, ok := captured["commands"].([]any)
	require.True(t, ok, "commands must marshal as [], not null")
	assert.Empty(t, commands)
	connections, ok := captured["connections"].([]any)
	require.True(t, ok, "connections must marshal as [], not null")
	assert.Empty(t, connections)
}

func TestCreatePolicy_RequiresName(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{}`))

	_, err := c.CreatePolicy(context.Background(), Policy{Description: "no name"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestGetPolicy_DirectHit(t *testing.T) {
	c := newTestClient(t, jsonHandler(`{"name":"p1","commands":["deploy"],"connections":[]}`))

	policy, err := c.GetPolicy(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy"}, policy.Commands)
}

func TestGetPolicy_FallsBackToList(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/workspace/v2/policy/p2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"policies":[{"name":"p1","commands":[],"connections":[]},{"name":"p2","commands":["x"],"connections":[]}]}`))
	}))

	policy, err := c.GetPolicy(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, policy.Commands)
}

func TestGetPolicy_NotFoundAnywhere(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/workspace/v2/policy/ghost" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"policies":[]}`))
	}))

	_, err := c.GetPolicy(context.Background(), "ghost")
	var notFound *ResourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Policy", notFound.Resource)
	assert.Equal(t, "ghost", notFound.ID)
}

func TestGetPolicy_AuthErrorDoesNotFallBack(t *testing.T) {
	calls := 0
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.GetPolicy(context.Background(), "p1")
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, calls, "auth failures must not trigger the list fallback")
}
