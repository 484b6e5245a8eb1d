package handler

import (
	"net/http"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "alice")

	var dup errorEnvelope
	status := call(t, ts, http.MethodPost, "/api/users", "", map[string]any{
		"user": map[string]string{"username": "alice", "email": "x@example.com", "password": "pw"},
	}, &dup)
	if status != http.StatusBadRequest || dup.Errors.Kind != "BadRequest" {
		t.Fatalf("duplicate username: %d %+v", status, dup)
	}

	var login userEnvelope
	status = call(t, ts, http.MethodPost, "/api/users/login", "", map[string]any{
		"user": map[string]string{"email": "alice@example.com", "password": "password"},
	}, &login)
	if status != http.StatusOK || login.User.Token == "" || login.User.Username != "alice" {
		t.Fatalf("login: %d %+v", status, login)
	}

	var bad errorEnvelope
	status = call(t, ts, http.MethodPost, "/api/users/login", "", map[string]any{
		"user": map[string]string{"email": "alice@example.com", "password": "wrong"},
	}, &bad)
	if status != http.StatusBadRequest {
		t.Fatalf("wrong password: status %d", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing envelope", map[string]any{}},
		{"missing password", map[string]any{"user": map[string]string{"username": "a", "email": "a@example.com"}}},
		{"bad email", map[string]any{"user": map[string]string{"username": "a", "email": "nope", "password": "pw"}}},
		{"not json", "just a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out errorEnvelope
			status := call(t, ts, http.MethodPost, "/api/users", "", tt.body, &out)
			if status != http.StatusBadRequest || out.Errors.Kind != "BadRequest" {
				t.Fatalf("got %d %+v", status, out)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alice")

	var out userEnvelope
	if status := call(t, ts, http.MethodGet, "/api/user", token, nil, &out); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out.User.Email != "alice@example.com" {
		t.Errorf("unexpected user %+v", out.User)
	}

	var unauth errorEnvelope
	if status := call(t, ts, http.MethodGet, "/api/user", "", nil, &unauth); status != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", status)
	}
	if unauth.Errors.Kind != "Unauthorized" {
		t.Errorf("unexpected error %+v", unauth)
	}
	if status := call(t, ts, http.MethodGet, "/api/user", "garbage", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", status)
	}
}

func TestUpdateUser(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alice")

	var out userEnvelope
	status := call(t, ts, http.MethodPut, "/api/user", token, map[string]any{
		"user": map[string]string{"bio": "I write", "image": "https://example.com/a.png"},
	}, &out)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out.User.Bio != "I write" || out.User.Username != "alice" {
		t.Errorf("unexpected user %+v", out.User)
	}

	status = call(t, ts, http.MethodPut, "/api/user", token, map[string]any{
		"user": map[string]string{"email": "not-an-email"},
	}, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid email status = %d", status)
	}
}
