// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: 2 * time.Second})
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "Admin" || req.Password != "1234" {
			t.Errorf("unexpected credentials: %+v", req)
		}
		json.NewEncoder(w).Encode(LoginResponse{
			Success: true,
			Token:   "T",
			User:    &UserRecord{ID: "1", Username: "Admin", Role: RoleAdmin},
		})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Login(context.Background(), "Admin", "1234")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !resp.Success || resp.Token != "T" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.User == nil || resp.User.Role != RoleAdmin {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestLogin_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(LoginResponse{Success: false, Message: "invalid username or password"})
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).Login(context.Background(), "Admin", "wrong")
	if err != nil {
		t.Fatalf("rejected credentials must not be a transport error, got %v", err)
	}
	if resp.Success {
		t.Error("expected Success=false")
	}
	if resp.Message != "invalid username or password" {
		t.Errorf("message: got %q", resp.Message)
	}
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately closed: connection refused

	_, err := testClient(srv.URL).Login(context.Background(), "Admin", "1234")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("got %v, want ErrUnreachable", err)
	}
}

func TestListUsers_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer T" {
			t.Errorf("Authorization header: got %q", got)
		}
		json.NewEncoder(w).Encode(ListUsersResponse{
			Success: true,
			Users:   []UserRecord{{ID: "1", Username: "Admin", Role: RoleAdmin}},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.SetToken("T")

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].ID != "1" {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestListUsers_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListUsers(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestUpdateUser_OmitsBlankPassword(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		json.NewEncoder(w).Encode(MutationResponse{Success: true})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.UpdateUser(context.Background(), "u-1", UpdateUserRequest{Role: RoleUser}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if strings.Contains(body, "password") {
		t.Errorf("blank password must be omitted from payload, got %s", body)
	}

	if err := c.UpdateUser(context.Background(), "u-1", UpdateUserRequest{Role: RoleUser, Password: "new"}); err != nil {
		t.Fatalf("UpdateUser with password: %v", err)
	}
	if !strings.Contains(body, `"password":"new"`) {
		t.Errorf("password missing from payload, got %s", body)
	}
}

func TestCreateUser_ServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(MutationResponse{Success: false, Message: "username already exists"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateUser(context.Background(), CreateUserRequest{
		Username: "Admin", Password: "1234", Role: RoleAdmin,
	})
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeRejected {
		t.Fatalf("got %v, want ErrTypeRejected", err)
	}
	if ce.Message != "username already exists" {
		t.Errorf("message: got %q", ce.Message)
	}
}

func TestDeleteUser_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testClient(srv.URL).DeleteUser(context.Background(), "u-1")
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeConnection {
		t.Fatalf("got %v, want connection-type ClientError", err)
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("root").Valid() {
		t.Error("unknown role must be invalid")
	}
}
