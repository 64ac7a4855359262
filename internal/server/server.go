// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/lineadmin-tui/internal/api"
)

// ============================================================================
// Configuration
// ============================================================================

// Config holds the server's startup options.
type Config struct {
	// Addr is the listen address, e.g. ":8990".
	Addr string
	// DBPath is the SQLite database path; ":memory:" for ephemeral.
	DBPath string
	// TokenTTL bounds how long a session token stays valid. Zero means
	// DefaultTokenTTL.
	TokenTTL time.Duration
}

// DefaultTokenTTL is how long session tokens remain valid.
const DefaultTokenTTL = 12 * time.Hour

// ============================================================================
// Session Tokens
// ============================================================================

type sessionToken struct {
	userID  string
	expires time.Time
}

// tokenRegistry tracks issued bearer tokens in memory. Restarting the server
// signs everyone out, which is fine for a development backend.
type tokenRegistry struct {
	mu     sync.Mutex
	tokens map[string]sessionToken
	ttl    time.Duration
}

func newTokenRegistry(ttl time.Duration) *tokenRegistry {
	return &tokenRegistry{tokens: make(map[string]sessionToken), ttl: ttl}
}

func (r *tokenRegistry) issue(userID string) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.tokens[token] = sessionToken{userID: userID, expires: time.Now().Add(r.ttl)}
	r.mu.Unlock()
	return token
}

// lookup returns the owning user id for a live token.
func (r *tokenRegistry) lookup(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.tokens[token]
	if !ok {
		return "", false
	}
	if time.Now().After(st.expires) {
		delete(r.tokens, token)
		return "", false
	}
	return st.userID, true
}

// ============================================================================
// Server
// ============================================================================

// Server is the LineAdmin development API server.
type Server struct {
	store   *UserStore
	tokens  *tokenRegistry
	limiter *loginRateLimiter
	config  Config

	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New opens the account store, seeds the default account, and prepares the
// HTTP server. Call Start to begin serving.
func New(config Config) (*Server, error) {
	if config.Addr == "" {
		config.Addr = ":8990"
	}
	if config.DBPath == "" {
		config.DBPath = ":memory:"
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultTokenTTL
	}

	store, err := OpenUserStore(config.DBPath)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSeed(); err != nil {
		store.Close()
		return nil, fmt.Errorf("seed accounts: %w", err)
	}

	s := &Server{
		store:   store,
		tokens:  newTokenRegistry(config.TokenTTL),
		limiter: newLoginRateLimiter(),
		config:  config,
	}
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /api/auth/login", s.limiter.limit(http.HandlerFunc(s.handleLogin)))

	mux.Handle("GET /api/users", s.requireToken(s.handleListUsers))
	mux.Handle("POST /api/users", s.requireToken(s.handleCreateUser))
	mux.Handle("PUT /api/users/{id}", s.requireToken(s.handleUpdateUser))
	mux.Handle("DELETE /api/users/{id}", s.requireToken(s.handleDeleteUser))

	return recoverMiddleware(securityHeaders(logRequests(mux)))
}

// Start listens and serves until Shutdown is called. It blocks.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	log.Printf("lineadmin server listening on %s (db: %s)", ln.Addr(), s.config.DBPath)

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound listen address, useful when Addr was ":0".
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server and closes the account store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// ============================================================================
// Handlers
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeLoginFailure(w, "Malformed request.")
		return
	}

	user, ok := s.store.Authenticate(req.Username, req.Password)
	if !ok {
		s.writeLoginFailure(w, "Incorrect username or password")
		return
	}

	s.writeJSON(w, http.StatusOK, api.LoginResponse{
		Success: true,
		Token:   s.tokens.issue(user.ID),
		User:    &user,
	})
}

func (s *Server) writeLoginFailure(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusUnauthorized, api.LoginResponse{
		Success: false,
		Message: message,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Could not list accounts.")
		return
	}
	if users == nil {
		users = []api.UserRecord{}
	}
	s.writeJSON(w, http.StatusOK, api.ListUsersResponse{Success: true, Users: users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Malformed request.")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if msg, ok := validateNewUser(req); !ok {
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := s.store.Create(req.Username, req.Password, req.Role)
	if errors.Is(err, ErrUsernameTaken) {
		s.writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Could not create account.")
		return
	}
	s.writeJSON(w, http.StatusOK, api.MutationResponse{Success: true, User: &user})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Malformed request.")
		return
	}
	if !req.Role.Valid() {
		s.writeError(w, http.StatusBadRequest, "Unknown role.")
		return
	}
	if req.Password != "" && len(req.Password) < 4 {
		s.writeError(w, http.StatusBadRequest, "Password must be at least 4 characters.")
		return
	}

	err := s.store.Update(id, req.Role, req.Password)
	if errors.Is(err, ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, "No such account.")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Could not update account.")
		return
	}
	s.writeJSON(w, http.StatusOK, api.MutationResponse{Success: true})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// The account behind the presented token may not delete itself.
	if callerID, ok := callerFromContext(r.Context()); ok && callerID == id {
		s.writeError(w, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}

	err := s.store.Delete(id)
	if errors.Is(err, ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, "No such account.")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Could not delete account.")
		return
	}
	s.writeJSON(w, http.StatusOK, api.MutationResponse{Success: true})
}

func validateNewUser(req api.CreateUserRequest) (string, bool) {
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return "Username must be 3-50 characters.", false
	}
	if len(req.Password) < 4 {
		return "Password must be at least 4 characters.", false
	}
	if !req.Role.Valid() {
		return "Unknown role.", false
	}
	return "", true
}

// ============================================================================
// Responses
// ============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.MutationResponse{Success: false, Message: message})
}
