// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/jeranaias/lineadmin-tui/internal/api"
)

// ============================================================================
// Account Store
// ============================================================================

// ErrUserNotFound is returned when an account id does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when creating an account with a username that
// already exists.
var ErrUsernameTaken = errors.New("username already exists")

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
`

// UserStore persists accounts in SQLite. Passwords are stored as bcrypt
// hashes only.
type UserStore struct {
	db *sql.DB
}

// OpenUserStore opens (or creates) the account database at path. Use
// ":memory:" for an ephemeral store.
func OpenUserStore(path string) (*UserStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc.org/sqlite serializes per connection; a single connection
	// avoids table-lock errors under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &UserStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *UserStore) Close() error {
	return s.db.Close()
}

// EnsureSeed creates the default Admin / 1234 account when the store holds no
// accounts at all.
func (s *UserStore) EnsureSeed() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err := s.Create("Admin", "1234", api.RoleAdmin)
	return err
}

// Create inserts a new account with a hashed password.
func (s *UserStore) Create(username, password string, role api.Role) (api.UserRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return api.UserRecord{}, fmt.Errorf("hash password: %w", err)
	}

	u := api.UserRecord{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.Exec(
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, string(hash), string(u.Role), u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return api.UserRecord{}, ErrUsernameTaken
		}
		return api.UserRecord{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Authenticate checks credentials and returns the account on success.
func (s *UserStore) Authenticate(username, password string) (api.UserRecord, bool) {
	var u api.UserRecord
	var hash string
	err := s.db.QueryRow(
		`SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &hash, &u.Role, &u.CreatedAt)
	if err != nil {
		// Burn a comparison anyway so a missing username costs the same
		// as a wrong password.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(password),
		)
		return api.UserRecord{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return api.UserRecord{}, false
	}
	return u, true
}

// List returns all accounts ordered by creation time.
func (s *UserStore) List() ([]api.UserRecord, error) {
	rows, err := s.db.Query(`SELECT id, username, role, created_at FROM users ORDER BY created_at, username`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []api.UserRecord
	for rows.Next() {
		var u api.UserRecord
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get returns a single account by id.
func (s *UserStore) Get(id string) (api.UserRecord, error) {
	var u api.UserRecord
	err := s.db.QueryRow(
		`SELECT id, username, role, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return api.UserRecord{}, ErrUserNotFound
	}
	if err != nil {
		return api.UserRecord{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// Update changes an account's role and, when password is non-empty, its
// password.
func (s *UserStore) Update(id string, role api.Role, password string) error {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		res, err := s.db.Exec(`UPDATE users SET role = ?, password_hash = ? WHERE id = ?`, string(role), string(hash), id)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return checkAffected(res)
	}

	res, err := s.db.Exec(`UPDATE users SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return checkAffected(res)
}

// Delete removes an account.
func (s *UserStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures in the error text;
	// it does not export a typed error for them.
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
