// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the LineAdmin development API server.
//
// This is the backend the TUI talks to when you have nothing else to point it
// at: a small HTTP server with a SQLite account store, bcrypt password
// hashing, and bearer-token sessions held in memory.
//
// # Endpoints
//
//   - POST   /api/auth/login  - Exchange credentials for a session token
//   - GET    /api/users       - List accounts (token required)
//   - POST   /api/users       - Create an account (token required)
//   - PUT    /api/users/{id}  - Update role and optionally password (token required)
//   - DELETE /api/users/{id}  - Delete an account (token required)
//   - GET    /health          - Health check
//
// # Security Features
//
//   - Bearer token sessions with expiry
//   - Per-IP rate limiting on the login endpoint
//   - Security headers (X-Content-Type-Options, X-Frame-Options, etc.)
//   - Panic recovery with stack trace logging
//
// # Usage
//
//	srv, err := server.New(server.Config{Addr: ":8990", DBPath: "lineadmin.db"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// A fresh database is seeded with the default Admin / 1234 account.
package server
