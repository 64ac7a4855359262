// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable key/value storage for the session state.
//
// The store is the terminal-side analogue of browser local storage: a small
// synchronous string map persisted under ~/.lineadmin. It holds exactly two
// keys today (the session token and the serialized user record) and carries
// no logic of its own; ownership of the session lives in internal/auth.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/lineadmin-tui/internal/util"
)

// Well-known keys used by the auth manager.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// SessionFileName is the on-disk file holding the persisted session.
const SessionFileName = "session.json"

// ErrStorageUnavailable indicates the backing storage could not be read or
// written. Callers are expected to fail closed (treat as "no session").
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ErrNotFound indicates the requested key has no value.
var ErrNotFound = errors.New("key not found")

// Store is the durable key/value contract consumed by the auth manager.
// All operations are synchronous.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores the value for key, persisting before returning.
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Clear deletes every key. Clearing an empty store is not an error.
	Clear() error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists keys as a single JSON object, written atomically with
// 0600 permissions. Reads happen once at construction; every mutation
// rewrites the file before returning so the in-memory view never runs ahead
// of disk.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStore opens (or creates) a file store at path. A missing file is an
// empty store. An unreadable or undecodable file returns
// ErrStorageUnavailable; callers decide whether to degrade or abort.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if len(raw) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		return nil, fmt.Errorf("%w: corrupt session file: %v", ErrStorageUnavailable, err)
	}
	return fs, nil
}

// DefaultPath returns the standard session file location (~/.lineadmin/session.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return filepath.Join(home, ".lineadmin", SessionFileName), nil
}

// Get returns the value for key, or ErrNotFound.
func (fs *FileStore) Get(key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	v, ok := fs.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores the value for key and flushes to disk.
func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.data[key] = value
	if err := fs.flushLocked(); err != nil {
		delete(fs.data, key)
		return err
	}
	return nil
}

// Remove deletes key and flushes to disk.
func (fs *FileStore) Remove(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.data[key]; !ok {
		return nil
	}
	delete(fs.data, key)
	return fs.flushLocked()
}

// Clear deletes every key and removes the backing file.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.data = make(map[string]string)
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// flushLocked writes the current map to disk. Caller holds fs.mu.
func (fs *FileStore) flushLocked() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	// 0600: the file carries a bearer token.
	if err := util.AtomicWriteFile(fs.path, raw, 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu   sync.Mutex
	data map[string]string

	// FailAll makes every operation return ErrStorageUnavailable,
	// simulating unavailable storage.
	FailAll bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (ms *MemStore) Get(key string) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.FailAll {
		return "", ErrStorageUnavailable
	}
	v, ok := ms.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (ms *MemStore) Set(key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.FailAll {
		return ErrStorageUnavailable
	}
	ms.data[key] = value
	return nil
}

func (ms *MemStore) Remove(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.FailAll {
		return ErrStorageUnavailable
	}
	delete(ms.data, key)
	return nil
}

func (ms *MemStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.FailAll {
		return ErrStorageUnavailable
	}
	ms.data = make(map[string]string)
	return nil
}
