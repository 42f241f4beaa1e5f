// Package memory provides an in-memory implementation of the repository
// facades. It mirrors the pgsql semantics, including the exactly-once
// resolution of transfer requests, and backs the service test suites.
package memory

import (
	"sync"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
)

// Store holds all in-memory state behind a single mutex, so a drawer transfer
// approval mutates the request and both drawers atomically, exactly like the
// single database transaction in the pgsql backing.
type Store struct {
	mu        sync.Mutex
	drawers   map[string]*domain.Drawer
	entries   map[string][]domain.JournalEntry // keyed by drawerID, ordered by sequence
	transfers map[string]*domain.TransferRequest
	users     map[string]*domain.User
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		drawers:   make(map[string]*domain.Drawer),
		entries:   make(map[string][]domain.JournalEntry),
		transfers: make(map[string]*domain.TransferRequest),
		users:     make(map[string]*domain.User),
	}
}

// NewRepositoryProvider wires all repository facades over one shared store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		DrawerRepo:   &DrawerRepository{store: store},
		TransferRepo: &TransferRepository{store: store},
		UserRepo:     &UserRepository{store: store},
	}
}
