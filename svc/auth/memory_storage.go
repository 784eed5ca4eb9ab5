package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memoryStorage is the in-memory UserStorage used in tests and local
// development. Emails are matched case-insensitively.
type memoryStorage struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]User
	emails map[string]uuid.UUID
	hashes map[uuid.UUID][]byte
}

// NewMemoryStorage returns an in-memory user store.
func NewMemoryStorage() UserStorage {
	return &memoryStorage{
		users:  make(map[uuid.UUID]User),
		emails: make(map[string]uuid.UUID),
		hashes: make(map[uuid.UUID][]byte),
	}
}

func (s *memoryStorage) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.emails[email]; exists {
		return ErrEmailTaken
	}
	s.users[user.ID] = *user
	s.emails[email] = user.ID
	return nil
}

func (s *memoryStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *memoryStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *memoryStorage) UpdateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memoryStorage) StorePasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	s.hashes[userID] = append([]byte(nil), hash...)
	return nil
}

func (s *memoryStorage) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.hashes[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return append([]byte(nil), hash...), nil
}
