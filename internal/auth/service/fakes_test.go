package service_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
	"github.com/AnthoniusHendriyanto/academy-service/internal/events"
)

// memoryStore backs the in-memory repositories below. It mirrors the
// constraints of db/schema.sql that the auth flow relies on.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*domain.User
	attempts map[string]*domain.LoginAttempt
	otps     []*domain.Otp
	tokens   map[string]*domain.RefreshToken
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    map[int64]*domain.User{},
		attempts: map[string]*domain.LoginAttempt{},
		tokens:   map[string]*domain.RefreshToken{},
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) attempt(identifier string) *domain.LoginAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attempts[identifier]; ok {
		cp := *a
		return &cp
	}
	return nil
}

func (s *memoryStore) expireLock(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	past := time.Now().Add(-time.Second)
	s.attempts[identifier].LockUntil = &past
}

func (s *memoryStore) expireOtps() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.otps {
		o.ExpiresAt = time.Now().Add(-time.Second)
	}
}

type memoryUsers struct{ *memoryStore }

func (r memoryUsers) lookup(pred func(*domain.User) bool, withPassword bool) *domain.User {
	for _, u := range r.users {
		if u.DeletedAt == nil && pred(u) {
			cp := *u
			if !withPassword {
				cp.PasswordHash = ""
			}
			return &cp
		}
	}
	return nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) }, false), nil
}

func (r memoryUsers) GetByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) }, true), nil
}

func (r memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(func(u *domain.User) bool { return u.ID == id }, false), nil
}

func (r memoryUsers) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if u.DeletedAt == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookup(func(u *domain.User) bool { return strings.EqualFold(u.Email, user.Email) }, false) != nil {
		return autherror.New(autherror.ErrConflict, "user already exists")
	}
	user.ID = r.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r memoryUsers) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok || stored.DeletedAt != nil {
		return autherror.NotFound("user")
	}
	hash := stored.PasswordHash
	if user.PasswordHash != "" {
		hash = user.PasswordHash
	}
	*stored = *user
	stored.PasswordHash = hash
	return nil
}

func (r memoryUsers) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (r memoryUsers) SoftDelete(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return autherror.NotFound("user")
	}
	u.DeletedAt = &at
	return nil
}

type memoryAttempts struct{ *memoryStore }

func (r memoryAttempts) GetByIdentifier(_ context.Context, identifier string) (*domain.LoginAttempt, error) {
	return r.attempt(identifier), nil
}

func (r memoryAttempts) RecordFailure(_ context.Context, identifier, ip string) (*domain.LoginAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[identifier]
	if !ok {
		a = &domain.LoginAttempt{ID: r.id(), Identifier: identifier}
		r.attempts[identifier] = a
	}
	if a.LockUntil != nil && !a.LockUntil.After(time.Now()) {
		a.Attempts = 0
		a.LockUntil = nil
	}
	a.Attempts++
	a.IPAddress = ip
	cp := *a
	return &cp, nil
}

func (r memoryAttempts) Lock(_ context.Context, identifier string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.attempts[identifier]; ok {
		a.LockUntil = &until
	}
	return nil
}

func (r memoryAttempts) Reset(_ context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, identifier)
	return nil
}

type memoryOtps struct{ *memoryStore }

func (r memoryOtps) Create(_ context.Context, otp *domain.Otp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.Code == otp.Code && o.Type == otp.Type && o.UsedAt == nil {
			return autherror.New(autherror.ErrConflict, "otp already exists")
		}
	}
	otp.ID = r.id()
	otp.CreatedAt = time.Now()
	cp := *otp
	r.otps = append(r.otps, &cp)
	return nil
}

func (r memoryOtps) FindByCode(_ context.Context, userID int64, otpType domain.OtpType, code string) (*domain.Otp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *domain.Otp
	for _, o := range r.otps {
		if o.UserID != userID || o.Type != otpType || o.Code != code {
			continue
		}
		if found == nil || (found.UsedAt != nil && o.UsedAt == nil) {
			found = o
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (r memoryOtps) MarkUsed(_ context.Context, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == id && o.UsedAt == nil {
			o.UsedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r memoryOtps) DeleteExpiredUnused(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.otps[:0]
	for _, o := range r.otps {
		if o.UsedAt == nil && o.ExpiresAt.Before(before) {
			continue
		}
		kept = append(kept, o)
	}
	deleted := int64(len(r.otps) - len(kept))
	r.otps = kept
	return deleted, nil
}

type memoryRefreshTokens struct{ *memoryStore }

func (r memoryRefreshTokens) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = r.id()
	token.CreatedAt = time.Now()
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r memoryRefreshTokens) Find(_ context.Context, token string, userID int64) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok || t.UserID != userID || !t.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r memoryRefreshTokens) Delete(_ context.Context, token string, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok && t.UserID == userID {
		delete(r.tokens, token)
		return 1, nil
	}
	return 0, nil
}

func (r memoryRefreshTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// recordingPublisher keeps every published event type in order.
type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, event events.SecurityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, event.Type)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}
