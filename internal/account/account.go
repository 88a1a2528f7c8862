// Package account owns the durable mapping from user identity to lookup
// history, persisted through an injected kv.Store under two fixed keys.
// The store is the single source of truth; the in-process session only
// mirrors it and every mutation writes through immediately.
package account

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"carbcheck/internal/kv"
)

// Persistence keys. The mapping is a single serialized blob: every write
// rewrites the whole thing. Concurrent processes are last-writer-wins,
// an accepted limitation of the storage contract.
const (
	usersKey       = "users"
	currentUserKey = "current_user"
)

var (
	// ErrAlreadyExists is returned by Register for a known email.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrNotFound is returned by Login for an unknown email.
	ErrNotFound = errors.New("account not found")
)

// LookupType is the closed set of identifiers a history entry can record.
type LookupType string

const (
	LookupVIN    LookupType = "VIN"
	LookupEntity LookupType = "ENTITY"
	LookupTRUCRS LookupType = "TRUCRS"
)

// HistoryItem is one recorded lookup. Items are immutable once created;
// histories only grow by prepend.
type HistoryItem struct {
	ID        string     `json:"id"`
	Value     string     `json:"value"`
	Type      LookupType `json:"type"`
	Timestamp int64      `json:"timestamp"`
}

// User is a registered account with its lookup history, newest first.
type User struct {
	Email   string
	History []HistoryItem
}

type userRecord struct {
	History []HistoryItem `json:"history"`
}

// Store mediates all account reads and writes. It is safe for use from a
// single goroutine per instance; the Bubble Tea runtime delivers events
// serially so no further coordination is needed.
type Store struct {
	kv kv.Store

	mu     sync.Mutex
	lastID int64 // last issued history ID, keeps IDs monotonic within a run

	now func() time.Time // test seam
}

// NewStore wraps the given kv surface.
func NewStore(surface kv.Store) *Store {
	return &Store{kv: surface, now: time.Now}
}

// Register creates an account for email and logs it in. Fails with
// ErrAlreadyExists if the email is taken.
func (s *Store) Register(email string) (*User, error) {
	users := s.loadUsers()
	if _, ok := users[email]; ok {
		return nil, ErrAlreadyExists
	}
	users[email] = userRecord{History: []HistoryItem{}}
	if err := s.saveUsers(users); err != nil {
		return nil, err
	}
	return s.Login(email)
}

// Login sets the current-user pointer and returns the user with their full
// history. An unknown email fails with ErrNotFound and leaves the pointer
// untouched.
func (s *Store) Login(email string) (*User, error) {
	users := s.loadUsers()
	rec, ok := users[email]
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.kv.Set(currentUserKey, email); err != nil {
		return nil, err
	}
	return &User{Email: email, History: rec.History}, nil
}

// Logout clears the current-user pointer. History is never deleted.
func (s *Store) Logout() error {
	return s.kv.Delete(currentUserKey)
}

// RestoreSession rebuilds the logged-in user from the persisted pointer.
// Returns nil (anonymous) when no pointer is set or when the pointer
// references an email that is no longer in the mapping.
func (s *Store) RestoreSession() *User {
	email, ok := s.kv.Get(currentUserKey)
	if !ok || email == "" {
		return nil
	}
	rec, ok := s.loadUsers()[email]
	if !ok {
		// Dangling pointer: treat as anonymous, do not fail.
		return nil
	}
	return &User{Email: email, History: rec.History}
}

// AppendHistory prepends a lookup to the user's history and persists the
// mapping. The entry is recorded before any external navigation happens so
// a record exists even if the user never returns. Without an active
// session for email the call is a silent no-op.
func (s *Store) AppendHistory(email string, value string, typ LookupType) (*User, error) {
	if email == "" {
		return nil, nil
	}
	current, ok := s.kv.Get(currentUserKey)
	if !ok || current != email {
		return nil, nil
	}

	users := s.loadUsers()
	rec, ok := users[email]
	if !ok {
		return nil, nil
	}

	item := HistoryItem{
		ID:        s.nextID(),
		Value:     value,
		Type:      typ,
		Timestamp: s.now().UnixMilli(),
	}
	rec.History = append([]HistoryItem{item}, rec.History...)
	users[email] = rec

	if err := s.saveUsers(users); err != nil {
		return nil, err
	}
	return &User{Email: email, History: rec.History}, nil
}

// nextID derives a history ID from the creation timestamp, nudged forward
// when two entries land in the same millisecond so IDs stay distinct and
// ordered within a run.
func (s *Store) nextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UnixMilli()
	if ts <= s.lastID {
		ts = s.lastID + 1
	}
	s.lastID = ts
	return strconv.FormatInt(ts, 10)
}

// loadUsers deserializes the mapping blob. Malformed persisted data
// degrades to an empty mapping; the app must never crash on a bad blob.
func (s *Store) loadUsers() map[string]userRecord {
	users := make(map[string]userRecord)
	raw, ok := s.kv.Get(usersKey)
	if !ok || raw == "" {
		return users
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return make(map[string]userRecord)
	}
	if users == nil {
		return make(map[string]userRecord)
	}
	return users
}

func (s *Store) saveUsers(users map[string]userRecord) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return s.kv.Set(usersKey, string(raw))
}
