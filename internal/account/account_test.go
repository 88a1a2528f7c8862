package account

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"carbcheck/internal/kv"
)

func newTestStore() (*Store, *kv.MemStore) {
	surface := kv.NewMem()
	return NewStore(surface), surface
}

func TestRegisterThenLoginFlow(t *testing.T) {
	s, surface := newTestStore()

	user, err := s.Register("a@b.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "a@b.com" || len(user.History) != 0 {
		t.Fatalf("unexpected user after register: %+v", user)
	}

	// Register implies login: the pointer key must be set.
	if got, _ := surface.Get("current_user"); got != "a@b.com" {
		t.Fatalf("current_user = %q, want a@b.com", got)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	s, surface := newTestStore()

	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := s.Register("a@b.com")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second Register err = %v, want ErrAlreadyExists", err)
	}

	// The mapping must still have exactly one entry for that email.
	raw, _ := surface.Get("users")
	var users map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		t.Fatalf("users blob unparsable: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users mapping has %d entries, want 1", len(users))
	}
}

func TestLoginUnknownLeavesPointerUntouched(t *testing.T) {
	s, surface := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}

	_, err := s.Login("missing@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Login err = %v, want ErrNotFound", err)
	}
	if got, _ := surface.Get("current_user"); got != "a@b.com" {
		t.Fatalf("current_user = %q after failed login, want a@b.com", got)
	}
}

func TestLogoutClearsPointerOnly(t *testing.T) {
	s, surface := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendHistory("a@b.com", "1HGCM82633A004352", LookupVIN); err != nil {
		t.Fatal(err)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := surface.Get("current_user"); ok {
		t.Fatal("current_user still set after logout")
	}

	// History survives logout.
	user, err := s.Login("a@b.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(user.History) != 1 {
		t.Fatalf("history length = %d after re-login, want 1", len(user.History))
	}
}

func TestAppendHistoryAnonymousIsNoOp(t *testing.T) {
	s, surface := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.Logout(); err != nil {
		t.Fatal(err)
	}
	before, _ := surface.Get("users")

	user, err := s.AppendHistory("a@b.com", "1HGCM82633A004352", LookupVIN)
	if err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}
	if user != nil {
		t.Fatal("AppendHistory without session returned a user")
	}
	if after, _ := surface.Get("users"); after != before {
		t.Fatal("AppendHistory without session altered persisted state")
	}
}

func TestAppendHistoryRecordsCheck(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}

	user, err := s.AppendHistory("a@b.com", "1HGCM82633A004352", LookupVIN)
	if err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}
	if len(user.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(user.History))
	}
	item := user.History[0]
	if item.Type != LookupVIN {
		t.Errorf("item.Type = %q, want VIN", item.Type)
	}
	if item.Value != "1HGCM82633A004352" {
		t.Errorf("item.Value = %q", item.Value)
	}
	if item.Timestamp == 0 || item.ID == "" {
		t.Errorf("item missing timestamp or id: %+v", item)
	}
}

func TestAppendHistoryPrependsNewestFirst(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AppendHistory("a@b.com", "FIRST", LookupEntity); err != nil {
		t.Fatal(err)
	}
	user, err := s.AppendHistory("a@b.com", "SECOND", LookupTRUCRS)
	if err != nil {
		t.Fatal(err)
	}
	if user.History[0].Value != "SECOND" || user.History[1].Value != "FIRST" {
		t.Fatalf("history not newest-first: %+v", user.History)
	}
}

func TestHistoryIDsMonotonicInSameMillisecond(t *testing.T) {
	s, _ := newTestStore()
	fixed := time.UnixMilli(1700000000000)
	s.now = func() time.Time { return fixed }

	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}
	a, _ := s.AppendHistory("a@b.com", "AAA", LookupVIN)
	b, _ := s.AppendHistory("a@b.com", "BBB", LookupVIN)

	if a.History[0].ID == b.History[0].ID {
		t.Fatalf("two same-millisecond items share ID %q", a.History[0].ID)
	}
}

func TestRestoreSession(t *testing.T) {
	s, surface := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}

	if user := s.RestoreSession(); user == nil || user.Email != "a@b.com" {
		t.Fatalf("RestoreSession = %+v, want a@b.com", user)
	}

	// A pointer to a vanished account restores as anonymous.
	if err := surface.Set("current_user", "ghost@x.com"); err != nil {
		t.Fatal(err)
	}
	if user := s.RestoreSession(); user != nil {
		t.Fatalf("RestoreSession with dangling pointer = %+v, want nil", user)
	}
}

func TestCorruptUsersBlobDegradesToEmpty(t *testing.T) {
	s, surface := newTestStore()
	if err := surface.Set("users", "{{{ not json"); err != nil {
		t.Fatal(err)
	}
	if err := surface.Set("current_user", "a@b.com"); err != nil {
		t.Fatal(err)
	}

	// Restore must not fail; it sees an empty mapping and stays anonymous.
	if user := s.RestoreSession(); user != nil {
		t.Fatalf("RestoreSession over corrupt blob = %+v, want nil", user)
	}

	// Registration still works afterwards.
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatalf("Register after corruption: %v", err)
	}
}

func TestEmailsAreCaseSensitiveKeys(t *testing.T) {
	s, _ := newTestStore()
	if _, err := s.Register("a@b.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register("A@B.com"); err != nil {
		t.Fatalf("Register with different casing should create a distinct account: %v", err)
	}
}
