package services

import (
	"testing"
	"time"

	"github.com/toanvet/farmaudit/internal/models"
)

type stubAuthStore struct {
	users map[string]*models.User
}

func newStubAuthStore() *stubAuthStore {
	return &stubAuthStore{users: map[string]*models.User{}}
}

func (s *stubAuthStore) FindUserByEmail(email string) (*models.User, error) {
	return s.users[email], nil
}

func (s *stubAuthStore) AddUser(u *models.User) error {
	s.users[u.Email] = u
	return nil
}

func staticSigner(uid, email string, ttl time.Duration) (string, error) {
	return "tok:" + uid + ":" + email, nil
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := newStubAuthStore()
	svc := NewAuthService(store, staticSigner)

	res, err := svc.Register("vet@toanvet.vn", "secret12", "Dr. Lan")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" || res.UserID == "" {
		t.Fatalf("empty auth result: %+v", res)
	}
	if res.Name != "Dr. Lan" {
		t.Fatalf("name = %q", res.Name)
	}
	u := store.users["vet@toanvet.vn"]
	if u == nil {
		t.Fatal("user not persisted")
	}
	if string(u.PassHash) == "secret12" {
		t.Fatal("password stored in clear")
	}

	got, err := svc.Login("vet@toanvet.vn", "secret12")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.UserID != res.UserID {
		t.Fatalf("login uid = %q, want %q", got.UserID, res.UserID)
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubAuthStore(), staticSigner)
	if _, err := svc.Register("a@b.c", "pw123456", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register("a@b.c", "other123", "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := NewAuthService(newStubAuthStore(), staticSigner)
	if _, err := svc.Register("a@b.c", "pw123456", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, tc := range []struct{ email, pw string }{
		{"a@b.c", "wrong"},
		{"nobody@b.c", "pw123456"},
	} {
		_, err := svc.Login(tc.email, tc.pw)
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorUnauthorized {
			t.Fatalf("login(%q,%q) err = %v, want unauthorized", tc.email, tc.pw, err)
		}
	}
}

func TestAuthValidation(t *testing.T) {
	svc := NewAuthService(newStubAuthStore(), staticSigner)
	for _, tc := range []struct{ email, pw string }{
		{"", "pw"},
		{"a@b.c", ""},
		{"  ", "pw"},
	} {
		if _, err := svc.Register(tc.email, tc.pw, ""); err == nil {
			t.Fatalf("register(%q,%q) accepted", tc.email, tc.pw)
		}
		if _, err := svc.Login(tc.email, tc.pw); err == nil {
			t.Fatalf("login(%q,%q) accepted", tc.email, tc.pw)
		}
	}
}
