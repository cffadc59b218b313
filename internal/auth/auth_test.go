package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/campuskit/surveyhub/internal/auth"
	"github.com/campuskit/surveyhub/internal/db"

	_ "modernc.org/sqlite" // driver for "sqlite"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbh.Close() })
	if err := db.EnsureSchema(context.Background(), dbh, db.DriverSQLite); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return dbh
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := auth.NewUserStore(testDB(t))

	u, err := users.Register(ctx, "Ravi", "Ravi@X.edu", "21CS042", "student", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ravi@x.edu" {
		t.Fatalf("email not normalized: %q", u.Email)
	}

	got, err := users.Authenticate(ctx, "ravi@x.edu", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID || got.Role != "student" {
		t.Fatalf("authenticated user mismatch: %+v", got)
	}

	if _, err := users.Authenticate(ctx, "ravi@x.edu", "wrong"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := users.Authenticate(ctx, "nobody@x.edu", "hunter22"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("unknown email: got %v, want ErrBadCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := auth.NewUserStore(testDB(t))

	if _, err := users.Register(ctx, "A", "dup@x.edu", "", "staff", "password"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := users.Register(ctx, "B", "DUP@x.edu", "", "staff", "password"); !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := auth.NewAuthService("test-secret")

	tok, err := svc.IssueJWT("u-1", "ravi@x.edu", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u-1" || claims.Email != "ravi@x.edu" || claims.Role != "student" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	// A token signed with another secret must not verify.
	other := auth.NewAuthService("other-secret")
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("token verified under the wrong secret")
	}
}
