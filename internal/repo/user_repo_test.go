package repo

import (
	"context"
	"errors"
	"testing"
)

func TestCreateAndGetUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "alice", "alice@example.com", "$2a$10$hash", "5551234")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := GetUser(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.MobileNumber == nil || *got.MobileNumber != "5551234" {
		t.Fatalf("mobile = %v, want 5551234", got.MobileNumber)
	}

	byEmail, err := GetUserByEmail(ctx, db, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Fatalf("lookup mismatch: %q vs %q", byEmail.ID, u.ID)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "a", "dup@example.com", "h", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateUser(ctx, db, "b", "dup@example.com", "h", ""); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestCreateUser_EmptyMobilesDoNotCollide(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u1, err := CreateUser(ctx, db, "a", "a@example.com", "h", "")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if u1.MobileNumber != nil {
		t.Fatalf("mobile = %v, want nil", u1.MobileNumber)
	}
	// A second number-less account must not trip the unique index.
	if _, err := CreateUser(ctx, db, "b", "b@example.com", "h", ""); err != nil {
		t.Fatalf("second create: %v", err)
	}

	if _, err := CreateUser(ctx, db, "c", "c@example.com", "h", "5550000"); err != nil {
		t.Fatalf("create with mobile: %v", err)
	}
	if _, err := CreateUser(ctx, db, "d", "d@example.com", "h", "5550000"); err == nil {
		t.Fatal("expected unique violation for duplicate mobile")
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := GetUser(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := GetUserByEmail(ctx, db, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "bob", "bob@example.com", "h", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := UpdateUser(ctx, db, u.ID, map[string]any{"username": "robert", "mobile_number": "999"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := GetUser(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "robert" || got.MobileNumber == nil || *got.MobileNumber != "999" {
		t.Fatalf("update lost: %+v", got)
	}

	if err := UpdateUser(ctx, db, "missing", map[string]any{"username": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteUser_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "carol", "carol@example.com", "h", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := DeleteUser(ctx, db, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetUser(ctx, db, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted user still visible: %v", err)
	}

	users, err := ListUsers(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("list leaked soft-deleted rows: %+v", users)
	}

	if err := DeleteUser(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
