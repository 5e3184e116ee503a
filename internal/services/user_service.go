// Package services – UserService
//
// Account management: signup with bcrypt hashing, credential verification for
// login, profile updates with conditional re-hash, soft deletion, and the
// admin-style listing endpoint. Token issuance lives in the handler layer so
// this service never sees the signing secret.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/careermate/go-career-backend/internal/auth"
	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/repo"
)

// UserService provides account operations backed by the users table.
type UserService struct {
	DB *gorm.DB
}

// Signup creates an account with a bcrypt-hashed password. Duplicate emails
// or usernames surface as ErrEmailTaken.
func (s *UserService) Signup(ctx context.Context, username, email, password, mobile string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Signup",
		trace.WithAttributes(attribute.String("user.email_domain", emailDomain(email))),
	)
	defer span.End()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := repo.CreateUser(ctx, s.DB, strings.TrimSpace(username), normalizeEmail(email), hash, strings.TrimSpace(mobile))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the email/password pair and returns the matching user.
// Unknown emails yield ErrUserNotFound; a wrong password yields
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Login",
		trace.WithAttributes(attribute.String("user.email_domain", emailDomain(email))),
	)
	defer span.End()

	u, err := repo.GetUserByEmail(ctx, s.DB, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get fetches an account by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ProfileUpdate carries the optional fields of an account update. Nil fields
// are left untouched; a non-nil Password is re-hashed before storage.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Mobile   *string
	Password *string
}

// Update applies a partial profile update to the account.
func (s *UserService) Update(ctx context.Context, id string, upd ProfileUpdate) error {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	updates := map[string]any{}
	if upd.Username != nil {
		updates["username"] = strings.TrimSpace(*upd.Username)
	}
	if upd.Email != nil {
		updates["email"] = normalizeEmail(*upd.Email)
	}
	if upd.Mobile != nil {
		if m := strings.TrimSpace(*upd.Mobile); m != "" {
			updates["mobile_number"] = m
		} else {
			// Clearing the number stores NULL, keeping the unique index clean.
			updates["mobile_number"] = nil
		}
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return err
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return nil
	}
	if err := repo.UpdateUser(ctx, s.DB, id, updates); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Delete soft-deletes the account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteUser(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// List returns every live account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return repo.ListUsers(ctx, s.DB)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailDomain extracts the part after '@' for low-cardinality span attributes.
func emailDomain(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		return email[at+1:]
	}
	return ""
}

// isUniqueViolation matches both gorm's translated error and the raw sqlite
// constraint message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
