// Package services holds the business logic for accounts, chat and feedback
// conversations, and the periodic expiry sweep. This file centralizes the
// service-level error values so handlers can map them to HTTP statuses in one
// place.
package services

import "errors"

var (
	// ErrConversationNotFound indicates the requested session or feedback
	// thread does not exist or has expired.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEmptyMessage is returned when a chat request carries neither text
	// nor a file attachment.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrInvalidCategory is returned when a feedback classification is
	// outside the allowed set.
	ErrInvalidCategory = errors.New("invalid feedback category")

	// ErrUserNotFound indicates no account matches the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on login when the password does not
	// match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned on signup when the email or username is
	// already registered.
	ErrEmailTaken = errors.New("account already exists")
)
