// Package user defines the user domain entity
package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmailTooLong     = errors.New("email too long")
	ErrNameTooLong      = errors.New("full name too long")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordMismatch = errors.New("password does not match")
	errPasswordHashing  = errors.New("failed to hash password")
)

// hashCost is lowered by tests
var hashCost = bcrypt.DefaultCost

// User is an account of the built-in identity provider
type User struct {
	id           uuid.UUID
	email        string
	fullName     string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

// Snapshot is the persisted state of a user
type Snapshot struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// NewUser creates a new user with validation. The full name is optional.
func NewUser(email, fullName, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if len(fullName) > 100 {
		return nil, ErrNameTooLong
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, errPasswordHashing
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		email:        email,
		fullName:     fullName,
		passwordHash: string(hashedPassword),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Restore rebuilds a user from storage
func Restore(s Snapshot) *User {
	return &User{
		id:           s.ID,
		email:        s.Email,
		fullName:     s.FullName,
		passwordHash: s.PasswordHash,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		lastLoginAt:  s.LastLoginAt,
	}
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// FullName returns the display name given at sign-up
func (u *User) FullName() string {
	return u.fullName
}

// PasswordHash returns the bcrypt hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// LastLoginAt returns when the user last signed in
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// RecordLogin records a login timestamp
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.updatedAt = now
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	if len(email) > 255 {
		return ErrEmailTooLong
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}
