// Package auth holds the user directory: account creation with hashed
// passwords and credential checks for sign-in.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// maxBcryptInput is the most bcrypt will hash; longer input is an error.
const maxBcryptInput = 72

// Directory creates and verifies accounts.
type Directory struct {
	Users repo.UserStore
	Cost  int

	// dummyHash is compared against when the username is unknown so that
	// both failure paths spend the same bcrypt time.
	dummyHash []byte
}

// NewDirectory returns a Directory hashing with cost (bcrypt.DefaultCost when 0).
func NewDirectory(users repo.UserStore, cost int) *Directory {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &Directory{Users: users, Cost: cost, dummyHash: dummy}
}

// Register hashes password and stores a new user. It returns
// repo.ErrUsernameTaken when the username exists.
func (d *Directory) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), d.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return d.Users.Create(ctx, username, string(hash))
}

// Authenticate returns the user when password matches.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := d.Users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(d.dummyHash, bcryptInput(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), bcryptInput(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// bcryptInput returns password as bcrypt input. Passwords past the bcrypt
// limit are replaced by their SHA-256 digest so every byte still counts.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}
