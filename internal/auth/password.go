package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password mismatch")

// PasswordVerifier hashes new passwords and checks login attempts against
// stored hashes.
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

type Bcrypt struct {
	Cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{Cost: cost}
}

// prehash keeps bcrypt input at 44 bytes, below its 72 byte limit, so
// passwords of any length are accepted and every byte counts.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify returns ErrMismatch when password does not match hash.
func (b *Bcrypt) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
