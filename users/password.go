package users

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher turns plain passwords into salted one-way hashes and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher implements Hasher with bcrypt. The comparison inside
// bcrypt.CompareHashAndPassword is constant time.
type BcryptHasher struct {
	Cost int
}

var _ Hasher = BcryptHasher{}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify never fails on a malformed hash, it just reports a mismatch.
func (h BcryptHasher) Verify(password, hash string) bool {
	return CheckPasswordHash(password, hash)
}

func HashPassword(password string) (string, error) {
	return BcryptHasher{}.Hash(password)
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
