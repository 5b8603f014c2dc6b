package utils

import "golang.org/x/crypto/bcrypt" // Password hashing

// Hasher is the one-way password hashing capability used by logins and admin writes
type Hasher interface {
	Hash(password string) ([]byte, error)     // Salted one-way hash
	Verify(password string, hash []byte) bool // Constant-time comparison against a stored hash
}

// BcryptHasher hashes passwords with bcrypt
type BcryptHasher struct {
	Cost int // bcrypt cost, zero means bcrypt.DefaultCost
}

// NewBcryptHasher returns a hasher with the default cost
func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash hashes a plaintext password
func (h BcryptHasher) Hash(password string) ([]byte, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

// Verify compares a plaintext password with a bcrypt hash
func (h BcryptHasher) Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
