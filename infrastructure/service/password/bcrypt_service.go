package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptService hashes passwords with bcrypt. The output embeds salt and cost
// factor, so verification needs no side channel.
type BcryptService struct {
	cost int
}

func NewBcryptService(cost int) *BcryptService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptService{cost: cost}
}

func (s *BcryptService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash is
// treated as a mismatch, never as an error.
func (s *BcryptService) VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
