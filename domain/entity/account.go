package entity

import (
	"fmt"
	"time"
)

// AccountKind discriminates the two account variants. Fixed at registration.
type AccountKind string

const (
	AccountKindIndividual   AccountKind = "individual"
	AccountKindOrganization AccountKind = "organization"
)

func (k AccountKind) Valid() bool {
	return k == AccountKindIndividual || k == AccountKindOrganization
}

// ParseAccountKind validates a kind read from storage or a token claim.
func ParseAccountKind(s string) (AccountKind, error) {
	kind := AccountKind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown account kind: %q", s)
	}
	return kind, nil
}

type Account struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Kind         AccountKind `json:"kind"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewAccount builds an account pending insertion; ID is assigned by the store.
func NewAccount(email, passwordHash string, kind AccountKind) *Account {
	return &Account{
		Email:        email,
		PasswordHash: passwordHash,
		Kind:         kind,
		CreatedAt:    time.Now().UTC(),
	}
}
