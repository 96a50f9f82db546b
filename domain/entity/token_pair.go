package entity

import "time"

// TokenPair is the single persisted (access, refresh) record per account.
// It always reflects the most recently issued pair; earlier tokens are
// implicitly superseded rather than tracked.
type TokenPair struct {
	AccountID    int64     `json:"account_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewTokenPair(accountID int64, accessToken, refreshToken string) *TokenPair {
	return &TokenPair{
		AccountID:    accountID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UpdatedAt:    time.Now().UTC(),
	}
}
