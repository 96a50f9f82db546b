package outbound

// PasswordService hashes and verifies passwords with a slow adaptive scheme.
// VerifyPassword returns false for a malformed hash instead of erroring.
type PasswordService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}
