package providers

import "context"

// CredentialProvider hashes passwords and issues bearer tokens
type CredentialProvider interface {
	// HashPassword returns a hash suitable for storage
	HashPassword(password string) (string, error)

	// ComparePassword reports whether password matches hash
	ComparePassword(hash, password string) bool

	// IssueToken returns a signed token whose subject is userID
	IssueToken(ctx context.Context, userID string) (string, error)

	// VerifyToken returns the subject of a valid token
	VerifyToken(ctx context.Context, token string) (string, error)
}
