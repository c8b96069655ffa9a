package repo

import "context"

// TokenRepo persists the OAuth token blob for the calendar collaborator
type TokenRepo interface {
	// Save stores the serialized token, replacing any previous one
	Save(ctx context.Context, blob []byte) error

	// Load returns the stored token, or nil if none exists
	Load(ctx context.Context) ([]byte, error)

	// Delete drops the stored token
	Delete(ctx context.Context) error
}
