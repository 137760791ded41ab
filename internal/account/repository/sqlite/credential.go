package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pr-rca-service/internal/model"
)

var errCredentialNotFound = errors.New("credential not found")

// GetCredential loads and decrypts a user's token pair.
func (s *Store) GetCredential(ctx context.Context, userID string) (model.Credential, error) {
	var access, refresh string
	var expiresAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token, expires_at FROM credentials WHERE user_id = ?`, userID).
		Scan(&access, &refresh, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, errCredentialNotFound
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}

	cred := model.Credential{UserID: userID, ExpiresAt: time.Unix(expiresAt, 0)}
	if cred.AccessToken, err = s.enc.Decrypt(access); err != nil {
		return model.Credential{}, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	if cred.RefreshToken, err = s.enc.Decrypt(refresh); err != nil {
		return model.Credential{}, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return cred, nil
}

// PutCredential encrypts and upserts a user's token pair.
func (s *Store) PutCredential(ctx context.Context, cred model.Credential) error {
	access, err := s.enc.Encrypt(cred.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refresh, err := s.enc.Encrypt(cred.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, access_token, refresh_token, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token, refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at`,
		cred.UserID, access, refresh, cred.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}
