package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pr-rca-service/internal/model"
)

// GetSettings loads a user's settings. A user without a settings row gets
// the zero value, which disables every optional behaviour.
func (s *Store) GetSettings(ctx context.Context, userID string) (model.UserSettings, error) {
	var settings model.UserSettings
	var deep, send, auto int
	var emails string

	err := s.db.QueryRowContext(ctx, `
		SELECT ai_model, deep_thinking, send_emails, auto_detect_developer, notification_emails
		FROM settings WHERE user_id = ?`, userID).
		Scan(&settings.AIModel, &deep, &send, &auto, &emails)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserSettings{}, nil
	}
	if err != nil {
		return model.UserSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings.DeepThinking = deep != 0
	settings.SendEmails = send != 0
	settings.AutoDetectDeveloper = auto != 0
	if err := json.Unmarshal([]byte(emails), &settings.NotificationEmails); err != nil {
		s.l.Warnf(ctx, "sqlite: corrupt notification emails for user %s: %v", userID, err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, userID string, settings model.UserSettings) error {
	emails, err := json.Marshal(settings.NotificationEmails)
	if err != nil {
		return fmt.Errorf("failed to encode notification emails: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, ai_model, deep_thinking, send_emails, auto_detect_developer, notification_emails)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			ai_model = excluded.ai_model, deep_thinking = excluded.deep_thinking,
			send_emails = excluded.send_emails, auto_detect_developer = excluded.auto_detect_developer,
			notification_emails = excluded.notification_emails`,
		userID, settings.AIModel, boolToInt(settings.DeepThinking), boolToInt(settings.SendEmails),
		boolToInt(settings.AutoDetectDeveloper), string(emails))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
