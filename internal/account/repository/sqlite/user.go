package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pr-rca-service/internal/account"
	"pr-rca-service/internal/model"
)

func (s *Store) SaveUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, is_active) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, name = excluded.name, is_active = excluded.is_active`,
		user.ID, user.Email, user.Name, boolToInt(user.IsActive))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, is_active FROM users WHERE id = ?`, userID).
		Scan(&user.ID, &user.Email, &user.Name, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, account.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	user.IsActive = active != 0
	return user, nil
}

func (s *Store) SetUserActive(ctx context.Context, userID string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_active = ? WHERE id = ?`, boolToInt(active), userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.ErrUserNotFound
	}
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, userID string) (model.Subscription, error) {
	var sub model.Subscription
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, plan_id, status FROM subscriptions WHERE user_id = ?`, userID).
		Scan(&sub.UserID, &sub.PlanID, &sub.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subscription{}, account.ErrUserNotFound
	}
	if err != nil {
		return model.Subscription{}, fmt.Errorf("failed to load subscription: %w", err)
	}
	return sub, nil
}

func (s *Store) SaveSubscription(ctx context.Context, sub model.Subscription) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, plan_id, status) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET plan_id = excluded.plan_id, status = excluded.status`,
		sub.UserID, sub.PlanID, sub.Status)
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
