package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pr-rca-service/internal/account"
	"pr-rca-service/internal/model"
)

func (uc *implUsecase) RegisterUser(ctx context.Context, input account.RegisterUserInput) (model.User, error) {
	email := strings.TrimSpace(input.Email)
	if !strings.Contains(email, "@") {
		return model.User{}, account.ErrEmailRequired
	}

	user := model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     strings.TrimSpace(input.Name),
		IsActive: true,
	}
	if err := uc.repo.SaveUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	sub := model.Subscription{UserID: user.ID, PlanID: defaultPlan, Status: "active"}
	if err := uc.repo.SaveSubscription(ctx, sub); err != nil {
		return model.User{}, fmt.Errorf("failed to save subscription: %w", err)
	}

	// New accounts start with email notifications on and the recipient
	// list empty; the PR author fallback covers the common case.
	settings := model.UserSettings{SendEmails: true, AutoDetectDeveloper: true}
	if err := uc.repo.SaveSettings(ctx, user.ID, settings); err != nil {
		return model.User{}, fmt.Errorf("failed to save settings: %w", err)
	}

	uc.l.Infof(ctx, "account: registered user %s", user.ID)
	return user, nil
}

func (uc *implUsecase) SetServiceEnabled(ctx context.Context, userID string, enabled bool) error {
	if _, err := uc.repo.GetUser(ctx, userID); err != nil {
		return account.ErrUserNotFound
	}
	if err := uc.repo.SetUserActive(ctx, userID, enabled); err != nil {
		return fmt.Errorf("failed to update service flag: %w", err)
	}
	uc.l.Infof(ctx, "account: service enabled=%t for user %s", enabled, userID)
	return nil
}

func (uc *implUsecase) StoreCredential(ctx context.Context, input account.StoreCredentialInput) error {
	if _, err := uc.repo.GetUser(ctx, input.UserID); err != nil {
		return account.ErrUserNotFound
	}

	cred := model.Credential{
		UserID:       input.UserID,
		AccessToken:  input.AccessToken,
		RefreshToken: input.RefreshToken,
		ExpiresAt:    input.ExpiresAt,
	}
	if err := uc.repo.PutCredential(ctx, cred); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (uc *implUsecase) GetSettings(ctx context.Context, userID string) (model.UserSettings, error) {
	if _, err := uc.repo.GetUser(ctx, userID); err != nil {
		return model.UserSettings{}, account.ErrUserNotFound
	}
	return uc.repo.GetSettings(ctx, userID)
}

func (uc *implUsecase) UpdateSettings(ctx context.Context, userID string, settings model.UserSettings) error {
	if _, err := uc.repo.GetUser(ctx, userID); err != nil {
		return account.ErrUserNotFound
	}

	valid := settings.NotificationEmails[:0:0]
	for _, addr := range settings.NotificationEmails {
		addr = strings.TrimSpace(addr)
		if strings.Contains(addr, "@") {
			valid = append(valid, addr)
		}
	}
	settings.NotificationEmails = valid

	if err := uc.repo.SaveSettings(ctx, userID, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
