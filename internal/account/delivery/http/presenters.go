package http

import (
	"errors"
	"time"

	"pr-rca-service/internal/account"
	"pr-rca-service/internal/model"
)

type registerUserReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (r registerUserReq) validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

func (r registerUserReq) toInput() account.RegisterUserInput {
	return account.RegisterUserInput{Email: r.Email, Name: r.Name}
}

type userResp struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func newUserResp(u model.User) userResp {
	return userResp{ID: u.ID, Email: u.Email, Name: u.Name, IsActive: u.IsActive}
}

type storeCredentialReq struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

func (r storeCredentialReq) validate() error {
	if r.AccessToken == "" || r.RefreshToken == "" {
		return errors.New("access_token and refresh_token are required")
	}
	if r.ExpiresIn <= 0 {
		return errors.New("expires_in must be positive")
	}
	return nil
}

func (r storeCredentialReq) toInput(userID string) account.StoreCredentialInput {
	return account.StoreCredentialInput{
		UserID:       userID,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(r.ExpiresIn) * time.Second),
	}
}

type serviceFlagReq struct {
	Enabled *bool `json:"enabled"`
}

func (r serviceFlagReq) validate() error {
	if r.Enabled == nil {
		return errors.New("enabled is required")
	}
	return nil
}

type settingsReq struct {
	AIModel             string   `json:"ai_model"`
	DeepThinking        bool     `json:"deep_thinking"`
	SendEmails          bool     `json:"send_emails"`
	AutoDetectDeveloper bool     `json:"auto_detect_developer"`
	NotificationEmails  []string `json:"notification_emails"`
}

func (r settingsReq) toModel() model.UserSettings {
	return model.UserSettings{
		AIModel:             r.AIModel,
		DeepThinking:        r.DeepThinking,
		SendEmails:          r.SendEmails,
		AutoDetectDeveloper: r.AutoDetectDeveloper,
		NotificationEmails:  r.NotificationEmails,
	}
}

type settingsResp struct {
	AIModel             string   `json:"ai_model"`
	DeepThinking        bool     `json:"deep_thinking"`
	SendEmails          bool     `json:"send_emails"`
	AutoDetectDeveloper bool     `json:"auto_detect_developer"`
	NotificationEmails  []string `json:"notification_emails"`
}

func newSettingsResp(s model.UserSettings) settingsResp {
	return settingsResp{
		AIModel:             s.AIModel,
		DeepThinking:        s.DeepThinking,
		SendEmails:          s.SendEmails,
		AutoDetectDeveloper: s.AutoDetectDeveloper,
		NotificationEmails:  s.NotificationEmails,
	}
}

type connectRepositoryReq struct {
	RepoID  string `json:"repo_id"`
	Name    string `json:"name"`
	Project string `json:"project"`
	RepoURL string `json:"repo_url"`
}

func (r connectRepositoryReq) validate() error {
	if r.RepoID == "" || r.Project == "" || r.RepoURL == "" {
		return errors.New("repo_id, project and repo_url are required")
	}
	return nil
}

func (r connectRepositoryReq) toInput(userID string) account.ConnectRepositoryInput {
	return account.ConnectRepositoryInput{
		UserID:  userID,
		RepoID:  r.RepoID,
		Name:    r.Name,
		Project: r.Project,
		RepoURL: r.RepoURL,
	}
}

type repositoryResp struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OrgURL    string `json:"org_url"`
	Project   string `json:"project"`
	WebhookID string `json:"webhook_id,omitempty"`
}

func newRepositoryResp(link model.RepositoryLink) repositoryResp {
	return repositoryResp{
		ID:        link.ID,
		Name:      link.Name,
		OrgURL:    link.OrgURL,
		Project:   link.Project,
		WebhookID: link.WebhookID,
	}
}

type listRepositoriesResp struct {
	Items []repositoryResp `json:"items"`
}

func newListRepositoriesResp(links []model.RepositoryLink) listRepositoriesResp {
	items := make([]repositoryResp, 0, len(links))
	for _, link := range links {
		items = append(items, newRepositoryResp(link))
	}
	return listRepositoriesResp{Items: items}
}
