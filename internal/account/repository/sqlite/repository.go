package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pr-rca-service/internal/account"
	"pr-rca-service/internal/model"
)

func (s *Store) SaveRepository(ctx context.Context, link model.RepositoryLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO repositories (id, user_id, name, org_url, project, webhook_id) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id, name = excluded.name, org_url = excluded.org_url,
			project = excluded.project, webhook_id = excluded.webhook_id`,
		link.ID, link.UserID, link.Name, link.OrgURL, link.Project, link.WebhookID)
	if err != nil {
		return fmt.Errorf("failed to save repository link: %w", err)
	}
	return nil
}

func (s *Store) GetRepository(ctx context.Context, repoID string) (model.RepositoryLink, error) {
	var link model.RepositoryLink
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, org_url, project, webhook_id FROM repositories WHERE id = ?`, repoID).
		Scan(&link.ID, &link.UserID, &link.Name, &link.OrgURL, &link.Project, &link.WebhookID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RepositoryLink{}, account.ErrRepositoryNotFound
	}
	if err != nil {
		return model.RepositoryLink{}, fmt.Errorf("failed to load repository link: %w", err)
	}
	return link, nil
}

func (s *Store) ListRepositories(ctx context.Context, userID string) ([]model.RepositoryLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, org_url, project, webhook_id FROM repositories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository links: %w", err)
	}
	defer rows.Close()

	var links []model.RepositoryLink
	for rows.Next() {
		var link model.RepositoryLink
		if err := rows.Scan(&link.ID, &link.UserID, &link.Name, &link.OrgURL, &link.Project, &link.WebhookID); err != nil {
			return nil, fmt.Errorf("failed to scan repository link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *Store) CountRepositories(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM repositories WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count repository links: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteRepository(ctx context.Context, repoID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM repositories WHERE id = ?`, repoID)
	if err != nil {
		return fmt.Errorf("failed to delete repository link: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.ErrRepositoryNotFound
	}
	return nil
}
