package azuredevops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiVersion = "7.1"

// Client is a minimal Azure DevOps REST client scoped to one organization
// and authenticated with a user's OAuth bearer token.
type Client struct {
	orgURL     string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given organization URL
// (https://dev.azure.com/{org} or https://{org}.visualstudio.com).
func NewClient(orgURL, token string) *Client {
	return &Client{
		orgURL:     strings.TrimRight(orgURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// projectURL builds {org}/{project}/_apis/{path}; project may be empty.
func (c *Client) projectURL(project, path string) string {
	if project == "" {
		return fmt.Sprintf("%s/_apis/%s", c.orgURL, path)
	}
	return fmt.Sprintf("%s/%s/_apis/%s", c.orgURL, url.PathEscape(project), path)
}

// do issues a JSON request and decodes the JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	contentType := "application/json"
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	return c.doRaw(ctx, method, rawURL, contentType, reader, out)
}

// doPatch issues a JSON Patch request (work item field updates).
func (c *Client) doPatch(ctx context.Context, rawURL string, ops []patchOperation, out any) error {
	buf, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to marshal patch document: %w", err)
	}
	return c.doRaw(ctx, http.MethodPatch, rawURL, "application/json-patch+json", bytes.NewReader(buf), out)
}

func (c *Client) doRaw(ctx context.Context, method, rawURL, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("azure devops API error %d on %s %s: %s", resp.StatusCode, method, rawURL, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getText fetches a text resource (blob content) as a string.
func (c *Client) getText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("azure devops API error %d on GET %s", resp.StatusCode, rawURL)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(raw), nil
}
