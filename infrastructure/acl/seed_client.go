// Package acl translates the remote placeholder API into internal records.
package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/SanjayNarukulla/swift-backend/domain/core/entities"

	"go.uber.org/zap"
)

// SeedClient fetches users, posts and comments from a jsonplaceholder-style
// API. Unknown fields in the remote records are dropped on decode.
type SeedClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSeedClient creates a client rooted at baseURL. A nil httpClient uses a
// plain client whose requests are bounded only by their context.
func NewSeedClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *SeedClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &SeedClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchUsers returns every remote user
func (c *SeedClient) FetchUsers(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := c.fetch(ctx, "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchPosts returns every remote post
func (c *SeedClient) FetchPosts(ctx context.Context) ([]entities.Post, error) {
	var posts []entities.Post
	if err := c.fetch(ctx, "posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FetchComments returns every remote comment
func (c *SeedClient) FetchComments(ctx context.Context) ([]entities.Comment, error) {
	var comments []entities.Comment
	if err := c.fetch(ctx, "comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *SeedClient) fetch(ctx context.Context, resource string, out any) error {
	url := c.baseURL + "/" + resource

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: unexpected status %d", resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}

	c.logger.Debug("Fetched seed resource", zap.String("resource", resource), zap.String("url", url))
	return nil
}
