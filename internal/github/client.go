// Package github fetches public repositories of a GitHub user.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/cache"
)

const defaultAPIURL = "https://api.github.com"

var ErrNotFound = xerrors.Message("No Github profile found")

// Client is a minimal GitHub REST client. Repository listings are returned
// verbatim as received from the API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	cache        cache.Cache
	cacheTTL     time.Duration
	log          *slog.Logger
}

type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Cache        cache.Cache
	CacheTTL     time.Duration
	Timeout      time.Duration
}

func NewClient(opts Options, log *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultAPIURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	return &Client{
		baseURL:      opts.BaseURL,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		httpClient:   &http.Client{Timeout: opts.Timeout},
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		log:          log,
	}
}

// Repos returns the five oldest repositories of username.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	key := "github:repos:" + username
	if cached, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("github cache read failed", slog.String("username", username), slog.String("error", err.Error()))
	} else if ok {
		return cached, nil
	}

	body, err := c.fetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		c.log.Warn("github cache write failed", slog.String("username", username), slog.String("error", err.Error()))
	}
	return body, nil
}

func (c *Client) fetchRepos(ctx context.Context, username string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("per_page", "5")
	query.Set("sort", "created:asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, xerrors.New(err)
	}
	req.Header.Set("user-agent", "node.js")
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.clientID != "" {
		req.SetBasicAuth(c.clientID, c.clientSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.Newf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, xerrors.New(ErrNotFound)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, xerrors.Newf("read github response: %w", err)
	}
	if !json.Valid(body) {
		return nil, xerrors.Newf("github returned malformed json")
	}
	return body, nil
}
