// Package client is the terminal counterpart of the web API: an HTTP client,
// dispatchers that turn API outcomes into actions, pure reducers and the
// store holding the resulting state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/validator"
	"github.com/siahsang/devconnector/models"
)

const tokenHeader = "x-auth-token"

// APIError is a non-2xx answer of the server.
type APIError struct {
	Status int
	Msg    string
	Errors []validator.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, strings.Join(e.Messages(), "; "))
}

// Messages lists what should be shown to the user, one entry per failure.
func (e *APIError) Messages() []string {
	if len(e.Errors) == 0 {
		return []string{e.Msg}
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Msg
	}
	return msgs
}

type GitHubRepo struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
}

type RegisterForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileForm struct {
	Company        string `json:"company,omitempty"`
	Website        string `json:"website,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Status         string `json:"status"`
	GitHubUsername string `json:"githubusername,omitempty"`
	Skills         string `json:"skills"`
	YouTube        string `json:"youtube,omitempty"`
	Twitter        string `json:"twitter,omitempty"`
	Facebook       string `json:"facebook,omitempty"`
	LinkedIn       string `json:"linkedin,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
}

type ExperienceForm struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type EducationForm struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

type API struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the token sent on every following request. An empty token
// removes the header.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *API) Register(ctx context.Context, form RegisterForm) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/users", form, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/auth", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (a *API) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.do(ctx, http.MethodGet, "/api/auth", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) CurrentProfile(ctx context.Context) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodGet, "/api/profile/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) Profiles(ctx context.Context) ([]*models.ProfileView, error) {
	var profiles []*models.ProfileView
	if err := a.do(ctx, http.MethodGet, "/api/profile", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (a *API) ProfileByUser(ctx context.Context, userID string) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodGet, "/api/profile/user/"+userID, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) GitHubRepos(ctx context.Context, username string) ([]GitHubRepo, error) {
	var repos []GitHubRepo
	if err := a.do(ctx, http.MethodGet, "/api/profile/github/"+username, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (a *API) SaveProfile(ctx context.Context, form ProfileForm) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodPost, "/api/profile", form, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) AddExperience(ctx context.Context, form ExperienceForm) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodPut, "/api/profile/experience", form, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) DeleteExperience(ctx context.Context, id string) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodDelete, "/api/profile/experience/"+id, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) AddEducation(ctx context.Context, form EducationForm) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodPut, "/api/profile/education", form, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) DeleteEducation(ctx context.Context, id string) (*models.ProfileView, error) {
	var profile models.ProfileView
	if err := a.do(ctx, http.MethodDelete, "/api/profile/education/"+id, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (a *API) DeleteAccount(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}

func (a *API) Posts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := a.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (a *API) Post(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := a.do(ctx, http.MethodGet, "/api/posts/"+id, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (a *API) AddPost(ctx context.Context, text string) (*models.Post, error) {
	var post models.Post
	if err := a.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (a *API) DeletePost(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/posts/"+id, nil, nil)
}

func (a *API) Like(ctx context.Context, postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := a.do(ctx, http.MethodPut, "/api/posts/like/"+postID, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (a *API) Unlike(ctx context.Context, postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := a.do(ctx, http.MethodPut, "/api/posts/unlike/"+postID, nil, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

func (a *API) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := a.do(ctx, http.MethodPost, "/api/posts/comment/"+postID, map[string]string{"text": text}, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (a *API) DeleteComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := a.do(ctx, http.MethodDelete, "/api/posts/comment/"+postID+"/"+commentID, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (a *API) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return xerrors.Newf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return xerrors.Newf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.Token(); token != "" {
		req.Header.Set(tokenHeader, token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return xerrors.Newf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return xerrors.Newf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Msg    string                 `json:"msg"`
			Errors []validator.FieldError `json:"errors"`
		}
		if json.Unmarshal(respBody, &payload) == nil {
			apiErr.Msg = payload.Msg
			apiErr.Errors = payload.Errors
		}
		if apiErr.Msg == "" && len(apiErr.Errors) == 0 {
			apiErr.Msg = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return xerrors.Newf("decode response: %w", err)
		}
	}
	return nil
}
