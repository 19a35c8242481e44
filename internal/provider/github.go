package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/mveraz/citypulse/internal/model"
)

const githubBaseURL = "https://api.github.com"

// GitHubClient wraps the GitHub search and users APIs.
//
// A personal access token is optional: the search endpoints answer
// unauthenticated calls at a lower rate limit. When a token is configured we
// authenticate through oauth2.StaticTokenSource, which yields an *http.Client
// that attaches the bearer header to every request.
type GitHubClient struct {
	baseURL string
	http    *http.Client
}

// NewGitHubClient creates a GitHubClient, authenticated when token != "".
func NewGitHubClient(token string) *GitHubClient {
	client := newHTTPClient()
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = oauth2.NewClient(context.Background(), src)
		client.Timeout = requestTimeout
	}
	return &GitHubClient{
		baseURL: githubBaseURL,
		http:    client,
	}
}

type githubUser struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
	Location    string `json:"location"`
	HTMLURL     string `json:"html_url"`
}

func (u githubUser) toModel() model.Developer {
	return model.Developer{
		ID:          u.ID,
		Login:       u.Login,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Followers:   u.Followers,
		PublicRepos: u.PublicRepos,
		Location:    u.Location,
		ProfileURL:  u.HTMLURL,
	}
}

// SearchUsersByLocation finds developers whose profile location matches.
//
// The search endpoint only returns login and avatar, so each hit is hydrated
// with a follow-up /users/{login} call. perPage is capped well below the
// API maximum precisely because of that fan-out.
func (c *GitHubClient) SearchUsersByLocation(ctx context.Context, location string, page, perPage int) (*model.DeveloperSearch, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}
	if perPage > 30 {
		perPage = 30
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("location:%q type:user", location))
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("sort", "followers")

	var raw struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			Login string `json:"login"`
		} `json:"items"`
	}
	if err := getJSON(ctx, c.http, "github", c.baseURL+"/search/users?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	result := &model.DeveloperSearch{
		TotalCount: raw.TotalCount,
		Users:      make([]model.Developer, 0, len(raw.Items)),
	}
	for _, item := range raw.Items {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A single hit failing to hydrate should not sink the whole page.
		user, err := c.User(ctx, item.Login)
		if err != nil {
			continue
		}
		result.Users = append(result.Users, *user)
	}

	return result, nil
}

// SearchReposByLocation finds repositories matching a location keyword,
// most-starred first.
func (c *GitHubClient) SearchReposByLocation(ctx context.Context, location string, page, perPage int) (*model.RepoSearch, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 30 {
		perPage = 30
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("page", fmt.Sprint(page))
	q.Set("per_page", fmt.Sprint(perPage))
	q.Set("sort", "stars")
	q.Set("order", "desc")

	var raw struct {
		TotalCount int `json:"total_count"`
		Items      []struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			FullName    string `json:"full_name"`
			Description string `json:"description"`
			Language    string `json:"language"`
			Stars       int    `json:"stargazers_count"`
			Forks       int    `json:"forks_count"`
			HTMLURL     string `json:"html_url"`
		} `json:"items"`
	}
	if err := getJSON(ctx, c.http, "github", c.baseURL+"/search/repositories?"+q.Encode(), &raw); err != nil {
		return nil, err
	}

	result := &model.RepoSearch{
		TotalCount: raw.TotalCount,
		Repos:      make([]model.Repo, 0, len(raw.Items)),
	}
	for _, item := range raw.Items {
		result.Repos = append(result.Repos, model.Repo{
			ID:          item.ID,
			Name:        item.Name,
			FullName:    item.FullName,
			Description: item.Description,
			Language:    item.Language,
			Stars:       item.Stars,
			Forks:       item.Forks,
			URL:         item.HTMLURL,
		})
	}

	return result, nil
}

// User fetches a single developer profile by login.
func (c *GitHubClient) User(ctx context.Context, login string) (*model.Developer, error) {
	var raw githubUser
	if err := getJSON(ctx, c.http, "github", c.baseURL+"/users/"+url.PathEscape(login), &raw); err != nil {
		return nil, err
	}
	dev := raw.toModel()
	return &dev, nil
}
