package model

// Developer is one developer-community search hit, already trimmed to the
// fields the panels render.
type Developer struct {
	ID          int64  `json:"id"`
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
	Location    string `json:"location"`
	ProfileURL  string `json:"html_url"`
}

// DeveloperSearch is a paged developer search response.
type DeveloperSearch struct {
	TotalCount int         `json:"total_count"`
	Users      []Developer `json:"users"`
}

// Repo is one repository search hit.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	URL         string `json:"html_url"`
}

// RepoSearch is a paged repository search response.
type RepoSearch struct {
	TotalCount int    `json:"total_count"`
	Repos      []Repo `json:"repos"`
}
