package github

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/devstreaks/internal/platform"
)

const reposQuery = `
query ($username: String!, $first: Int!) {
  user(login: $username) {
    starredRepositories(first: $first) {
      nodes { ...repo }
    }
    repositories(first: $first, ownerAffiliations: OWNER, orderBy: {field: STARGAZERS, direction: DESC}) {
      nodes { ...repo }
    }
  }
}

fragment repo on Repository {
  id
  name
  description
  stargazerCount
  primaryLanguage { name }
  url
}`

// DefaultRepoCount is how many starred and popular repositories are listed.
const DefaultRepoCount = 6

// Repo is a repository summary.
type Repo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
	URL         string `json:"url"`
}

// Repos lists a user's starred repositories and their own most-starred ones.
type Repos struct {
	Starred []Repo `json:"starred"`
	Popular []Repo `json:"popular"`
}

type repoNode struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	StargazerCount  int    `json:"stargazerCount"`
	PrimaryLanguage *struct {
		Name string `json:"name"`
	} `json:"primaryLanguage"`
	URL string `json:"url"`
}

type reposData struct {
	User *struct {
		StarredRepositories struct {
			Nodes []repoNode `json:"nodes"`
		} `json:"starredRepositories"`
		Repositories struct {
			Nodes []repoNode `json:"nodes"`
		} `json:"repositories"`
	} `json:"user"`
}

// Repos fetches the starred and popular repositories of username.
func (p *Provider) Repos(ctx context.Context, username string) (Repos, error) {
	user, err := platform.CleanUsername(username)
	if err != nil {
		return Repos{}, err
	}
	if !p.client.HasToken() {
		return Repos{}, fmt.Errorf("github: %w", platform.ErrMissingToken)
	}

	var data reposData
	vars := map[string]any{"username": user, "first": DefaultRepoCount}
	err = p.client.Do(ctx, reposQuery, vars, &data)
	if platform.IsMissingUser(err, data.User == nil) {
		return Repos{}, fmt.Errorf("github: %q: %w", user, platform.ErrUserNotFound)
	}
	if err != nil {
		return Repos{}, fmt.Errorf("github: fetch repos: %w", err)
	}

	return Repos{
		Starred: mapRepos(data.User.StarredRepositories.Nodes),
		Popular: mapRepos(data.User.Repositories.Nodes),
	}, nil
}

func mapRepos(nodes []repoNode) []Repo {
	repos := make([]Repo, 0, len(nodes))
	for _, n := range nodes {
		r := Repo{
			ID:          n.ID,
			Name:        n.Name,
			Description: n.Description,
			Stars:       n.StargazerCount,
			Language:    "—",
			URL:         n.URL,
		}
		if r.Description == "" {
			r.Description = "No description"
		}
		if n.PrimaryLanguage != nil && n.PrimaryLanguage.Name != "" {
			r.Language = n.PrimaryLanguage.Name
		}
		repos = append(repos, r)
	}
	return repos
}
