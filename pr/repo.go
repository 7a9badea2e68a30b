package pr

import (
	"fmt"
	"net/url"
	"strings"
)

// Repo identifies a hosted repository.
type Repo struct {
	Host  string // e.g. "github.com"
	Owner string // owner, org, or GitLab group path ("group/subgroup")
	Name  string
}

// FullName returns "owner/name", the GitLab project path.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

func (r Repo) String() string {
	if r.Host == "" {
		return r.FullName()
	}
	return r.Host + "/" + r.FullName()
}

// ParseRepoURL extracts the repository identity from a remote URL.
// Supported forms:
//
//	https://github.com/owner/name(.git)
//	git@github.com:owner/name(.git)
//	ssh://git@gitlab.example.com:2222/group/sub/name(.git)
func ParseRepoURL(raw string) (Repo, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Repo{}, fmt.Errorf("%w: empty", ErrInvalidRepoURL)
	}

	var host, path string
	switch {
	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return Repo{}, fmt.Errorf("%w: %q: %v", ErrInvalidRepoURL, raw, err)
		}
		switch u.Scheme {
		case "https", "http", "ssh", "git":
		default:
			return Repo{}, fmt.Errorf("%w: %q: unsupported scheme %q", ErrInvalidRepoURL, raw, u.Scheme)
		}
		host, path = u.Hostname(), u.Path
	default:
		// scp-like syntax: [user@]host:path
		userHost, p, found := strings.Cut(s, ":")
		if !found || strings.Contains(userHost, "/") {
			return Repo{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
		}
		if _, h, ok := strings.Cut(userHost, "@"); ok {
			userHost = h
		}
		host, path = userHost, p
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	idx := strings.LastIndex(path, "/")
	if host == "" || idx <= 0 || idx == len(path)-1 {
		return Repo{}, fmt.Errorf("%w: %q: expected owner/name", ErrInvalidRepoURL, raw)
	}

	return Repo{
		Host:  strings.ToLower(host),
		Owner: path[:idx],
		Name:  path[idx+1:],
	}, nil
}
