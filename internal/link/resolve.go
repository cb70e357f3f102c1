// Package link turns a remote URL, commit, path and line into a web link
// using the GitHub blob convention, which GitHub Enterprise and most
// compatible hosts share.
package link

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
)

// ErrUnsupportedRemote is returned for remotes that are not a recognised
// SSH or HTTPS git-hosting URL.
var ErrUnsupportedRemote = fmt.Errorf("link: %w", common.ErrUnsupportedRemote)

// scpLike matches "[user@]host:owner/repo[.git]".
var scpLike = regexp.MustCompile(`^(?:[A-Za-z0-9._~-]+@)?([A-Za-z0-9.-]+\.[A-Za-z]{2,}|[A-Za-z0-9-]{2,}):/?([^\\]+)$`)

// Normalize converts an SSH or HTTPS remote into "https://host/owner/repo".
func Normalize(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", fmt.Errorf("empty remote: %w", ErrUnsupportedRemote)
	}

	var host, path string
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return "", fmt.Errorf("%s: %v: %w", remote, err, ErrUnsupportedRemote)
		}
		switch u.Scheme {
		case "https", "http", "ssh", "git+ssh", "ssh+git", "git":
		default:
			return "", fmt.Errorf("scheme %q: %w", u.Scheme, ErrUnsupportedRemote)
		}
		host, path = u.Hostname(), u.Path
	} else {
		m := scpLike.FindStringSubmatch(remote)
		if m == nil {
			return "", fmt.Errorf("%s: %w", remote, ErrUnsupportedRemote)
		}
		host, path = m[1], m[2]
	}

	// Trim trailing slashes and the ".git" extension.
	path = strings.TrimSuffix(strings.TrimRight(path, "/"), ".git")
	path = strings.Trim(path, "/")
	if host == "" || strings.Count(path, "/") < 1 || strings.Contains(path, "//") {
		return "", fmt.Errorf("%s: want host/owner/repo: %w", remote, ErrUnsupportedRemote)
	}
	return "https://" + strings.ToLower(host) + "/" + path, nil
}

// Resolve returns the web URL of path at commitID, anchored at line.
// A line below 1 omits the anchor.
func Resolve(remote, commitID, path string, line int) (string, error) {
	base, err := Normalize(remote)
	if err != nil {
		return "", err
	}
	if commitID == "" {
		return "", fmt.Errorf("no commit: %w", common.ErrInvalidState)
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("/blob/")
	b.WriteString(commitID)
	if path != "" {
		for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
			b.WriteByte('/')
			b.WriteString(url.PathEscape(seg))
		}
		if line > 0 {
			b.WriteString("#L")
			b.WriteString(strconv.Itoa(line))
		}
	}
	return b.String(), nil
}
