package git

import (
	"fmt"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
)

var (
	// ErrNotARepo is returned when the path is not inside a Git repository.
	ErrNotARepo = fmt.Errorf("not a git repository: %w", common.ErrNotFound)
	// ErrNotFound is returned when a path or commit does not exist.
	ErrNotFound = fmt.Errorf("object %w", common.ErrNotFound)
	// ErrEmptyRepo is returned by ListCommits when HEAD has no commits.
	ErrEmptyRepo = fmt.Errorf("repository has no commits: %w", common.ErrNotFound)
)

// Source is read-only access to repository history. Calls may be slow and
// are only made from loader workers.
type Source interface {
	// ListCommits returns the history reachable from HEAD, newest first.
	ListCommits() ([]CommitRecord, error)
	// ListFiles returns every blob and tree at the commit, in tree order.
	ListFiles(commitID string) ([]FileEntry, error)
	// ReadFile returns the blob at path, or ErrNotFound.
	ReadFile(commitID, path string) ([]byte, error)
	// Blame attributes each line of path at the commit.
	Blame(commitID, path string) ([]BlameEntry, error)
	// RemoteURL returns the fetch URL of the configured remote, if any.
	RemoteURL() (string, bool, error)
}

// Repo is a Source bound to an on-disk repository.
type Repo interface {
	Source
	RepoRoot() string
	GitDir() string
}

// Options configures how a Source walks history.
type Options struct {
	Remote      string // remote name used by RemoteURL, default "origin"
	FirstParent bool   // follow only first parents when walking history
}

func (o Options) remote() string {
	if o.Remote == "" {
		return "origin"
	}
	return o.Remote
}

// Open returns the Source implementation named by backend ("cli" or "gogit").
func Open(backend, path string, opts Options) (Repo, error) {
	switch backend {
	case "", "cli":
		return NewCLISource(path, opts)
	case "gogit", "go-git":
		return NewGoGitSource(path, opts)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
