package git

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// GoGitSource implements Source in-process with go-git. No git binary is
// needed. The object store is not safe for concurrent readers, so calls are
// serialised.
type GoGitSource struct {
	repo   *gogit.Repository
	root   string
	gitDir string
	opts   Options

	mu sync.Mutex
}

var _ Repo = (*GoGitSource)(nil)

// NewGoGitSource opens the repository containing path.
func NewGoGitSource(path string, opts Options) (*GoGitSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotARepo
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return newGoGitSource(repo, abs, opts), nil
}

// NewGoGitSourceFromRepo wraps an already opened repository.
func NewGoGitSourceFromRepo(repo *gogit.Repository, opts Options) *GoGitSource {
	return newGoGitSource(repo, "", opts)
}

func newGoGitSource(repo *gogit.Repository, fallbackRoot string, opts Options) *GoGitSource {
	s := &GoGitSource{repo: repo, root: fallbackRoot, opts: opts}
	if wt, err := repo.Worktree(); err == nil {
		s.root = wt.Filesystem.Root()
	}
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		s.gitDir = fs.Filesystem().Root()
	} else if s.root != "" {
		s.gitDir = filepath.Join(s.root, ".git")
	}
	return s
}

// RepoRoot returns the worktree root.
func (s *GoGitSource) RepoRoot() string { return s.root }

// GitDir returns the directory holding refs and objects.
func (s *GoGitSource) GitDir() string { return s.gitDir }

// ListCommits walks history from HEAD ordered by committer time, newest first.
func (s *GoGitSource) ListCommits() ([]CommitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	head, err := s.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrEmptyRepo
		}
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	var commits []CommitRecord
	add := func(c *object.Commit) {
		commits = append(commits, toRecord(c, len(commits)))
	}

	if s.opts.FirstParent {
		c, err := s.repo.CommitObject(head.Hash())
		if err != nil {
			return nil, fmt.Errorf("reading HEAD commit: %w", err)
		}
		for {
			add(c)
			if c.NumParents() == 0 {
				break
			}
			if c, err = c.Parent(0); err != nil {
				return nil, fmt.Errorf("walking first parents: %w", err)
			}
		}
		return commits, nil
	}

	iter, err := s.repo.Log(&gogit.LogOptions{From: head.Hash(), Order: gogit.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	defer iter.Close()
	if err := iter.ForEach(func(c *object.Commit) error {
		add(c)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	return commits, nil
}

func toRecord(c *object.Commit, ordinal int) CommitRecord {
	id := c.Hash.String()
	summary, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	r := CommitRecord{
		ID:          id,
		ShortID:     Short(id, 7),
		Ordinal:     ordinal,
		Summary:     strings.TrimSpace(summary),
		Author:      c.Author.Name,
		AuthorEmail: c.Author.Email,
		Time:        c.Author.When,
	}
	for _, p := range c.ParentHashes {
		r.Parents = append(r.Parents, p.String())
	}
	return r
}

func (s *GoGitSource) commit(id string) (*object.Commit, error) {
	c, err := s.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("commit %s: %w", Short(id, 8), ErrNotFound)
		}
		return nil, fmt.Errorf("reading commit %s: %w", Short(id, 8), err)
	}
	return c, nil
}

// ListFiles walks the full tree at commitID depth-first.
func (s *GoGitSource) ListFiles(commitID string) ([]FileEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.commit(commitID)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", Short(commitID, 8), err)
	}

	w := object.NewTreeWalker(tree, true, nil)
	defer w.Close()

	entries := make([]FileEntry, 0, 64)
	for {
		name, entry, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking tree of %s: %w", Short(commitID, 8), err)
		}
		switch entry.Mode {
		case filemode.Submodule:
			continue
		case filemode.Dir:
			entries = append(entries, FileEntry{Path: name, Kind: KindDir, Present: true})
		default:
			entries = append(entries, FileEntry{Path: name, Kind: KindFile, Present: true})
		}
	}
	return entries, nil
}

// ReadFile returns the blob at path in commitID.
func (s *GoGitSource) ReadFile(commitID, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.commit(commitID)
	if err != nil {
		return nil, err
	}
	f, err := c.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s at %s: %w", path, Short(commitID, 8), ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s at %s: %w", path, Short(commitID, 8), err)
	}
	r, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", path, Short(commitID, 8), err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", path, Short(commitID, 8), err)
	}
	return data, nil
}

// Blame attributes each line of path at commitID.
func (s *GoGitSource) Blame(commitID, path string) ([]BlameEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.commit(commitID)
	if err != nil {
		return nil, err
	}
	res, err := gogit.Blame(c, path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("blame %s at %s: %w", path, Short(commitID, 8), ErrNotFound)
		}
		return nil, fmt.Errorf("blame %s at %s: %w", path, Short(commitID, 8), err)
	}
	entries := make([]BlameEntry, len(res.Lines))
	for i, l := range res.Lines {
		author := l.AuthorName
		if author == "" {
			author = l.Author
		}
		entries[i] = BlameEntry{Line: i + 1, CommitID: l.Hash.String(), Author: author}
	}
	return entries, nil
}

// RemoteURL returns the first URL of the configured remote.
func (s *GoGitSource) RemoteURL() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.repo.Remote(s.opts.remote())
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading remote %s: %w", s.opts.remote(), err)
	}
	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", false, nil
	}
	return urls[0], true, nil
}
