package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultTimeout is the default limit for a single git command.
const DefaultTimeout = 30 * time.Second

// CLISource implements Source by shelling out to the git CLI.
// Every command runs read-only:
//   - GIT_OPTIONAL_LOCKS=0 (no lock contention with a running editor)
//   - Stdout/Stderr separated so stderr noise doesn't corrupt output
//   - Optional per-command timeout (0 disables it)
type CLISource struct {
	root    string // Absolute path to the repo root.
	gitDir  string // Path to the .git directory.
	opts    Options
	timeout time.Duration
}

// Compile-time check that CLISource implements Repo.
var _ Repo = (*CLISource)(nil)

// NewCLISource opens the Git repository containing path.
func NewCLISource(path string, opts Options) (*CLISource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	topLevel, err := runGit(abs, DefaultTimeout, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotARepo
	}
	gitDir, err := runGit(abs, DefaultTimeout, nil, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("finding .git directory: %w", err)
	}
	gd := strings.TrimSpace(gitDir)
	if !filepath.IsAbs(gd) {
		gd = filepath.Join(abs, gd)
	}
	return &CLISource{
		root:    strings.TrimSpace(topLevel),
		gitDir:  gd,
		opts:    opts,
		timeout: DefaultTimeout,
	}, nil
}

// SetTimeout changes the per-command limit. Zero means no limit.
func (s *CLISource) SetTimeout(d time.Duration) { s.timeout = d }

// RepoRoot returns the repository root path.
func (s *CLISource) RepoRoot() string { return s.root }

// GitDir returns the path to the .git directory.
func (s *CLISource) GitDir() string { return s.gitDir }

// ── helpers ─────────────────────────────────────────────────────────────────

// readEnv is the environment set on all git commands.
var readEnv = []string{"GIT_OPTIONAL_LOCKS=0"}

// cmdError keeps stderr around so callers can classify failures.
type cmdError struct {
	args   []string
	stderr string
	err    error
}

func (e *cmdError) Error() string {
	return fmt.Sprintf("git %s: %s: %v", strings.Join(e.args, " "), e.stderr, e.err)
}

func (e *cmdError) Unwrap() error { return e.err }

// stderrContains reports whether err is a git failure whose stderr
// contains any of the needles.
func stderrContains(err error, needles ...string) bool {
	var ce *cmdError
	if !errors.As(err, &ce) {
		return false
	}
	for _, n := range needles {
		if strings.Contains(ce.stderr, n) {
			return true
		}
	}
	return false
}

func (s *CLISource) run(args ...string) (string, error) {
	return runGit(s.root, s.timeout, readEnv, args...)
}

// runGit executes a git command, optionally bounded by timeout.
func runGit(dir string, timeout time.Duration, extraEnv []string, args ...string) (string, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		return "", &cmdError{args: args, stderr: errMsg, err: err}
	}
	return stdout.String(), nil
}

// ── Source ──────────────────────────────────────────────────────────────────

// ListCommits walks history from HEAD, newest first.
func (s *CLISource) ListCommits() ([]CommitRecord, error) {
	args := []string{"log", LogFormatFlag()}
	if s.opts.FirstParent {
		args = append(args, "--first-parent")
	}
	args = append(args, "HEAD", "--")
	out, err := s.run(args...)
	if err != nil {
		if stderrContains(err, "does not have any commits", "unknown revision") {
			return nil, ErrEmptyRepo
		}
		return nil, fmt.Errorf("listing commits: %w", err)
	}
	return ParseLogOutput(out), nil
}

// ListFiles returns the full recursive tree at commitID.
func (s *CLISource) ListFiles(commitID string) ([]FileEntry, error) {
	out, err := s.run("ls-tree", "-r", "-t", "-z", "--full-tree", commitID)
	if err != nil {
		if stderrContains(err, "Not a valid object name", "not a tree object") {
			return nil, fmt.Errorf("tree %s: %w", Short(commitID, 8), ErrNotFound)
		}
		return nil, fmt.Errorf("listing files at %s: %w", Short(commitID, 8), err)
	}
	return ParseLsTreeOutput(out), nil
}

// ReadFile returns the blob at path in commitID.
func (s *CLISource) ReadFile(commitID, path string) ([]byte, error) {
	out, err := s.run("cat-file", "blob", commitID+":"+path)
	if err != nil {
		if stderrContains(err, "does not exist", "Not a valid object name", "exists on disk, but not in") {
			return nil, fmt.Errorf("%s at %s: %w", path, Short(commitID, 8), ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s at %s: %w", path, Short(commitID, 8), err)
	}
	return []byte(out), nil
}

// Blame attributes each line of path at commitID.
func (s *CLISource) Blame(commitID, path string) ([]BlameEntry, error) {
	out, err := s.run("blame", "--porcelain", commitID, "--", path)
	if err != nil {
		if stderrContains(err, "no such path", "no such ref") {
			return nil, fmt.Errorf("blame %s at %s: %w", path, Short(commitID, 8), ErrNotFound)
		}
		return nil, fmt.Errorf("blame %s at %s: %w", path, Short(commitID, 8), err)
	}
	entries, err := ParseBlamePorcelain(out)
	if err != nil {
		return nil, fmt.Errorf("blame %s at %s: %w", path, Short(commitID, 8), err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Line < entries[j].Line })
	return entries, nil
}

// RemoteURL returns the fetch URL of the configured remote.
func (s *CLISource) RemoteURL() (string, bool, error) {
	out, err := s.run("remote", "get-url", s.opts.remote())
	if err != nil {
		if stderrContains(err, "No such remote") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading remote %s: %w", s.opts.remote(), err)
	}
	u := strings.TrimSpace(out)
	return u, u != "", nil
}
