// Package loader runs slow repository reads off the event loop.
//
// Every request becomes a tea.Cmd. Bubbletea runs it on its own goroutine
// and feeds the returned Result back into the program's message queue, the
// same queue that carries key presses. The Loader itself is only touched by
// the event loop: it hands out sequence numbers and decides, on arrival,
// whether a Result is still the latest for its slot.
package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/semaphore"
)

// DefaultWorkers bounds how many repository reads run at once.
const DefaultWorkers = 4

// Kind is the type of work requested.
type Kind int

const (
	LoadCommitList Kind = iota
	LoadFileTree
	LoadFileContent
	ComputeBlame
	LoadRemote
)

func (k Kind) String() string {
	switch k {
	case LoadCommitList:
		return "commits"
	case LoadFileTree:
		return "tree"
	case LoadFileContent:
		return "content"
	case ComputeBlame:
		return "blame"
	case LoadRemote:
		return "remote"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Request is one unit of work. CommitID and Path are set as the kind needs.
type Request struct {
	Kind     Kind
	CommitID string
	Path     string
}

// CommitList requests the history walk.
func CommitList() Request { return Request{Kind: LoadCommitList} }

// FileTree requests the tree of a commit.
func FileTree(commitID string) Request {
	return Request{Kind: LoadFileTree, CommitID: commitID}
}

// FileContent requests decoded content of path at a commit.
func FileContent(commitID, path string) Request {
	return Request{Kind: LoadFileContent, CommitID: commitID, Path: path}
}

// Blame requests line attribution of path at a commit.
func Blame(commitID, path string) Request {
	return Request{Kind: ComputeBlame, CommitID: commitID, Path: path}
}

// Remote requests the remote URL.
func Remote() Request { return Request{Kind: LoadRemote} }

// Source is what workers read from. git.CachedSource satisfies it.
type Source interface {
	ListCommits() ([]git.CommitRecord, error)
	ListFiles(commitID string) ([]git.FileEntry, error)
	Content(commitID, path string) (*git.Content, error)
	Blame(commitID, path string) ([]git.BlameEntry, error)
	RemoteURL() (string, bool, error)
}

// Result is delivered to the event loop when a request finishes.
type Result struct {
	Request Request
	Seq     uint64

	Commits   []git.CommitRecord
	Files     []git.FileEntry
	Content   *git.Content
	Blame     []git.BlameEntry
	RemoteURL string
	HasRemote bool

	Err     error
	Elapsed time.Duration
}

type slot struct {
	seq     uint64
	req     Request
	pending bool
}

// Loader tracks the latest request per kind. One tree, one content and one
// blame are displayed at a time, so a newer request of a kind supersedes
// every older one regardless of key.
type Loader struct {
	src   Source
	sem   *semaphore.Weighted
	log   *slog.Logger
	seq   uint64
	slots map[Kind]slot
}

// New returns a Loader reading from src with at most workers concurrent
// reads. A nil logger discards.
func New(src Source, workers int, log *slog.Logger) *Loader {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{
		src:   src,
		sem:   semaphore.NewWeighted(int64(workers)),
		log:   log,
		slots: make(map[Kind]slot, 5),
	}
}

// Request records req as the latest of its kind and returns the command
// that performs it. If the identical request is already in flight it
// returns nil; the pending one will deliver.
func (l *Loader) Request(req Request) tea.Cmd {
	if s, ok := l.slots[req.Kind]; ok && s.pending && s.req == req {
		return nil
	}
	l.seq++
	seq := l.seq
	l.slots[req.Kind] = slot{seq: seq, req: req, pending: true}
	l.log.Debug("load issued", "kind", req.Kind, "seq", seq, "commit", git.Short(req.CommitID, 8), "path", req.Path)

	src, sem, log := l.src, l.sem, l.log
	return func() tea.Msg {
		// Acquire cannot fail with a background context.
		_ = sem.Acquire(context.Background(), 1)
		defer sem.Release(1)
		res := run(src, req)
		res.Seq = seq
		if res.Err != nil {
			log.Warn("load failed", "kind", req.Kind, "seq", seq, "err", res.Err)
		} else {
			log.Debug("load done", "kind", req.Kind, "seq", seq, "elapsed", res.Elapsed)
		}
		return res
	}
}

// Accept reports whether r is the latest request of its kind and marks
// the slot idle. Ordering is by sequence number, not arrival.
func (l *Loader) Accept(r Result) bool {
	s, ok := l.slots[r.Request.Kind]
	if !ok || s.seq != r.Seq {
		l.log.Debug("stale result dropped", "kind", r.Request.Kind, "seq", r.Seq, "latest", s.seq)
		return false
	}
	s.pending = false
	l.slots[r.Request.Kind] = s
	return true
}

// Supersede invalidates any in-flight request of kind without starting a
// new one. Used when the event loop satisfied the need from cache.
func (l *Loader) Supersede(kind Kind) {
	l.seq++
	l.slots[kind] = slot{seq: l.seq}
}

// Pending reports whether the latest request of kind has not delivered yet.
func (l *Loader) Pending(kind Kind) bool {
	return l.slots[kind].pending
}

func run(src Source, req Request) Result {
	start := time.Now()
	res := Result{Request: req}
	switch req.Kind {
	case LoadCommitList:
		res.Commits, res.Err = src.ListCommits()
	case LoadFileTree:
		res.Files, res.Err = src.ListFiles(req.CommitID)
	case LoadFileContent:
		res.Content, res.Err = src.Content(req.CommitID, req.Path)
	case ComputeBlame:
		res.Blame, res.Err = src.Blame(req.CommitID, req.Path)
	case LoadRemote:
		res.RemoteURL, res.HasRemote, res.Err = src.RemoteURL()
	default:
		res.Err = fmt.Errorf("unknown request kind %v", req.Kind)
	}
	res.Elapsed = time.Since(start)
	return res
}
