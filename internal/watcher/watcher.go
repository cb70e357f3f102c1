// Package watcher notices when the set of reachable commits may have
// changed and tells the browser to reload its history. Only ref storage
// inside .git is watched: HEAD, refs/ and packed-refs. The working tree
// and the index are never watched because edits there do not create
// commits, which keeps the inotify/kqueue footprint at a handful of
// directories even in very large repositories.
//
// Watched paths:
//   - .git/HEAD          → commits, branch switches, resets
//   - .git/refs/heads    → local branch updates
//   - .git/refs/tags     → tag creation/deletion
//   - .git/refs/remotes  → fetch/pull updates
//   - .git/packed-refs   → gc / pack-refs
package watcher

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of writes a single git command makes.
const DefaultDebounce = 300 * time.Millisecond

// Event is sent when ref state changed.
type Event struct{}

// Watch monitors the ref storage of gitDir and sends an Event after each
// burst of changes settles. The channel is closed when ctx is done.
//
// gitDir should be the absolute path to the .git directory (handles worktrees
// where .git is a file pointing elsewhere). A nil log discards.
func Watch(ctx context.Context, gitDir string, debounce time.Duration, log *slog.Logger) (<-chan Event, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	targets := []string{
		gitDir, // HEAD and packed-refs live here
		filepath.Join(gitDir, "refs"),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}

	remotesDir := filepath.Join(gitDir, "refs", "remotes")
	if info, err := os.Stat(remotesDir); err == nil && info.IsDir() {
		targets = append(targets, remotesDir)
		// One level deep for per-remote dirs (e.g. refs/remotes/origin).
		if entries, err := os.ReadDir(remotesDir); err == nil {
			for _, e := range entries {
				if e.IsDir() {
					targets = append(targets, filepath.Join(remotesDir, e.Name()))
				}
			}
		}
	}

	added := 0
	for _, t := range targets {
		if info, statErr := os.Stat(t); statErr == nil && info.IsDir() {
			if w.Add(t) == nil {
				added++
			}
		}
	}
	if added == 0 {
		_ = w.Close()
		return nil, &os.PathError{Op: "watch", Path: gitDir, Err: os.ErrNotExist}
	}

	log.Debug("watching refs", "git_dir", gitDir, "dirs", added)

	ch := make(chan Event, 1)

	// Jitter spreads reloads when several instances watch the same repo.
	jitterRange := int64(debounce / 2)

	go func() {
		defer close(ch)
		defer w.Close()
		var timer *time.Timer

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !relevant(gitDir, ev.Name) {
					continue
				}
				d := debounce
				if jitterRange > 0 {
					d += time.Duration(rand.Int64N(jitterRange))
				}
				if timer == nil {
					timer = time.NewTimer(d)
				} else {
					timer.Reset(d)
				}
			case <-timerChan(timer):
				timer = nil
				select {
				case ch <- Event{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", "err", err)
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	return ch, nil
}

// Forward delivers a RefreshMsg through send for every Event until the
// channel closes. send is usually (*tea.Program).Send.
func Forward(events <-chan Event, send func(tea.Msg)) {
	for range events {
		send(common.RefreshMsg{})
	}
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// relevant reports whether a change to path can alter the commit history.
func relevant(gitDir, path string) bool {
	base := filepath.Base(path)

	// Lock files are transient, mid-operation.
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return false
	}

	rel, err := filepath.Rel(gitDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == "HEAD", rel == "packed-refs":
		return true
	case strings.HasPrefix(rel, "refs/"):
		return true
	}
	// index, COMMIT_EDITMSG, FETCH_HEAD, logs/, objects/ and the rest do
	// not move any ref on their own.
	return false
}
