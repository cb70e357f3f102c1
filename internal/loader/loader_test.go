package loader

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	gate chan struct{} // when set, Content blocks until it can receive

	active, peak atomic.Int32
}

func (f *fakeSource) ListCommits() ([]git.CommitRecord, error) {
	return []git.CommitRecord{{ID: "c1"}, {ID: "c0", Ordinal: 1}}, nil
}

func (f *fakeSource) ListFiles(commitID string) ([]git.FileEntry, error) {
	return []git.FileEntry{{Path: commitID + "/x", Present: true}}, nil
}

func (f *fakeSource) Content(commitID, path string) (*git.Content, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	if path == "missing" {
		return nil, fmt.Errorf("%s: %w", path, git.ErrNotFound)
	}
	return &git.Content{Lines: []string{commitID + ":" + path}}, nil
}

func (f *fakeSource) Blame(commitID, path string) ([]git.BlameEntry, error) {
	return []git.BlameEntry{{Line: 1, CommitID: commitID}}, nil
}

func (f *fakeSource) RemoteURL() (string, bool, error) {
	return "git@github.com:owner/repo.git", true, nil
}

func perform(t *testing.T, l *Loader, req Request) Result {
	t.Helper()
	cmd := l.Request(req)
	require.NotNil(t, cmd)
	res, ok := cmd().(Result)
	require.True(t, ok)
	return res
}

func TestNewerRequestSupersedesOlder(t *testing.T) {
	for _, order := range []string{"old first", "new first"} {
		t.Run(order, func(t *testing.T) {
			l := New(&fakeSource{}, 2, nil)
			cmdA := l.Request(FileContent("A", "x"))
			cmdB := l.Request(FileContent("B", "x"))
			require.NotNil(t, cmdA)
			require.NotNil(t, cmdB)

			var resA, resB Result
			if order == "old first" {
				resA, resB = cmdA().(Result), cmdB().(Result)
			} else {
				resB, resA = cmdB().(Result), cmdA().(Result)
			}
			assert.Greater(t, resB.Seq, resA.Seq)

			if order == "old first" {
				assert.False(t, l.Accept(resA))
				assert.True(t, l.Accept(resB))
			} else {
				assert.True(t, l.Accept(resB))
				assert.False(t, l.Accept(resA))
			}
			assert.Equal(t, []string{"B:x"}, resB.Content.Lines)
		})
	}
}

func TestKindsAreIndependent(t *testing.T) {
	l := New(&fakeSource{}, 2, nil)
	tree := l.Request(FileTree("A"))
	content := l.Request(FileContent("A", "x"))
	blame := l.Request(Blame("A", "x"))

	assert.True(t, l.Accept(blame().(Result)))
	assert.True(t, l.Accept(content().(Result)))
	res := tree().(Result)
	assert.True(t, l.Accept(res))
	assert.Equal(t, "A/x", res.Files[0].Path)
}

func TestDuplicateInFlightRequestIsCoalesced(t *testing.T) {
	l := New(&fakeSource{}, 2, nil)
	first := l.Request(FileContent("A", "x"))
	require.NotNil(t, first)
	assert.Nil(t, l.Request(FileContent("A", "x")))
	assert.True(t, l.Pending(LoadFileContent))

	assert.True(t, l.Accept(first().(Result)))
	assert.False(t, l.Pending(LoadFileContent))

	// Once delivered, asking again issues a fresh request.
	assert.NotNil(t, l.Request(FileContent("A", "x")))
}

func TestSupersedeDropsInFlight(t *testing.T) {
	l := New(&fakeSource{}, 2, nil)
	cmd := l.Request(FileTree("A"))
	l.Supersede(LoadFileTree)
	assert.False(t, l.Accept(cmd().(Result)))
	assert.False(t, l.Pending(LoadFileTree))
}

func TestFailuresAreDelivered(t *testing.T) {
	l := New(&fakeSource{}, 1, nil)
	res := perform(t, l, FileContent("A", "missing"))
	require.ErrorIs(t, res.Err, git.ErrNotFound)
	assert.True(t, l.Accept(res), "failures still count as the latest result")
}

func TestAllKinds(t *testing.T) {
	l := New(&fakeSource{}, 1, nil)

	commits := perform(t, l, CommitList())
	require.NoError(t, commits.Err)
	assert.Len(t, commits.Commits, 2)

	remote := perform(t, l, Remote())
	require.NoError(t, remote.Err)
	assert.True(t, remote.HasRemote)
	assert.Equal(t, "git@github.com:owner/repo.git", remote.RemoteURL)

	blame := perform(t, l, Blame("A", "x"))
	require.NoError(t, blame.Err)
	assert.Equal(t, "A", blame.Blame[0].CommitID)

	bad := run(&fakeSource{}, Request{Kind: Kind(42)})
	assert.Error(t, bad.Err)
}

func TestWorkersBoundConcurrency(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{})}
	l := New(src, 2, nil)

	var cmds []func()
	for i := 0; i < 6; i++ {
		cmd := l.Request(FileContent(fmt.Sprint(i), "x"))
		require.NotNil(t, cmd)
		cmds = append(cmds, func() { cmd() })
	}

	var wg sync.WaitGroup
	for _, c := range cmds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c()
		}()
	}

	// Let the workers pile up on the gate, then release them one by one.
	require.Eventually(t, func() bool { return src.active.Load() == 2 }, time.Second, time.Millisecond)
	for range cmds {
		src.gate <- struct{}{}
	}
	wg.Wait()
	assert.Equal(t, int32(2), src.peak.Load())
}
