package git

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is the number of entries kept per cache.
const DefaultCacheSize = 512

// CachedSource wraps a Source with keyed caches for trees, decoded content
// and blame. History is immutable, so entries never expire; the LRU bound
// only caps memory on very long sessions.
//
// Workers fill the caches through the Source methods. The event loop reads
// them with the Peek methods, which never touch the repository.
type CachedSource struct {
	inner   Source
	maxSize int

	trees    *lru.Cache // commitID -> []FileEntry
	contents *lru.Cache // contentKey -> *Content
	blames   *lru.Cache // contentKey -> []BlameEntry
}

// Compile-time check.
var _ Source = (*CachedSource)(nil)

type contentKey struct {
	commit string
	path   string
}

// NewCachedSource wraps inner. size is the entry limit per cache and
// maxFileSize the largest blob decoded as text.
func NewCachedSource(inner Source, size, maxFileSize int) (*CachedSource, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	trees, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("tree cache: %w", err)
	}
	contents, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("content cache: %w", err)
	}
	blames, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("blame cache: %w", err)
	}
	return &CachedSource{
		inner:    inner,
		maxSize:  maxFileSize,
		trees:    trees,
		contents: contents,
		blames:   blames,
	}, nil
}

// Purge drops every cached entry.
func (c *CachedSource) Purge() {
	c.trees.Purge()
	c.contents.Purge()
	c.blames.Purge()
}

// ListCommits is never cached; a reload must observe new refs.
func (c *CachedSource) ListCommits() ([]CommitRecord, error) {
	return c.inner.ListCommits()
}

// ListFiles returns the tree at commitID (cached).
func (c *CachedSource) ListFiles(commitID string) ([]FileEntry, error) {
	if v, ok := c.trees.Get(commitID); ok {
		return v.([]FileEntry), nil
	}
	v, err := c.inner.ListFiles(commitID)
	if err != nil {
		return nil, err
	}
	c.trees.Add(commitID, v)
	return v, nil
}

// ReadFile delegates to the inner source (not cached; Content caches the
// decoded form instead).
func (c *CachedSource) ReadFile(commitID, path string) ([]byte, error) {
	return c.inner.ReadFile(commitID, path)
}

// Content reads and decodes path at commitID (cached).
func (c *CachedSource) Content(commitID, path string) (*Content, error) {
	k := contentKey{commitID, path}
	if v, ok := c.contents.Get(k); ok {
		return v.(*Content), nil
	}
	raw, err := c.inner.ReadFile(commitID, path)
	if err != nil {
		return nil, err
	}
	v := DecodeContent(raw, c.maxSize)
	c.contents.Add(k, v)
	return v, nil
}

// Blame returns line attribution for path at commitID (cached).
func (c *CachedSource) Blame(commitID, path string) ([]BlameEntry, error) {
	k := contentKey{commitID, path}
	if v, ok := c.blames.Get(k); ok {
		return v.([]BlameEntry), nil
	}
	v, err := c.inner.Blame(commitID, path)
	if err != nil {
		return nil, err
	}
	c.blames.Add(k, v)
	return v, nil
}

// RemoteURL delegates to the inner source.
func (c *CachedSource) RemoteURL() (string, bool, error) {
	return c.inner.RemoteURL()
}

// ── Peeks (no I/O) ──────────────────────────────────────────────────────────

// PeekTree returns a cached tree without loading it.
func (c *CachedSource) PeekTree(commitID string) ([]FileEntry, bool) {
	v, ok := c.trees.Peek(commitID)
	if !ok {
		return nil, false
	}
	return v.([]FileEntry), true
}

// PeekContent returns cached decoded content without loading it.
func (c *CachedSource) PeekContent(commitID, path string) (*Content, bool) {
	v, ok := c.contents.Peek(contentKey{commitID, path})
	if !ok {
		return nil, false
	}
	return v.(*Content), true
}

// PeekBlame returns cached blame without computing it.
func (c *CachedSource) PeekBlame(commitID, path string) ([]BlameEntry, bool) {
	v, ok := c.blames.Peek(contentKey{commitID, path})
	if !ok {
		return nil, false
	}
	return v.([]BlameEntry), true
}
