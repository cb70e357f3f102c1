package git

import "time"

// CommitRecord is one entry of the linear history walk. Immutable once loaded.
type CommitRecord struct {
	ID          string
	ShortID     string
	Ordinal     int // position in traversal order, 0 = HEAD
	Summary     string
	Author      string
	AuthorEmail string
	Time        time.Time
	Parents     []string
}

// EntryKind distinguishes blobs from trees in a listing.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
)

// FileEntry is one path in a commit's tree.
type FileEntry struct {
	Path    string // slash-separated, relative to the repository root
	Kind    EntryKind
	Present bool // present at the commit the listing was produced for
}

// IsFile reports whether the entry is a blob.
func (e FileEntry) IsFile() bool { return e.Kind == KindFile }

// BlameEntry attributes one physical line (1-based) to a commit.
type BlameEntry struct {
	Line     int
	CommitID string
	Author   string
}

// Short returns the first n characters of a commit id.
func Short(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n]
}
