package git

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
)

// ── Log parsing ─────────────────────────────────────────────────────────────

const (
	logFormat    = "%H%x00%h%x00%an%x00%ae%x00%at%x00%s%x00%P"
	logSeparator = "%x01"
	logFields    = 7
)

// LogFormatFlag returns the --format flag for git log.
func LogFormatFlag() string {
	return fmt.Sprintf("--format=%s%s", logFormat, logSeparator)
}

// ParseLogOutput parses git log output produced with LogFormatFlag.
// Ordinals follow output order, so index 0 is the newest commit.
func ParseLogOutput(out string) []CommitRecord {
	if len(out) == 0 {
		return nil
	}
	est := len(out) / 120
	if est < 8 {
		est = 8
	}
	commits := make([]CommitRecord, 0, est)

	for len(out) > 0 {
		idx := strings.IndexByte(out, '\x01')
		var entry string
		if idx < 0 {
			entry = out
			out = ""
		} else {
			entry = out[:idx]
			out = out[idx+1:]
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if c, ok := parseCommitEntry(entry); ok {
			c.Ordinal = len(commits)
			commits = append(commits, c)
		}
	}
	return commits
}

func parseCommitEntry(entry string) (CommitRecord, bool) {
	parts := strings.SplitN(entry, "\x00", logFields)
	if len(parts) < logFields {
		return CommitRecord{}, false
	}
	ts, _ := strconv.ParseInt(strings.TrimSpace(parts[4]), 10, 64)
	c := CommitRecord{
		ID:          strings.TrimSpace(parts[0]),
		ShortID:     strings.TrimSpace(parts[1]),
		Author:      strings.TrimSpace(parts[2]),
		AuthorEmail: strings.TrimSpace(parts[3]),
		Time:        time.Unix(ts, 0),
		Summary:     strings.TrimSpace(parts[5]),
	}
	if p := strings.TrimSpace(parts[6]); p != "" {
		c.Parents = strings.Fields(p)
	}
	return c, c.ID != ""
}

// ── Tree parsing ────────────────────────────────────────────────────────────

// ParseLsTreeOutput parses `git ls-tree -r -t -z`. Each record is
// "<mode> SP <type> SP <object> TAB <path>". Submodules are skipped.
func ParseLsTreeOutput(out string) []FileEntry {
	entries := make([]FileEntry, 0, 64)
	for len(out) > 0 {
		nul := strings.IndexByte(out, '\x00')
		var rec string
		if nul < 0 {
			rec = out
			out = ""
		} else {
			rec = out[:nul]
			out = out[nul+1:]
		}
		tab := strings.IndexByte(rec, '\t')
		if tab < 0 {
			continue
		}
		meta := strings.Fields(rec[:tab])
		if len(meta) < 3 {
			continue
		}
		e := FileEntry{Path: rec[tab+1:], Present: true}
		switch meta[1] {
		case "blob":
			e.Kind = KindFile
		case "tree":
			e.Kind = KindDir
		default:
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// ── Blame parsing ───────────────────────────────────────────────────────────

// ParseBlamePorcelain parses `git blame --porcelain`. Author metadata is
// only printed the first time a commit appears, so it is remembered per id.
func ParseBlamePorcelain(out string) ([]BlameEntry, error) {
	var (
		entries []BlameEntry
		authors = make(map[string]string)
		cur     string
		line    int
	)
	for len(out) > 0 {
		nl := strings.IndexByte(out, '\n')
		var l string
		if nl < 0 {
			l = out
			out = ""
		} else {
			l = out[:nl]
			out = out[nl+1:]
		}
		switch {
		case strings.HasPrefix(l, "\t"):
			if cur == "" {
				return nil, fmt.Errorf("content before header: %w", common.ErrDecode)
			}
			entries = append(entries, BlameEntry{Line: line, CommitID: cur, Author: authors[cur]})
		case strings.HasPrefix(l, "author "):
			if cur != "" {
				authors[cur] = strings.TrimPrefix(l, "author ")
			}
		default:
			f := strings.Fields(l)
			if len(f) >= 3 && isHexID(f[0]) {
				n, err := strconv.Atoi(f[2])
				if err != nil {
					return nil, fmt.Errorf("bad line number %q: %w", f[2], common.ErrDecode)
				}
				cur, line = f[0], n
			}
		}
	}
	return entries, nil
}

// isHexID reports whether s looks like a full SHA-1 or SHA-256 object id.
func isHexID(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
