// Package filter ranks the files of the browsed commit against a query.
//
// Ranking is pure computation, O(files × query length) per keystroke, and
// runs inline on the event loop.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
)

// ErrInvalidQuery is returned when a regex query does not compile.
var ErrInvalidQuery = fmt.Errorf("filter: %w", common.ErrInvalidQuery)

// Mode selects how the query is interpreted.
type Mode int

const (
	ModeFuzzy Mode = iota
	ModeSubstring
	ModeRegex
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeSubstring:
		return "substring"
	case ModeRegex:
		return "regex"
	default:
		return "fuzzy"
	}
}

// ParseMode maps a config string to a Mode, defaulting to fuzzy.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case "substring", "partial":
		return ModeSubstring
	case "regex", "regexp":
		return ModeRegex
	default:
		return ModeFuzzy
	}
}

// Match is one ranked candidate.
type Match struct {
	Entry     git.FileEntry
	Score     int
	Positions []int // byte offsets into Entry.Path of matched runes, for highlighting
}

// Engine holds the candidate set and the current ranking.
type Engine struct {
	files   []git.FileEntry // blobs only, in tree order
	query   string
	mode    Mode
	results []Match
}

// New returns an empty Engine in the given mode.
func New(mode Mode) *Engine {
	return &Engine{mode: mode}
}

// SetFiles replaces the candidate set and re-ranks with the current query.
// Directories are dropped; only files can be selected.
func (e *Engine) SetFiles(entries []git.FileEntry) {
	e.files = e.files[:0]
	for _, f := range entries {
		if f.IsFile() {
			e.files = append(e.files, f)
		}
	}
	if err := e.rank(); err != nil {
		// The query compiled before; an error here means no candidates.
		e.results = nil
	}
}

// Update replaces the query text and re-ranks. On a regex error the
// previous ranking is kept.
func (e *Engine) Update(text string) error {
	prev := e.query
	e.query = text
	if err := e.rank(); err != nil {
		e.query = prev
		return err
	}
	return nil
}

// SetMode switches the query mode and re-ranks.
func (e *Engine) SetMode(m Mode) error {
	prev := e.mode
	e.mode = m
	if err := e.rank(); err != nil {
		e.mode = prev
		return err
	}
	return nil
}

// CycleMode steps the mode by delta, wrapping.
func (e *Engine) CycleMode(delta int) error {
	n := int(modeCount)
	return e.SetMode(Mode(((int(e.mode)+delta)%n + n) % n))
}

// Query returns the current query text.
func (e *Engine) Query() string { return e.query }

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.mode }

// Results returns the ranked candidates. Callers must not modify it.
func (e *Engine) Results() []Match { return e.results }

// Len returns the number of candidates.
func (e *Engine) Len() int { return len(e.results) }

// Total returns the number of files being filtered.
func (e *Engine) Total() int { return len(e.files) }

// Index returns the position of path in the results, or -1.
func (e *Engine) Index(path string) int {
	for i, m := range e.results {
		if m.Entry.Path == path {
			return i
		}
	}
	return -1
}

func (e *Engine) rank() error {
	if e.query == "" {
		e.results = make([]Match, len(e.files))
		for i, f := range e.files {
			e.results[i] = Match{Entry: f}
		}
		return nil
	}
	switch e.mode {
	case ModeSubstring:
		e.results = rankSubstring(e.files, e.query)
	case ModeRegex:
		re, err := regexp.Compile(e.query)
		if err != nil {
			return fmt.Errorf("%q: %v: %w", e.query, err, ErrInvalidQuery)
		}
		e.results = rankRegex(e.files, re)
	default:
		e.results = rankFuzzy(e.files, e.query)
	}
	return nil
}

func rankFuzzy(files []git.FileEntry, query string) []Match {
	found := candidates(files, query)
	out := make([]Match, 0, len(found))
	for _, c := range found {
		f := files[c.Index]
		score, pos, ok := fuzzyScore(query, f.Path, c.MatchedIndexes)
		if ok {
			out = append(out, Match{Entry: f, Score: score, Positions: pos})
		}
	}
	sortMatches(out)
	return out
}

// rankSubstring keeps paths containing the query; an occurrence inside the
// file name ranks higher the closer it is to the start of the name.
func rankSubstring(files []git.FileEntry, query string) []Match {
	out := make([]Match, 0, len(files)/4)
	for _, f := range files {
		pos := lastFoldIndex(f.Path, query)
		if pos == nil {
			continue
		}
		nameStart := nameOffset(f.Path)
		score := 0
		if at := pos[0]; at >= nameStart {
			d := utf8.RuneCountInString(f.Path[nameStart:at])
			score = max(0, nameBonus-nameDecay*d) + exactBonus
		}
		out = append(out, Match{Entry: f, Score: score, Positions: pos})
	}
	sortMatches(out)
	return out
}

// rankRegex keeps tree order; a regex says nothing about match quality.
func rankRegex(files []git.FileEntry, re *regexp.Regexp) []Match {
	out := make([]Match, 0, len(files)/4)
	for _, f := range files {
		loc := re.FindStringIndex(f.Path)
		if loc == nil {
			continue
		}
		pos := make([]int, 0, loc[1]-loc[0])
		for i := range f.Path[loc[0]:loc[1]] {
			pos = append(pos, loc[0]+i)
		}
		out = append(out, Match{Entry: f, Positions: pos})
	}
	return out
}

// sortMatches orders by score descending, then shorter path, then path.
func sortMatches(ms []Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Entry.Path) != len(b.Entry.Path) {
			return len(a.Entry.Path) < len(b.Entry.Path)
		}
		return a.Entry.Path < b.Entry.Path
	})
}
