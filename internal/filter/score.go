package filter

import (
	"unicode"
	"unicode/utf8"

	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/sahilm/fuzzy"
)

// Scoring weights for fuzzy matches.
const (
	runBonus   = 8  // per extra character in a contiguous run
	nameBonus  = 16 // all matches inside the file name, first one at its start
	nameDecay  = 2  // name bonus lost per character of distance from the name start
	exactBonus = 4  // the whole query is one contiguous run inside the file name
)

// fileSource exposes file paths to fuzzy.FindFrom.
type fileSource []git.FileEntry

func (s fileSource) String(i int) string { return s[i].Path }
func (s fileSource) Len() int            { return len(s) }

// candidates returns the files holding query as a case-insensitive ordered
// subsequence, with the alignment fuzzy picked for each.
func candidates(files []git.FileEntry, query string) fuzzy.Matches {
	return fuzzy.FindFromNoSort(query, fileSource(files))
}

// fuzzyScore scores query against path. hint is an alignment already known
// to match, as fuzzy.Match.MatchedIndexes. positions are byte offsets into
// path of the matched runes.
//
// Besides hint, two greedy alignments are tried: leftmost over the whole
// path, and leftmost inside the file name only. The highest score wins.
func fuzzyScore(query, path string, hint []int) (score int, positions []int, ok bool) {
	nameStart := nameOffset(path)

	full, ok := align(query, path, 0)
	if !ok {
		return 0, nil, false
	}
	score, positions = scoreAlignment(path, full, nameStart), full

	try := func(p []int) {
		if s := scoreAlignment(path, p, nameStart); s > score {
			score, positions = s, p
		}
	}
	if nameStart > 0 {
		if inName, ok := align(query, path, nameStart); ok {
			try(inName)
		}
	}
	if len(hint) == utf8.RuneCountInString(query) {
		try(append([]int(nil), hint...))
	}
	return score, positions, true
}

func nameOffset(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return i + 1
		}
	}
	return 0
}

// align greedily matches each query rune at the earliest position in
// target at or after from.
func align(query, target string, from int) ([]int, bool) {
	positions := make([]int, 0, len(query))
	i := from
	for _, qr := range query {
		found := false
		for i < len(target) {
			r, size := utf8.DecodeRuneInString(target[i:])
			at := i
			i += size
			if foldEqual(r, qr) {
				positions = append(positions, at)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return positions, true
}

func scoreAlignment(path string, positions []int, nameStart int) int {
	if len(positions) == 0 {
		return 0
	}
	score := 0
	run := 1
	for i := 1; i < len(positions); i++ {
		_, size := utf8.DecodeRuneInString(path[positions[i-1]:])
		if positions[i] == positions[i-1]+size {
			run++
			continue
		}
		score += runBonus * (run - 1)
		run = 1
	}
	score += runBonus * (run - 1)

	if positions[0] >= nameStart {
		d := utf8.RuneCountInString(path[nameStart:positions[0]])
		score += max(0, nameBonus-nameDecay*d)
		if run == len(positions) {
			score += exactBonus
		}
	}
	return score
}

// lastFoldIndex returns the byte offsets of the runes of the last
// case-insensitive occurrence of sub in s, or nil.
func lastFoldIndex(s, sub string) []int {
	if sub == "" {
		return nil
	}
	for at := len(s); at > 0; {
		_, size := utf8.DecodeLastRuneInString(s[:at])
		at -= size
		if pos, ok := foldPrefix(s, at, sub); ok {
			return pos
		}
	}
	return nil
}

// foldPrefix reports whether s[at:] starts with sub, ignoring case.
func foldPrefix(s string, at int, sub string) ([]int, bool) {
	pos := make([]int, 0, len(sub))
	i := at
	for _, qr := range sub {
		if i >= len(s) {
			return nil, false
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !foldEqual(r, qr) {
			return nil, false
		}
		pos = append(pos, i)
		i += size
	}
	return pos, true
}

// foldEqual reports whether a and b are equal under simple case folding,
// the comparison fuzzy uses.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
