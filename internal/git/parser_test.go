package git

import (
	"strings"
	"testing"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shaA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	shaB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func logRecord(fields ...string) string {
	return strings.Join(fields, "\x00") + "\x01\n"
}

func TestParseLogOutput(t *testing.T) {
	out := logRecord(shaB, "bbbbbbb", "Grace", "grace@example.com", "1700000100", "Second: with colon", shaA) +
		logRecord(shaA, "aaaaaaa", "Ada", "ada@example.com", "1700000000", "Initial commit", "")

	commits := ParseLogOutput(out)
	require.Len(t, commits, 2)

	assert.Equal(t, shaB, commits[0].ID)
	assert.Equal(t, "bbbbbbb", commits[0].ShortID)
	assert.Equal(t, 0, commits[0].Ordinal)
	assert.Equal(t, "Second: with colon", commits[0].Summary)
	assert.Equal(t, "Grace", commits[0].Author)
	assert.Equal(t, int64(1700000100), commits[0].Time.Unix())
	assert.Equal(t, []string{shaA}, commits[0].Parents)

	assert.Equal(t, 1, commits[1].Ordinal)
	assert.Empty(t, commits[1].Parents)
}

func TestParseLogOutputSkipsMalformed(t *testing.T) {
	assert.Nil(t, ParseLogOutput(""))
	out := "garbage\x01" + logRecord(shaA, "aaaaaaa", "Ada", "a@x", "1", "ok", "")
	commits := ParseLogOutput(out)
	require.Len(t, commits, 1)
	assert.Equal(t, 0, commits[0].Ordinal)
}

func TestParseLsTreeOutput(t *testing.T) {
	out := "040000 tree " + shaA + "\tsrc\x00" +
		"100644 blob " + shaB + "\tsrc/main.rs\x00" +
		"160000 commit " + shaA + "\tvendor/sub\x00" +
		"100755 blob " + shaB + "\twith space.sh\x00"

	entries := ParseLsTreeOutput(out)
	require.Len(t, entries, 3)
	assert.Equal(t, FileEntry{Path: "src", Kind: KindDir, Present: true}, entries[0])
	assert.Equal(t, FileEntry{Path: "src/main.rs", Kind: KindFile, Present: true}, entries[1])
	assert.Equal(t, "with space.sh", entries[2].Path)
	assert.True(t, entries[2].IsFile())
}

func TestParseBlamePorcelain(t *testing.T) {
	out := shaA + " 1 1 2\n" +
		"author Ada\n" +
		"author-mail <ada@example.com>\n" +
		"summary Initial\n" +
		"filename main.go\n" +
		"\tpackage main\n" +
		shaA + " 2 2\n" +
		"\t\n" +
		shaB + " 3 3 1\n" +
		"author Grace\n" +
		"filename main.go\n" +
		"\tfunc main() {}\n"

	entries, err := ParseBlamePorcelain(out)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, BlameEntry{Line: 1, CommitID: shaA, Author: "Ada"}, entries[0])
	assert.Equal(t, BlameEntry{Line: 2, CommitID: shaA, Author: "Ada"}, entries[1])
	assert.Equal(t, BlameEntry{Line: 3, CommitID: shaB, Author: "Grace"}, entries[2])
}

func TestParseBlamePorcelainRejectsOrphanContent(t *testing.T) {
	_, err := ParseBlamePorcelain("\torphan line\n")
	require.Error(t, err)
	assert.Equal(t, common.KindDecode, common.KindOf(err))
}

func TestDecodeContent(t *testing.T) {
	c := DecodeContent([]byte("one\r\n\ttwo\nthree wide line\n"), 0)
	require.Equal(t, []string{"one", "    two", "three wide line"}, c.Lines)
	assert.Equal(t, len("three wide line"), c.Width)
	assert.False(t, c.Binary)

	bin := DecodeContent([]byte{'P', 'K', 0, 1}, 0)
	assert.True(t, bin.Binary)
	assert.Zero(t, bin.LineCount())

	big := DecodeContent([]byte("0123456789"), 4)
	assert.True(t, big.TooLarge)
	assert.Equal(t, 10, big.Size)

	assert.Zero(t, DecodeContent(nil, 0).LineCount())
	assert.Zero(t, (*Content)(nil).LineCount())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", Short("abc", 8))
	assert.Equal(t, "aaaaaaaa", Short(shaA, 8))
}
