package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-git-history/internal/common"
	"github.com/Akashdeep-Patra/zed-git-history/internal/git"
	"github.com/Akashdeep-Patra/zed-git-history/internal/ui"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// CommitPanelHeight is the fixed outer height of the commit panel.
const CommitPanelHeight = 7

// farAway saturates a commit move at either end of history.
const farAway = 1 << 30

// CommitPanel shows the browsed commit and steps through history.
type CommitPanel struct {
	keys Keys
}

// NewCommitPanel returns the panel.
func NewCommitPanel(keys Keys) *CommitPanel {
	return &CommitPanel{keys: keys}
}

// HandleKey maps a key press to a message. Older commits are "down" in
// history, matching the newest-first list in the commit picker.
func (p *CommitPanel) HandleKey(msg tea.KeyMsg) common.Message {
	switch {
	case key.Matches(msg, p.keys.ParentCommit), key.Matches(msg, p.keys.Down):
		return common.Do(common.MoveCommit{Delta: 1})
	case key.Matches(msg, p.keys.NewerCommit), key.Matches(msg, p.keys.Up):
		return common.Do(common.MoveCommit{Delta: -1})
	case key.Matches(msg, p.keys.Top):
		return common.Do(common.MoveCommit{Delta: -farAway})
	case key.Matches(msg, p.keys.Bottom):
		return common.Do(common.MoveCommit{Delta: farAway})
	case key.Matches(msg, p.keys.CommitModal), key.Matches(msg, p.keys.Enter):
		return common.Do(common.OpenModal{Target: common.FocusCommitModal})
	case key.Matches(msg, p.keys.CopyCommitID):
		return common.Do(common.CopyCommitID{})
	}
	return common.NoAction{}
}

// View renders the panel for commit c at index of total.
func (p *CommitPanel) View(styles ui.Styles, width int, focused bool, c *git.CommitRecord, index, total int) string {
	if c == nil {
		return frame(styles, "Commit", styles.Placeholder.Render("  loading history…"), width, CommitPanelHeight, focused)
	}

	title := fmt.Sprintf("Commit %s", styles.Muted.Render(fmt.Sprintf("%d/%d", index+1, total)))
	var where string
	switch {
	case index == 0:
		where = "HEAD"
	default:
		where = fmt.Sprintf("HEAD~%d", index)
	}
	if len(c.Parents) > 1 {
		where += fmt.Sprintf(" · merge of %d", len(c.Parents))
	}

	lines := []string{
		" " + styles.CommitHash.Render(c.ShortID) + " " + styles.Muted.Render(where),
		" " + styles.Author.Render(c.Author) + " " + styles.Muted.Render("<"+c.AuthorEmail+">"),
		" " + styles.Date.Render(relTime(c.Time)),
		" " + styles.CommitMsg.Render(c.Summary),
	}
	return frame(styles, title, strings.Join(lines, "\n"), width, CommitPanelHeight, focused)
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04") + "  (" + ago(time.Since(t)) + ")"
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 60*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 2*365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/24/30))
	}
	return fmt.Sprintf("%dy ago", int(d.Hours()/24/365))
}
