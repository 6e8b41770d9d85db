package tui

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Taishi66/kube-tree/internal/tree"
)

const defaultPager = "less"

var lookPathFunc = exec.LookPath

// pagerCommand picks the configured pager, then $PAGER, then less.
// Blank values fall through to the next one.
func pagerCommand(configured string) []string {
	if args := strings.Fields(configured); len(args) > 0 {
		return args
	}
	if args := strings.Fields(os.Getenv("PAGER")); len(args) > 0 {
		return args
	}
	return []string{defaultPager}
}

func buildPagerCmd(pager string, action tree.OpenAction) (*exec.Cmd, error) {
	args := pagerCommand(pager)
	bin, err := lookPathFunc(args[0])
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(bin, args[1:]...)
	cmd.Stdin = strings.NewReader("# " + action.Title + "\n" + action.Body)
	return cmd, nil
}

func (m Model) openPager(action tree.OpenAction) tea.Cmd {
	cmd, err := buildPagerCmd(m.cfg.Pager, action)
	if err != nil {
		return func() tea.Msg { return pagerDoneMsg{err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return pagerDoneMsg{err: err}
	})
}
