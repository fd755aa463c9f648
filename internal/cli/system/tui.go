package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ascend/internal/cli"
	"github.com/julianstephens/ascend/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Tracker), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
