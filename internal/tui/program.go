package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run mounts m in the alternate screen and blocks until the user quits or ctx
// is done. Cancelling ctx (SIGTERM, Ctrl-C from the shell) is a normal exit.
// The component is always unmounted on return.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	defer m.Unmount()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	finalModel, err := tea.NewProgram(m, opts...).Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return m, err
	}
	fm, ok := finalModel.(Model)
	if !ok {
		return m, nil
	}
	return fm, nil
}
