package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/tui"
)

func newViewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the interactive item view (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context())
		},
	}
}

// runView mounts the item view; a failed fetch is shown in the view itself,
// so it is logged here but does not fail the command.
func (a *app) runView(ctx context.Context) error {
	c := a.newClient()
	m := tui.New(c,
		tui.WithStyles(tui.NewStyles(a.cfg.Theme)),
		tui.WithContext(ctx))

	final, err := tui.Run(ctx, m)
	if err != nil {
		return err
	}

	log := a.log.With(zap.String("endpoint", c.Endpoint()))
	switch {
	case final.Loading():
		log.Info("view closed before items arrived")
	case final.Err() != nil:
		log.Warn("view showed fetch error", zap.Error(final.Err()))
	default:
		log.Info("view closed", zap.Int("items", len(final.Items())))
	}
	return nil
}
