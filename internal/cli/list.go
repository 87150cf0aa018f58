package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/tui"
	"github.com/idilsaglam/items/internal/ui"
)

const energyBarWidth = 12

func newListCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print the item list once and exit",
		Example: `  items ls
  items ls --format markdown
  items ls --format json --endpoint http://localhost:8081/itemController/api/item`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			render, ok := listFormats[format]
			if !ok {
				return usageError{fmt.Errorf("unknown format %q (want panel, markdown or json)", format)}
			}

			items, err := a.newClient().FetchItems(cmd.Context())
			if err != nil {
				fmt.Fprintln(a.stderr, ui.C(ui.Current().Error, "Error: "+err.Error()))
				return exitCodeError{code: exitError}
			}
			return render(a.stdout, items)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "panel", "output format: panel, markdown or json")
	return cmd
}

var listFormats = map[string]func(io.Writer, []model.Item) error{
	"panel":    renderPanel,
	"markdown": renderMarkdown,
	"json":     renderJSON,
}

func renderPanel(w io.Writer, items []model.Item) error {
	t := ui.Current()

	var peak float64
	for _, it := range items {
		peak = max(peak, it.EnergyKcal)
	}

	lines := []string{
		fmt.Sprintf("%s  %s",
			ui.C(t.Title, "Item List"),
			ui.C(t.Muted, fmt.Sprintf("%d items · %s Kcal", len(items), tui.FormatKcal(model.TotalKcal(items))))),
		"",
	}
	for i, it := range items {
		name := runewidth.Truncate(it.Name, 60, "...")
		line := fmt.Sprintf("%s %s: %s Kcal %s",
			ui.C(t.Accent, fmt.Sprintf("%2d.", i+1)),
			name,
			ui.C(t.Energy, tui.FormatKcal(it.EnergyKcal)),
			ui.C(t.Muted, ui.EnergyBar(it.EnergyKcal, peak, energyBarWidth)))
		lines = append(lines, line)
	}
	ui.Panel(w, lines)
	return nil
}

func markdownTable(items []model.Item) string {
	var b strings.Builder
	b.WriteString("# Item List\n\n")
	if len(items) == 0 {
		b.WriteString("_No items._\n")
		return b.String()
	}
	b.WriteString("| # | Id | Item | Energy (Kcal) | Type |\n")
	b.WriteString("|--:|--:|---|--:|---|\n")
	cell := strings.NewReplacer("|", `\|`, "\n", " ")
	for i, it := range items {
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s |\n",
			i+1, it.ID, cell.Replace(it.Name), tui.FormatKcal(it.EnergyKcal), cell.Replace(it.FoodType))
	}
	return b.String()
}

func renderMarkdown(w io.Writer, items []model.Item) error {
	opt := glamour.WithAutoStyle()
	if ui.Current().Name == "mono" {
		opt = glamour.WithStylePath("notty")
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(markdownTable(items))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderJSON(w io.Writer, items []model.Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
