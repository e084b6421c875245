package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/termui"
)

func newOverviewCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show headline metrics and recent transcriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ctx.resolveLimit(limit)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *dashboard.Service) error {
				view, err := svc.Overview(runCtx, n)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				renderOverview(newPrinter(cmd), view)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Records to load (100, 500, 1000, 2000)")
	return cmd
}

func renderOverview(p printer, view dashboard.OverviewView) {
	p.notices(view.Notices)
	p.section("Overview")
	pairs := make([][2]string, 0, len(view.Metrics))
	for _, m := range view.Metrics {
		pairs = append(pairs, [2]string{m.Label, m.Value})
	}
	fmt.Fprintln(p.out, termui.KeyValues(pairs))

	p.counts("Transcriptions Over Time", "Date", view.Timeline)
	p.counts("File Types", "Type", view.FileTypes)
	p.counts("Top Languages", "Language", view.Languages)

	p.section("Recent Transcriptions")
	p.table(
		[]string{"File", "Type", "Language", "Speakers", "Duration", "Transcribed"},
		recordRows(view.Recent, 0),
		[]termui.Alignment{termui.AlignLeft, termui.AlignLeft, termui.AlignLeft, termui.AlignRight, termui.AlignRight},
	)
	if len(view.Recent) > 0 {
		fmt.Fprintf(p.out, "Showing %d most recent\n", len(view.Recent))
	}
}
