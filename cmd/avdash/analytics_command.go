package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"avtranscribe/internal/analytics"
	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/termui"
)

func newAnalyticsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show processing, speaker, and content analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ctx.resolveLimit(limit)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *dashboard.Service) error {
				view, err := svc.Analytics(runCtx, n)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				renderAnalytics(newPrinter(cmd), view)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Records to load (100, 500, 1000, 2000)")
	return cmd
}

func renderAnalytics(p printer, view dashboard.AnalyticsView) {
	p.notices(view.Notices)
	fmt.Fprintf(p.out, "Analytics over %d records\n", view.Records)

	p.section("Processing Efficiency by File Type")
	rows := make([][]string, 0, len(view.Efficiency))
	for _, e := range view.Efficiency {
		rows = append(rows, []string{
			e.FileType,
			strconv.Itoa(e.Files),
			fmt.Sprintf("%.1fs", e.MeanProcessing),
			fmt.Sprintf("%.1fs", e.MeanDuration),
			fmt.Sprintf("%.2f", e.ProcessingRatio),
		})
	}
	right := []termui.Alignment{termui.AlignLeft, termui.AlignRight, termui.AlignRight, termui.AlignRight, termui.AlignRight}
	p.table([]string{"Type", "Files", "Avg Processing", "Avg Duration", "Ratio"}, rows, right)

	p.section("Processing Time vs Duration")
	rows = rows[:0]
	for _, pt := range view.ProcessingVsDuration {
		rows = append(rows, []string{pt.FileName, fmt.Sprintf("%.1fs", pt.DurationSeconds), fmt.Sprintf("%.1fs", pt.ProcessingSeconds)})
	}
	p.table([]string{"File", "Duration", "Processing"}, rows, []termui.Alignment{termui.AlignLeft, termui.AlignRight, termui.AlignRight})

	p.counts("Speaker Count Distribution", "Speakers", view.SpeakerCounts)
	p.counts("Files with Speakers by Language", "Language", view.SpeakersByLanguage)
	p.counts("Word Count Distribution", "Words", view.WordCounts)

	p.section("Average Words by Language")
	rows = rows[:0]
	for _, v := range view.AverageWordsByLanguage {
		rows = append(rows, []string{v.Label, fmt.Sprintf("%.0f", v.Value)})
	}
	p.table([]string{"Language", "Avg Words"}, rows, []termui.Alignment{termui.AlignLeft, termui.AlignRight})

	p.counts("File Size Distribution", "Size", view.FileSizes)
}

type browseOptions struct {
	fileType string
	language string
	sortBy   string
	page     int
	limit    int
}

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	var opts browseOptions
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through transcription records with filters and sorting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ctx.resolveLimit(opts.limit)
			if err != nil {
				return err
			}
			browse := analytics.BrowseOptions{
				FileType: opts.fileType,
				Language: opts.language,
				SortBy:   opts.sortBy,
				Page:     opts.page,
			}
			return ctx.withService(cmd, func(runCtx context.Context, svc *dashboard.Service) error {
				view, err := svc.Browse(runCtx, n, browse)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				renderBrowse(newPrinter(cmd), view)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.fileType, "type", "t", "", "Only files of this type")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Only files in this language code")
	cmd.Flags().StringVarP(&opts.sortBy, "sort", "s", analytics.SortTimestamp,
		"Sort column: "+strings.Join(analytics.SortColumns, ", "))
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Records to load (100, 500, 1000, 2000)")
	return cmd
}

func renderBrowse(p printer, view dashboard.BrowseView) {
	p.notices(view.Notices)
	p.section(fmt.Sprintf("Browse: %d records", view.Total))
	fmt.Fprintf(p.out, "types: %s | languages: %s\n", joinOrNone(view.FileTypes), joinOrNone(view.Languages))
	p.table(
		[]string{"File", "Type", "Language", "Speakers", "Duration", "Transcribed", "Preview"},
		recordRows(view.Records, browsePreview),
		[]termui.Alignment{termui.AlignLeft, termui.AlignLeft, termui.AlignLeft, termui.AlignRight, termui.AlignRight},
	)
	fmt.Fprintf(p.out, "Page %d, %d of %d records\n", view.Page, len(view.Records), view.Total)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
